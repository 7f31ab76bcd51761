package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Signup(ctx context.Context) error {
	f.calls = append(f.calls, "signup")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) AdminLogin(ctx context.Context) error {
	f.calls = append(f.calls, "admin")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Post(ctx context.Context) error {
	f.calls = append(f.calls, "post")
	return nil
}
func (f *fakeExec) ShowFeed(ctx context.Context) error {
	f.calls = append(f.calls, "feed")
	return nil
}
func (f *fakeExec) Watch(ctx context.Context) error {
	f.calls = append(f.calls, "watch")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"post",
		"feed",
		"watch",
		"logout",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "post", "feed", "watch", "logout"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{}
	sc := bufio.NewScanner(strings.NewReader(""))

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("expected no calls, got %v", exec.calls)
	}
}

func TestRunREPL_FeedShortcut(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(strings.NewReader("f\nquit\n"))

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 1 || exec.calls[0] != "feed" {
		t.Fatalf("expected single feed call, got %v", exec.calls)
	}
}
