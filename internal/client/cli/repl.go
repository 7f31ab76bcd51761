package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	AdminLogin(ctx context.Context) error
	Post(ctx context.Context) error
	ShowFeed(ctx context.Context) error
	Watch(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the board CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - signup         — create an account
//	  - login          — authenticate
//	  - admin          — log in as administrator
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - post           — post a message
//	  - feed           — show the recent messages once
//	  - watch          — keep polling the feed until Enter
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// print their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("board> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: post, (f)eed, watch, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, admin, exit")
			}

		case "signup":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "admin":
			_ = a.AdminLogin(ctx)

		case "post":
			_ = a.Post(ctx)

		case "f", "feed":
			_ = a.ShowFeed(ctx)

		case "watch":
			_ = a.Watch(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
