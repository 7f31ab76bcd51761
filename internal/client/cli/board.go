package cli

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"anonboard/internal/client/api"
	"anonboard/internal/messages"
	"anonboard/internal/poll"
)

// Post prompts for a message and appends it to the global log.
func (a *App) Post(ctx context.Context) error {
	text, err := getSimpleText(a.reader, "Enter message", a.out)
	if err != nil {
		return err
	}

	if err := a.api.Post(ctx, text); err != nil {
		fmt.Fprintf(a.out, "Post failed: %s\n", err.Error())
		return err
	}
	return nil
}

func (a *App) printMessage(m messages.Message) {
	fmt.Fprintf(a.out, "[%s] %s: %s\n", m.Timestamp, m.Author, m.Content)
}

// ShowFeed fetches the recent window once and prints it.
func (a *App) ShowFeed(ctx context.Context) error {
	feed, err := a.api.Feed(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Feed failed: %s\n", err.Error())
		return err
	}

	a.rememberInterval(feed)

	if feed.Empty {
		fmt.Fprintln(a.out, "No messages yet. Be the first to say something!")
		return nil
	}

	for _, m := range feed.Messages {
		a.printMessage(m)
	}
	a.printed = feed.Total
	return nil
}

func (a *App) rememberInterval(feed api.Feed) {
	if feed.RefreshInterval > 0 {
		atomic.StoreInt64(&a.lastInterval, int64(feed.RefreshInterval))
	}
}

// cadence yields the watch interval: the local override when configured,
// otherwise whatever the server advertised last.
func (a *App) cadence(ctx context.Context) time.Duration {
	if a.config.PollInterval > 0 {
		return a.config.PollInterval
	}
	if secs := atomic.LoadInt64(&a.lastInterval); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return time.Second
}

// Watch prints the feed and then keeps polling it, showing only messages
// that arrived since the last cycle. Pressing Enter stops watching.
func (a *App) Watch(ctx context.Context) error {
	if err := a.ShowFeed(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Watching... press Enter to stop.")
	go func() {
		_, _ = a.reader.ReadString('\n')
		cancel()
	}()

	ticks := poll.NewScheduler(a.cadence).Run(ctx)
	for range ticks {
		feed, err := a.api.Feed(ctx)
		if err != nil {
			continue
		}
		a.rememberInterval(feed)

		// An admin wipe shrinks the log; fall back to the new baseline.
		if feed.Total < a.printed {
			a.printed = feed.Total
		}
		if feed.Total > a.printed {
			fresh := feed.Total - a.printed
			if fresh > len(feed.Messages) {
				fresh = len(feed.Messages)
			}
			for _, m := range feed.Messages[len(feed.Messages)-fresh:] {
				a.printMessage(m)
			}
			a.printed = feed.Total
		}
	}
	return nil
}
