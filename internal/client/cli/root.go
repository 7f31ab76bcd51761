package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName
		if a.isAdmin {
			s = s + " admin"
		}
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the board CLI (type 'help' for commands)")

	if err := a.api.Healthy(ctx); err != nil {
		fmt.Fprintf(a.out, "Server unreachable: %s\n", err.Error())
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
