package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Root prints the banner and runs the REPL on stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the manga reader CLI (type 'help' for commands)")
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Restored session %s\n", a.getStatus())
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}
