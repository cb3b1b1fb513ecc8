package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ChangePassword(ctx context.Context) error

	Browse(ctx context.Context, feed string, args []string) error
	Search(ctx context.Context, args []string) error
	Find(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Chapters(ctx context.Context, args []string) error
	Read(ctx context.Context, args []string) error

	Users(ctx context.Context) error
	SetRole(ctx context.Context, args []string) error
	SetActive(ctx context.Context, args []string, active bool) error
	Mine(ctx context.Context) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	UploadImage(ctx context.Context, args []string) error
	UploadZip(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: list, new, trending, search, find, show, chapters, read, register, login, exit"
	helpUser  = "Available commands: list, new, trending, search, find, show, chapters, read, whoami, passwd, logout, exit"
	helpAdmin = helpUser + "\nAdmin commands: users, role, activate, deactivate, mine, create, edit, delete, upload-image, upload-zip"
)

// runREPL starts a simple read–eval–print loop for the manga reader CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens to the handler. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// Catalog commands (list, new, trending, search, find, show, chapters, read)
// work without an account. Account commands (whoami, passwd, logout) and the
// admin commands need a session; the services reject them otherwise.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("manga%s> ", prefixSpace(statusFn())))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn(helpAdmin)
			case a.isLoggedIn():
				printlnFn(helpUser)
			default:
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "passwd":
			_ = a.ChangePassword(ctx)

		case "l", "list":
			_ = a.Browse(ctx, feedAll, args)
		case "new":
			_ = a.Browse(ctx, feedNew, args)
		case "trending":
			_ = a.Browse(ctx, feedTrending, args)
		case "search":
			_ = a.Search(ctx, args)
		case "find":
			_ = a.Find(ctx)
		case "show":
			_ = a.Show(ctx, args)
		case "chapters":
			_ = a.Chapters(ctx, args)
		case "read":
			_ = a.Read(ctx, args)

		case "users":
			_ = a.Users(ctx)
		case "role":
			_ = a.SetRole(ctx, args)
		case "activate":
			_ = a.SetActive(ctx, args, true)
		case "deactivate":
			_ = a.SetActive(ctx, args, false)
		case "mine":
			_ = a.Mine(ctx)
		case "create":
			_ = a.Create(ctx)
		case "edit":
			_ = a.Edit(ctx, args)
		case "delete":
			_ = a.Delete(ctx, args)
		case "upload-image":
			_ = a.UploadImage(ctx, args)
		case "upload-zip":
			_ = a.UploadZip(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
