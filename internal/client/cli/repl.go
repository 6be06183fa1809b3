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
var printlnFn = fmt.Fprintln

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error

	List(ctx context.Context) error
	Refresh(ctx context.Context) error
	Sport(ctx context.Context, args []string) error
	SelectSport(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Filters(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Screenshot(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error

	Sports(ctx context.Context) error
	AddSport(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Notices(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: register, login, help, exit"
	helpMember = "Available commands: (l)ist, refresh, sport <id>, sportsel <id|all>, status <value|all>, " +
		"search [text], filters [clear], show <id>, edit <id>, delete <id>, screenshot <id>, export [file], " +
		"upload <path> [sport_id], sports, addsport, notices, me, logout, exit"
)

// commands that need a stored session.
var memberOnly = map[string]bool{
	"l": true, "list": true, "refresh": true, "sport": true, "sportsel": true,
	"status": true, "search": true, "filters": true, "show": true, "edit": true,
	"delete": true, "screenshot": true, "export": true, "upload": true,
	"sports": true, "addsport": true, "notices": true, "me": true, "logout": true,
}

// runREPL starts a read–eval–print loop for the payscan CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens to the matching method on a. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// The reader is shared with the interactive prompts, so commands that ask
// follow-up questions consume their answers from the same stream.
//
// Output goes to w, the same writer the commands and background renders use.
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures through notifications or inline messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		printlnFn(w, fmt.Sprintf("payscan %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if memberOnly[cmd] && !a.isLoggedIn() {
			printlnFn(w, "Please login first")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(w, helpMember)
			} else {
				printlnFn(w, helpGuest)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "me":
			_ = a.Me(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "sport":
			_ = a.Sport(ctx, args)

		case "sportsel":
			_ = a.SelectSport(ctx, args)

		case "status":
			_ = a.Status(ctx, args)

		case "search":
			_ = a.Search(ctx, args)

		case "filters":
			_ = a.Filters(ctx, args)

		case "show":
			_ = a.Show(ctx, args)

		case "edit":
			_ = a.Edit(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "screenshot":
			_ = a.Screenshot(ctx, args)

		case "export":
			_ = a.Export(ctx, args)

		case "upload":
			_ = a.Upload(ctx, args)

		case "sports":
			_ = a.Sports(ctx)

		case "addsport":
			_ = a.AddSport(ctx)

		case "notices":
			_ = a.Notices(ctx)

		case "exit", "quit":
			printlnFn(w, "Bye!")
			return

		default:
			printlnFn(w, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
