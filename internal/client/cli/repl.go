package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/storeit/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Details(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the StoreIt CLI.
//
// It reads a line, parses the first token as the command, and dispatches the
// remaining tokens to methods on 'a'. The loop exits on EOF or when the user
// types "exit" or "quit".
//
//	Not logged in:
//	  - help                   show available commands
//	  - register               create an account
//	  - login                  authenticate
//	  - exit | quit            leave the program
//
//	Logged in:
//	  - upload <path>          upload a local file
//	  - (l)ist                 list files
//	  - details <id>           show file details
//	  - rename <id> <name>     rename a file, keeping its extension
//	  - share <id> [email...]  replace the users a file is shared with
//	  - delete <id>            delete a file
//	  - download <id> [dest]   save a file locally
//	  - logout                 log out
//
// Command errors are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("storeit (%s) > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload, (l)ist, details, download, rename, share, delete, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "register":
			handler = a.Register
		case "login":
			handler = a.Login
		case "logout":
			handler = a.Logout
		case "upload":
			handler = a.Upload
		case "l", "list":
			handler = a.List
		case "details", "show":
			handler = a.Details
		case "rename":
			handler = a.Rename
		case "share":
			handler = a.Share
		case "delete", "rm":
			handler = a.Delete
		case "download", "get":
			handler = a.Download

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err := handler(ctx, args); err != nil {
			reportError(err)
		}
	}
}

func reportError(err error) {
	switch {
	case errors.Is(err, errUsage):
	case errors.Is(err, client.ErrUnauthorized):
		printlnFn("Not logged in or session expired, please log in")
	case errors.Is(err, client.ErrUnavailable):
		printlnFn("Server unavailable, try again later")
	case errors.Is(err, client.ErrNotFound):
		printlnFn("File not found")
	default:
		printlnFn("Error:", err)
	}
}
