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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Variants(ctx context.Context) error
	Scores(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Store(ctx context.Context, args []string) error
	Chat(ctx context.Context) error
	MRI(ctx context.Context, args []string) error
	Watch(ctx context.Context, args []string) error
	Ping(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the helixdash CLI.
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
//	  - register       — create an account
//	  - login          — authenticate
//	  - ping           — probe backend liveness
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the current account
//	  - variants | v   — list genomic variants
//	  - scores         — list polygenic risk scores
//	  - upload <file>  — upload a genomic file for analysis
//	  - store <file>   — upload a file directly to object storage
//	  - watch <id>     — follow an analysis job's progress
//	  - chat           — talk to the assistant (empty line to leave)
//	  - mri <cmd>      — list | analyze <file> [type] | show <id> | delete <id>
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("hx> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, (v)ariants, scores, upload <file>, store <file>, watch <id>, chat, mri <list|analyze|show|delete>, ping, logout, exit")
			} else {
				printlnFn("Available commands: register, login, ping, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "v", "variants":
			_ = a.Variants(ctx)

		case "scores":
			_ = a.Scores(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <file>")
				continue
			}
			_ = a.Upload(ctx, args)

		case "store":
			if len(args) == 0 {
				printlnFn("Usage: store <file>")
				continue
			}
			_ = a.Store(ctx, args)

		case "watch":
			if len(args) == 0 {
				printlnFn("Usage: watch <analysis-id>")
				continue
			}
			_ = a.Watch(ctx, args)

		case "chat":
			_ = a.Chat(ctx)

		case "mri":
			if len(args) == 0 {
				printlnFn("Usage: mri <list|analyze|show|delete> ...")
				continue
			}
			_ = a.MRI(ctx, args)

		case "ping":
			_ = a.Ping(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
