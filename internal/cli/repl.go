package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/puntos/internal/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context, typ models.EntryType, reason string) error
	Bulk(ctx context.Context, typ, qty, reason string) error
	Score(ctx context.Context) error
	History(ctx context.Context) error
	Clear(ctx context.Context) error
	Missions(ctx context.Context) error
	AddMission(ctx context.Context) error
	DeleteMission(ctx context.Context, id string) error
	Users(ctx context.Context) error
	AddUser(ctx context.Context, name string) error
	SwitchUser(ctx context.Context, name string) error
	SyncOn(ctx context.Context, key string) error
	SyncOff(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the tracker CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	+ <reason>           — log one positive point
//	0 <reason>           — log one neutral point
//	- <reason>           — log one negative point
//	bulk <type> <n> <reason> — log n points of type at once
//	score | s            — show the current score
//	history | h          — show recent entries
//	clear                — clear history (password + confirmation)
//	missions | m         — list missions
//	addmission           — create a mission (interactive)
//	delmission <id>      — delete a mission
//	users                — show all users
//	adduser <name>       — add a user
//	switch <name>        — switch active user
//	sync on [key] | sync off
//	help, exit | quit
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("puntos> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))

		switch cmd {
		case "help":
			printlnFn("Available commands: + 0 - bulk, (s)core, (h)istory, clear, (m)issions, addmission, delmission, users, adduser, switch, sync on/off, exit")

		case "+":
			_ = a.Add(ctx, models.EntryTypePositive, rest)

		case "0":
			_ = a.Add(ctx, models.EntryTypeNeutral, rest)

		case "-":
			_ = a.Add(ctx, models.EntryTypeNegative, rest)

		case "bulk":
			if len(parts) < 4 {
				printlnFn("usage: bulk <positive|neutral|negative> <quantity> <reason>")
				continue
			}
			reason := strings.Join(parts[3:], " ")
			_ = a.Bulk(ctx, parts[1], parts[2], reason)

		case "s", "score":
			_ = a.Score(ctx)

		case "h", "history":
			_ = a.History(ctx)

		case "clear":
			_ = a.Clear(ctx)

		case "m", "missions":
			_ = a.Missions(ctx)

		case "addmission":
			_ = a.AddMission(ctx)

		case "delmission":
			if len(parts) < 2 {
				printlnFn("usage: delmission <id>")
				continue
			}
			_ = a.DeleteMission(ctx, parts[1])

		case "users":
			_ = a.Users(ctx)

		case "adduser":
			if len(parts) < 2 {
				printlnFn("usage: adduser <name>")
				continue
			}
			_ = a.AddUser(ctx, rest)

		case "switch":
			if len(parts) < 2 {
				printlnFn("usage: switch <name>")
				continue
			}
			_ = a.SwitchUser(ctx, rest)

		case "sync":
			if len(parts) < 2 {
				printlnFn("usage: sync on [key] | sync off")
				continue
			}
			switch parts[1] {
			case "on":
				key := ""
				if len(parts) > 2 {
					key = parts[2]
				}
				_ = a.SyncOn(ctx, key)
			case "off":
				_ = a.SyncOff(ctx)
			default:
				printlnFn("usage: sync on [key] | sync off")
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
