package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const helpText = "Available commands: create-admin, grant, users, help, exit"

// Root runs the admin REPL until the input ends or the user exits.
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Storefront admin console (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, "admin> ")
		line, err := a.reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(a.out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			fmt.Fprintln(a.out, helpText)
		case "create-admin":
			a.report(a.createAdmin(ctx))
		case "grant":
			a.report(a.grant(ctx))
		case "users":
			a.report(a.listUsers(ctx))
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", parts[0])
		}
	}
}

func (a *App) report(err error) {
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return
	}
	fmt.Fprintln(a.out, "Success!")
}
