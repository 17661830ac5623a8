package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/Arun270647/tma-demo-repo/core/identity"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sql.DB // role bindings database; nil unless the postgres engine is used
	bindingSvc *identity.Service
	validate   *validator.Validate
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  bind -subject SUBJECT -role ROLE -academy ACADEMY_ID [-coach COACH_ID] [-player PLAYER_ID] - store a role binding")
	fmt.Fprintln(cli.out, "  unbind -subject SUBJECT - delete a role binding")
	fmt.Fprintln(cli.out, "  bindings [-role ROLE] - list role bindings")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command against the role bindings database")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	bindCmd := flag.NewFlagSet("bind", flag.ContinueOnError)
	bindCmd.SetOutput(cli.out)
	bindSubject := bindCmd.String("subject", "", "The identity subject (JWT `sub`).")
	bindRole := bindCmd.String("role", "", "academy_user | coach | player")
	bindAcademy := bindCmd.String("academy", "", "The academy id.")
	bindCoach := bindCmd.String("coach", "", "The coach id (coach role).")
	bindPlayer := bindCmd.String("player", "", "The player id (player role).")

	unbindCmd := flag.NewFlagSet("unbind", flag.ContinueOnError)
	unbindCmd.SetOutput(cli.out)
	unbindSubject := unbindCmd.String("subject", "", "The identity subject (JWT `sub`).")

	listCmd := flag.NewFlagSet("bindings", flag.ContinueOnError)
	listCmd.SetOutput(cli.out)
	listRole := listCmd.String("role", "", "Only list this role.")

	ctx := context.Background()
	switch args[1] {
	case "bind":
		if err := bindCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *bindSubject == "" || *bindRole == "" || *bindAcademy == "" {
			bindCmd.Usage()
			return errHelp
		}
		nb := identity.NewBinding{
			Subject:   *bindSubject,
			Role:      *bindRole,
			AcademyID: *bindAcademy,
			CoachID:   *bindCoach,
			PlayerID:  *bindPlayer,
		}
		return cli.bind(ctx, nb)
	case "unbind":
		if err := unbindCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *unbindSubject == "" {
			unbindCmd.Usage()
			return errHelp
		}
		return cli.unbind(ctx, *unbindSubject)
	case "bindings":
		if err := listCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.listBindings(ctx, *listRole)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
