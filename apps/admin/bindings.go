package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/Arun270647/tma-demo-repo/core/identity"
)

func (cli *commandLine) bind(ctx context.Context, nb identity.NewBinding) error {
	if err := nb.Validate(cli.validate); err != nil {
		return err
	}
	b, err := cli.bindingSvc.Create(ctx, nb)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "bound %s as %s of academy %s\n", b.Subject, b.Role, b.AcademyID)
	return nil
}

func (cli *commandLine) unbind(ctx context.Context, subject string) error {
	if err := cli.bindingSvc.Delete(ctx, subject); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "unbound %s\n", subject)
	return nil
}

func (cli *commandLine) listBindings(ctx context.Context, role string) error {
	bindings, err := cli.bindingSvc.Query(ctx, role)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUBJECT\tROLE\tACADEMY\tCOACH\tPLAYER")
	for _, b := range bindings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", b.Subject, b.Role, b.AcademyID, b.CoachID, b.PlayerID)
	}
	return w.Flush()
}
