package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arun270647/tma-demo-repo/core/identity"
	testutil "github.com/Arun270647/tma-demo-repo/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.Env, *bytes.Buffer) {
	t.Helper()
	env := testutil.NewEnv(t)
	out := new(bytes.Buffer)
	return &commandLine{
		bindingSvc: env.BindingSvc,
		validate:   env.Validate,
		out:        out,
	}, env, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantAnyErr bool
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else if !tt.wantAnyErr {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" || tt.wantAnyErr {
				t.Errorf("cli.run() error = nil, want an error")
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no postgres bindings", args: []string{"migrate", "up"}, wantErr: errNoMigrations},
	})

	db, err := sql.Open("postgres", "postgres://localhost/trackmyacademy?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	cli.db = db

	orig := gooseRunFunc
	t.Cleanup(func() { gooseRunFunc = orig })
	gooseRunFunc = func(_ context.Context, _ *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "academy_index", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	})
}

func Test_commandLine_bindings(t *testing.T) {
	cli, env, out := setup(t)
	a := env.CreateAcademy(t, "Alpha", "")
	c := env.CreateCoach(t, a.ID, "Carl", "")

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "bind: no args", args: []string{"bind"}, wantErr: errHelp},
		{name: "bind: unknown flag", args: []string{"bind", "-lol"}, wantErr: errHelp},
		{name: "bind: missing academy", args: []string{"bind", "-subject", "s-1", "-role", "coach"}, wantErr: errHelp},
		{name: "bind: super admin", args: []string{"bind", "-subject", "s-1", "-role", "super_admin", "-academy", a.ID}, wantAnyErr: true},
		{name: "bind: coach without coach id", args: []string{"bind", "-subject", "s-1", "-role", "coach", "-academy", a.ID}, wantErrStr: "coach_id: this field is required"},
		{name: "bind coach", args: []string{"bind", "-subject", "s-1", "-role", "Coach", "-academy", a.ID, "-coach", c.ID}},
		{name: "bind owner", args: []string{"bind", "-subject", "s-2", "-role", "academy_user", "-academy", a.ID}},
		{name: "bind: already bound", args: []string{"bind", "-subject", "s-1", "-role", "academy_user", "-academy", a.ID}, wantErrStr: identity.ErrBindingExists.Error()},
		{name: "unbind: no args", args: []string{"unbind"}, wantErr: errHelp},
		{name: "unbind: unknown subject", args: []string{"unbind", "-subject", "nope"}, wantErr: identity.ErrNotFound},
		{name: "unbind", args: []string{"unbind", "-subject", "s-2"}},
	})

	b, err := env.BindingSvc.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleCoach, b.Role)
	assert.Equal(t, c.ID, b.CoachID)
	_, err = env.BindingSvc.Get(context.Background(), "s-2")
	assert.ErrorIs(t, err, identity.ErrNotFound)

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "bindings", "-role", "coach"}))
	assert.Contains(t, out.String(), "SUBJECT")
	assert.Contains(t, out.String(), "s-1")
	assert.Contains(t, out.String(), c.ID)
}
