package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/storeit/internal/client/client"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  map[string][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context, args []string) error {
	return f.record("register", args)
}
func (f *fakeExec) Login(ctx context.Context, args []string) error {
	f.loggedIn = true
	return f.record("login", args)
}
func (f *fakeExec) Logout(ctx context.Context, args []string) error {
	f.loggedIn = false
	return f.record("logout", args)
}
func (f *fakeExec) Upload(ctx context.Context, args []string) error { return f.record("upload", args) }
func (f *fakeExec) List(ctx context.Context, args []string) error   { return f.record("list", args) }
func (f *fakeExec) Details(ctx context.Context, args []string) error {
	return f.record("details", args)
}
func (f *fakeExec) Rename(ctx context.Context, args []string) error { return f.record("rename", args) }
func (f *fakeExec) Share(ctx context.Context, args []string) error  { return f.record("share", args) }
func (f *fakeExec) Delete(ctx context.Context, args []string) error { return f.record("delete", args) }
func (f *fakeExec) Download(ctx context.Context, args []string) error {
	return f.record("download", args)
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"upload ./a.txt",
		"l",
		"details f1",
		"rename f1 new name",
		"share f1 a@x.com b@x.com",
		"rm f1",
		"get f1 /tmp/out",
		"",
		"foobar",
		"logout",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	require.Equal(t, []string{"login", "upload", "list", "details", "rename", "share", "delete", "download", "logout"}, exec.calls)
	require.Equal(t, []string{"f1", "/tmp/out"}, exec.args["download"])
	require.Equal(t, []string{"./a.txt"}, exec.args["upload"])
	require.Equal(t, []string{"f1", "new", "name"}, exec.args["rename"])
	require.Equal(t, []string{"f1", "a@x.com", "b@x.com"}, exec.args["share"])

	require.Contains(t, *out, "Available commands: register, login, exit")
	require.Contains(t, *out, "Available commands: upload, (l)ist, details, download, rename, share, delete, logout, exit")
	require.Contains(t, *out, "Unknown command: foobar")
	require.Contains(t, *out, "Bye!")
	require.Contains(t, *out, "storeit (status) > ")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("list")))

	require.Equal(t, []string{"list"}, exec.calls)
}

func TestRunREPL_ReportsErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{client.ErrUnauthorized, "Not logged in or session expired, please log in"},
		{client.ErrUnavailable, "Server unavailable, try again later"},
		{client.ErrNotFound, "File not found"},
		{errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			out := capturePrintln(t)
			exec := &fakeExec{err: tt.err}
			runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("list\nquit\n")))
			require.Contains(t, *out, tt.want)
		})
	}
}

func TestRunREPL_UsageErrorIsSilent(t *testing.T) {
	out := capturePrintln(t)
	exec := &fakeExec{err: errUsage}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("delete\n")))

	for _, l := range *out {
		require.NotContains(t, l, "Error")
	}
}
