package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
}

func (f *fakeExec) record(name string, args []string) error {
	if len(args) > 0 {
		name += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isAdmin() bool    { return f.admin }

func (f *fakeExec) Register(ctx context.Context) error { return f.record("register", nil) }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) WhoAmI(ctx context.Context) error         { return f.record("whoami", nil) }
func (f *fakeExec) ChangePassword(ctx context.Context) error { return f.record("passwd", nil) }
func (f *fakeExec) Browse(ctx context.Context, feed string, args []string) error {
	return f.record("browse:"+feed, args)
}
func (f *fakeExec) Search(ctx context.Context, args []string) error { return f.record("search", args) }
func (f *fakeExec) Find(ctx context.Context) error                  { return f.record("find", nil) }
func (f *fakeExec) Show(ctx context.Context, args []string) error   { return f.record("show", args) }
func (f *fakeExec) Chapters(ctx context.Context, args []string) error {
	return f.record("chapters", args)
}
func (f *fakeExec) Read(ctx context.Context, args []string) error    { return f.record("read", args) }
func (f *fakeExec) Users(ctx context.Context) error                  { return f.record("users", nil) }
func (f *fakeExec) SetRole(ctx context.Context, args []string) error { return f.record("role", args) }
func (f *fakeExec) SetActive(ctx context.Context, args []string, active bool) error {
	return f.record(fmt.Sprintf("active=%t", active), args)
}
func (f *fakeExec) Mine(ctx context.Context) error                  { return f.record("mine", nil) }
func (f *fakeExec) Create(ctx context.Context) error                { return f.record("create", nil) }
func (f *fakeExec) Edit(ctx context.Context, args []string) error   { return f.record("edit", args) }
func (f *fakeExec) Delete(ctx context.Context, args []string) error { return f.record("delete", args) }
func (f *fakeExec) UploadImage(ctx context.Context, args []string) error {
	return f.record("upload-image", args)
}
func (f *fakeExec) UploadZip(ctx context.Context, args []string) error {
	return f.record("upload-zip", args)
}

// capturePrintln replaces printlnFn and returns everything printed.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommandsWithArgs(t *testing.T) {
	capturePrintln(t)

	input := strings.Join([]string{
		"list 2",
		"new",
		"trending 3",
		"search one piece 2",
		"find",
		"show abc",
		"chapters abc 2",
		"read ch1",
		"login",
		"whoami",
		"passwd",
		"users",
		"role 5 admin",
		"activate 5",
		"deactivate 6",
		"mine",
		"create",
		"edit 9",
		"delete 9",
		"upload-image cover.png",
		"upload-zip 9 s3://b/k.zip",
		"logout",
		"exit",
		"register",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(input))

	assert.Equal(t, []string{
		"browse:all 2",
		"browse:new",
		"browse:trending 3",
		"search one piece 2",
		"find",
		"show abc",
		"chapters abc 2",
		"read ch1",
		"login",
		"whoami",
		"passwd",
		"users",
		"role 5 admin",
		"active=true 5",
		"active=false 6",
		"mine",
		"create",
		"edit 9",
		"delete 9",
		"upload-image cover.png",
		"upload-zip 9 s3://b/k.zip",
		"logout",
	}, exec.calls)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("help\nquit\n"))
	assert.Contains(t, *out, helpGuest)

	*out = nil
	exec = &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "(bob user)" }, rdr("help\nquit\n"))
	assert.Contains(t, *out, helpUser)
	assert.Contains(t, *out, "manga (bob user)> ")

	*out = nil
	exec = &fakeExec{loggedIn: true, admin: true}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("help\nquit\n"))
	assert.Contains(t, *out, helpAdmin)
}

func TestRunREPL_UnknownBlankAndEOF(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("\n   \nfoobar\nshow last"))

	require.Equal(t, []string{"show last"}, exec.calls)
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.NotContains(t, *out, "Bye!")
}
