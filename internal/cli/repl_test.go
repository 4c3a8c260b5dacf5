package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.record("register", nil)
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login", nil)
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout", nil)
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error { f.record("whoami", nil); return nil }
func (f *fakeExec) Variants(ctx context.Context) error {
	f.record("variants", nil)
	return nil
}
func (f *fakeExec) Scores(ctx context.Context) error { f.record("scores", nil); return nil }
func (f *fakeExec) Upload(ctx context.Context, args []string) error {
	f.record("upload", args)
	return nil
}
func (f *fakeExec) Store(ctx context.Context, args []string) error {
	f.record("store", args)
	return nil
}
func (f *fakeExec) Chat(ctx context.Context) error { f.record("chat", nil); return nil }
func (f *fakeExec) MRI(ctx context.Context, args []string) error {
	f.record("mri", args)
	return nil
}
func (f *fakeExec) Watch(ctx context.Context, args []string) error {
	f.record("watch", args)
	return nil
}
func (f *fakeExec) Ping(ctx context.Context) error { f.record("ping", nil); return nil }

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"variants",
		"scores",
		"upload sample.vcf",
		"watch an-42",
		"mri list",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "variants", "scores", "upload", "watch", "mri"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_ArgsArePassedThrough(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("upload data/sample.vcf.gz\nmri analyze scan.png tumor\nexit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 2 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	if got := exec.args[0]; len(got) != 1 || got[0] != "data/sample.vcf.gz" {
		t.Fatalf("upload args: %v", got)
	}
	if got := exec.args[1]; len(got) != 3 || got[0] != "analyze" || got[2] != "tumor" {
		t.Fatalf("mri args: %v", got)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("upload\nwatch\nmri\nstore\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
