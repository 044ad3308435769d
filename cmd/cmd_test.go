package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/tally/date"
	"github.com/google/subcommands"
)

// setup points the global flags to a fresh working file and fixes today.
func setup(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "portfolio.csv")

	oldFile, oldConfig, oldToday := *bookFile, *configFile, today
	*bookFile = file
	*configFile = ""
	today = func() date.Date { return date.New(2025, time.July, 10) }
	t.Cleanup(func() {
		*bookFile, *configFile, today = oldFile, oldConfig, oldToday
	})
	return file
}

// run executes a command with its arguments.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", cmd.Name(), args, err)
	}
	return cmd.Execute(context.Background(), f)
}

// content returns the working file without its header.
func content(t *testing.T, file string) string {
	t.Helper()
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	const header = "Date,Quantity,Symbol,Price,Currency\n"
	got := string(data)
	if len(got) < len(header) || got[:len(header)] != header {
		t.Fatalf("working file has no header:\n%s", got)
	}
	return got[len(header):]
}

func TestEditSession(t *testing.T) {
	file := setup(t)

	steps := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want string
	}{
		{
			name: "add first order",
			cmd:  &addOrderCmd{},
			args: []string{"-d", "2024-01-02", "-t", "MSFT", "-q", "10", "-p", "100"},
			want: "1/2/2024,10,MSFT,100.00,USD\n",
		},
		{
			name: "add a buy",
			cmd:  &addBuyCmd{},
			args: []string{"-o", "0", "-t", "AAPL", "-q", "5", "-p", "20"},
			want: "1/2/2024,10,MSFT,100.00,USD\n1/2/2024,5,AAPL,20.00,USD\n",
		},
		{
			name: "add an empty order on top",
			cmd:  &addOrderCmd{},
			args: []string{"-d", "3/4/2024"},
			want: "3/4/2024,0,,0.00,USD\n1/2/2024,10,MSFT,100.00,USD\n1/2/2024,5,AAPL,20.00,USD\n",
		},
		{
			name: "fill the empty buy",
			cmd:  &editBuyCmd{},
			args: []string{"-o", "0", "-b", "0", "-t", "MSFT", "-q", "2", "-p", "110"},
			want: "3/4/2024,2,MSFT,110.00,USD\n1/2/2024,10,MSFT,100.00,USD\n1/2/2024,5,AAPL,20.00,USD\n",
		},
		{
			name: "change only the price",
			cmd:  &editBuyCmd{},
			args: []string{"-o", "0", "-b", "0", "-p", "1,105.5"},
			want: "3/4/2024,2,MSFT,1105.50,USD\n1/2/2024,10,MSFT,100.00,USD\n1/2/2024,5,AAPL,20.00,USD\n",
		},
		{
			name: "move the order",
			cmd:  &editOrderCmd{},
			args: []string{"-o", "0", "-d", "May 6, 2024"},
			want: "5/6/2024,2,MSFT,1105.50,USD\n1/2/2024,10,MSFT,100.00,USD\n1/2/2024,5,AAPL,20.00,USD\n",
		},
		{
			name: "remove a buy",
			cmd:  &rmBuyCmd{},
			args: []string{"-o", "1", "-b", "0"},
			want: "5/6/2024,2,MSFT,1105.50,USD\n1/2/2024,5,AAPL,20.00,USD\n",
		},
		{
			name: "remove an order",
			cmd:  &rmOrderCmd{},
			args: []string{"-o", "0"},
			want: "1/2/2024,5,AAPL,20.00,USD\n",
		},
	}
	for _, step := range steps {
		if got := run(t, step.cmd, step.args...); got != subcommands.ExitSuccess {
			t.Fatalf("%s: %s %v = %v, want success", step.name, step.cmd.Name(), step.args, got)
		}
		if got := content(t, file); got != step.want {
			t.Errorf("%s: working file =\n%s\nwant\n%s", step.name, got, step.want)
		}
	}
}

func TestAddOrderDefaultsToToday(t *testing.T) {
	file := setup(t)
	if got := run(t, &addOrderCmd{}); got != subcommands.ExitSuccess {
		t.Fatalf("add-order = %v, want success", got)
	}
	if got, want := content(t, file), "7/10/2025,0,,0.00,USD\n"; got != want {
		t.Errorf("working file = %q, want %q", got, want)
	}
}

func TestEditErrors(t *testing.T) {
	setup(t)
	if got := run(t, &addOrderCmd{}, "-d", "2024-01-02"); got != subcommands.ExitSuccess {
		t.Fatalf("add-order = %v, want success", got)
	}

	tests := []struct {
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{&addOrderCmd{}, []string{"-d", "someday"}, subcommands.ExitUsageError},
		{&editOrderCmd{}, []string{"-o", "0"}, subcommands.ExitUsageError},
		{&editOrderCmd{}, []string{"-o", "9", "-d", "2024-01-02"}, subcommands.ExitFailure},
		{&rmOrderCmd{}, []string{}, subcommands.ExitUsageError},
		{&rmOrderCmd{}, []string{"-o", "9"}, subcommands.ExitFailure},
		{&addBuyCmd{}, []string{"-o", "9"}, subcommands.ExitFailure},
		{&editBuyCmd{}, []string{"-o", "0"}, subcommands.ExitUsageError},
		{&editBuyCmd{}, []string{"-o", "0", "-b", "9", "-t", "X"}, subcommands.ExitFailure},
		{&rmBuyCmd{}, []string{"-o", "0", "-b", "9"}, subcommands.ExitFailure},
	}
	for _, tt := range tests {
		if got := run(t, tt.cmd, tt.args...); got != tt.want {
			t.Errorf("%s %v = %v, want %v", tt.cmd.Name(), tt.args, got, tt.want)
		}
	}
}

func TestImportExport(t *testing.T) {
	file := setup(t)
	dir := filepath.Dir(file)

	in := filepath.Join(dir, "broker.csv")
	broker := "Date,Quantity,Symbol,Price,Currency\n" +
		"1/2/2024,\"1,000\",MSFT,\"1,234.5\",EUR\n" +
		"\n" +
		"3/4/2024,2,AAPL,20,EUR\n"
	if err := os.WriteFile(in, []byte(broker), 0644); err != nil {
		t.Fatal(err)
	}

	if got := run(t, &importCmd{}, in); got != subcommands.ExitSuccess {
		t.Fatalf("import = %v, want success", got)
	}
	want := "3/4/2024,2,AAPL,20.00,USD\n1/2/2024,1000,MSFT,1234.50,USD\n"
	if got := content(t, file); got != want {
		t.Errorf("working file after import =\n%s\nwant\n%s", got, want)
	}

	out := filepath.Join(dir, "out.csv")
	if got := run(t, &exportCmd{}, "-o", out); got != subcommands.ExitSuccess {
		t.Fatalf("export = %v, want success", got)
	}
	if got := content(t, out); got != want {
		t.Errorf("export =\n%s\nwant\n%s", got, want)
	}

	if got := run(t, &importCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("import without file = %v, want usage error", got)
	}
	if got := run(t, &importCmd{}, filepath.Join(dir, "missing.csv")); got != subcommands.ExitFailure {
		t.Errorf("import of a missing file = %v, want failure", got)
	}

	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("Date,Quantity\nnever,1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := run(t, &importCmd{}, bad); got != subcommands.ExitFailure {
		t.Errorf("import of an invalid date = %v, want failure", got)
	}
	if got := content(t, file); got != want {
		t.Errorf("a failed import changed the working file:\n%s", got)
	}
}

func TestConfigFile(t *testing.T) {
	file := setup(t)
	dir := filepath.Dir(file)

	other := filepath.Join(dir, "euro.csv")
	cfg := filepath.Join(dir, "tally.yaml")
	if err := os.WriteFile(cfg, []byte("file: "+other+"\ncurrency: eur\n"), 0644); err != nil {
		t.Fatal(err)
	}
	*configFile = cfg
	*bookFile = ""

	if got := run(t, &addOrderCmd{}, "-d", "2024-01-02", "-t", "AIR", "-q", "3", "-p", "150"); got != subcommands.ExitSuccess {
		t.Fatalf("add-order = %v, want success", got)
	}
	if got, want := content(t, other), "1/2/2024,3,AIR,150.00,EUR\n"; got != want {
		t.Errorf("configured file = %q, want %q", got, want)
	}
	if _, err := os.Stat(file); err == nil {
		t.Errorf("the default working file should not be written")
	}
}

func TestViews(t *testing.T) {
	setup(t)
	if got := run(t, &addOrderCmd{}, "-d", "2024-01-02", "-t", "MSFT", "-q", "10", "-p", "100"); got != subcommands.ExitSuccess {
		t.Fatalf("add-order = %v, want success", got)
	}

	tests := []struct {
		cmd  subcommands.Command
		args []string
	}{
		{&ordersCmd{}, nil},
		{&positionsCmd{}, nil},
		{&positionsCmd{}, []string{"-prices", ":memory:", "-seed"}},
		{&pricesCmd{}, []string{"-seed"}},
		{&pricesCmd{}, []string{"-db", ":memory:", "-seed", "-t", "MSFT"}},
		{&pricesCmd{}, []string{"-t", "NONE"}},
		{&topicCmd{}, []string{"csv"}},
		{&topicCmd{}, []string{"-l"}},
		{&topicCmd{}, nil},
	}
	for _, tt := range tests {
		if got := run(t, tt.cmd, tt.args...); got != subcommands.ExitSuccess {
			t.Errorf("%s %v = %v, want success", tt.cmd.Name(), tt.args, got)
		}
	}

	if got := run(t, &topicCmd{}, "nope"); got != subcommands.ExitFailure {
		t.Errorf("topic nope = %v, want failure", got)
	}
}

func TestTopicsMarkdown(t *testing.T) {
	got, err := topicsMarkdown()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Topics", "**csv**: CSV format", "**serve**: Web server"} {
		if !strings.Contains(got, want) {
			t.Errorf("topicsMarkdown() has no %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "readme") {
		t.Errorf("topicsMarkdown() lists the readme:\n%s", got)
	}
}

func TestBuyFlags(t *testing.T) {
	var b buyFlags
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	b.SetFlags(f)
	if err := f.Parse([]string{"-t", "", "-p", "3"}); err != nil {
		t.Fatal(err)
	}
	u := b.update(f)
	if u.Ticker == nil || *u.Ticker != "" {
		t.Errorf("update().Ticker = %v, want explicit empty ticker", u.Ticker)
	}
	if u.Quantity != nil {
		t.Errorf("update().Quantity = %v, want nil", *u.Quantity)
	}
	if u.Price == nil || *u.Price != "3" {
		t.Errorf("update().Price = %v, want 3", u.Price)
	}
}
