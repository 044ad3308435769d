package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/tally"
	"github.com/etnz/tally/xlsimport"
	"github.com/google/subcommands"
)

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the working file with a CSV file" }
func (*importCmd) Usage() string {
	return `tly import <file>

  Reads a CSV file with the columns Date, Quantity, Symbol, Price and Currency
  and replaces the working file with it. Consecutive rows with the same date
  form one order. Use '-' to read from the standard input.

  Files ending in .xls are read as Excel workbooks: the first sheet has the
  same columns as the CSV file.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import takes exactly one file")
		return subcommands.ExitUsageError
	}
	cfg, err := Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	if strings.EqualFold(filepath.Ext(f.Arg(0)), ".xls") {
		book, err := xlsimport.Import(f.Arg(0), cfg.Currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", f.Arg(0), err)
			return subcommands.ExitFailure
		}
		return saveBook(book)
	}

	var r io.Reader = os.Stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	}

	book, err := tally.ImportCSV(r, cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	return saveBook(book)
}

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the book as a CSV file" }
func (*exportCmd) Usage() string {
	return `tly export [-o <file>]

  Writes the book in the import/export CSV format, to the standard output or
  to a file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file (default standard output)")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}

	if err := tally.ExportCSV(w, book); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting book: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
