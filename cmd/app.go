// Package cmd implements the CLI application to edit a book of orders.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tally"
	"github.com/etnz/tally/config"
	"github.com/etnz/tally/renderer"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&ordersCmd{}, "views")
	c.Register(&positionsCmd{}, "views")

	c.Register(&addOrderCmd{}, "edits")
	c.Register(&editOrderCmd{}, "edits")
	c.Register(&rmOrderCmd{}, "edits")
	c.Register(&addBuyCmd{}, "edits")
	c.Register(&editBuyCmd{}, "edits")
	c.Register(&rmBuyCmd{}, "edits")

	c.Register(&importCmd{}, "files")
	c.Register(&exportCmd{}, "files")

	c.Register(&pricesCmd{}, "server")
	c.Register(&serveCmd{}, "server")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var bookFile = flag.String("f", "", "Path to the working CSV file (default from the configuration, portfolio.csv)")
var configFile = flag.String("config", "", "Path to the YAML configuration file")

// Config returns the application configuration, with the global flags applied.
func Config() (config.Config, error) {
	c, err := config.Get(*configFile)
	if err != nil {
		return config.Config{}, err
	}
	if *bookFile != "" {
		c.File = *bookFile
	}
	return c, nil
}

// DecodeBook reads the working file. A missing file is an empty book.
func DecodeBook() (*tally.Book, error) {
	c, err := Config()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(c.File)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, %q does not exist, starting from an empty book", c.File)
		return tally.NewBook(c.Currency), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tally.ImportCSV(f, c.Currency)
}

// EncodeBook writes the book into the working file.
func EncodeBook(b *tally.Book) error {
	c, err := Config()
	if err != nil {
		return err
	}
	// write a sibling file then rename it over the working file.
	tmp, err := os.CreateTemp(filepath.Dir(c.File), ".tally-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tally.ExportCSV(tmp, b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.File)
}

// saveBook writes the book and prints the orders as they read back from the
// working file: IDs are allocated on read, the printed ones are those the
// next command will use.
func saveBook(b *tally.Book) subcommands.ExitStatus {
	if err := EncodeBook(b); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing book: %v\n", err)
		return subcommands.ExitFailure
	}
	saved, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading book back: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.OrdersMarkdown(saved))
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when it cannot.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
