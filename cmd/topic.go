package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tally/docs"
	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
)

// topicCmd prints the user guide embedded in the binary.
type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the tly user guide" }
func (*topicCmd) Usage() string {
	return `tly topic [-l] [<topic>...]

  Prints the guide pages of the given topics, '*' prints every page. Without
  a topic it prints the guide's table of contents.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "l", false, "list the topics with their titles")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		page string
		err  error
	)
	switch {
	case c.list:
		page, err = topicsMarkdown()
	case f.NArg() == 0:
		page, err = docs.GetTopic("readme")
	default:
		page, err = docs.GetTopics(f.Args()...)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading the guide: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(page)
	return subcommands.ExitSuccess
}

// topicsMarkdown lists every topic with its title.
func topicsMarkdown() (string, error) {
	topics, err := docs.GetAllTopics()
	if err != nil {
		return "", err
	}
	items := make([]string, 0, len(topics))
	for _, topic := range topics {
		title, err := docs.Title(topic)
		if err != nil {
			return "", err
		}
		items = append(items, md.Bold(topic)+": "+title)
	}
	var buf bytes.Buffer
	return md.NewMarkdown(&buf).H1("Topics").BulletList(items...).String(), nil
}
