package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tether/internal/changes"
	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/document"
)

var matchCmd = &cobra.Command{
	Use:   "match <document.yaml> <path>...",
	Short: "Print the field and change each path resolves to",
	Long: `Resolve paths against a document's form rows and changes the same way the
connector does, without starting the terminal ui.`,
	Example: `  tether match doc.yaml title
  tether match doc.yaml 'items[_key=="b"].name' author.email`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}
		entries := documentEntries(doc)
		for _, raw := range args[1:] {
			res, err := matchPath(entries, raw)
			if err != nil {
				return err
			}
			printMatch(cmd.OutOrStdout(), res)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

type matchResult struct {
	Path   docpath.Path
	Field  string
	Change string
}

// documentEntries builds the entries the form and changes panel would
// register for doc, in the order they would register them.
func documentEntries(doc *document.Document) []changes.Entry {
	var entries []changes.Entry
	for _, r := range doc.Rows() {
		entries = append(entries, changes.Entry{
			ID:    changes.FieldID(r.Path),
			Value: changes.TrackedChange{Path: r.Path, IsChanged: r.Changed},
		})
	}
	for _, c := range doc.Changes() {
		entries = append(entries, changes.Entry{
			ID:    changes.ChangeID(c.Path),
			Value: changes.TrackedChange{Path: c.Path, IsChanged: true},
		})
	}
	return entries
}

func matchPath(entries []changes.Entry, raw string) (matchResult, error) {
	p, err := docpath.Parse(raw)
	if err != nil {
		return matchResult{}, fmt.Errorf("parsing path %q: %w", raw, err)
	}
	res := matchResult{Path: p}
	if e, ok := changes.FindMostSpecificTarget(changes.FieldKind, changes.FieldID(p), entries); ok {
		res.Field = e.ID
	}
	if e, ok := changes.FindMostSpecificTarget(changes.ChangeKind, changes.ChangeID(p), entries); ok {
		res.Change = e.ID
	}
	return res, nil
}

func printMatch(w io.Writer, r matchResult) {
	orNone := func(s string) string {
		if s == "" {
			return "(none)"
		}
		return s
	}
	_, _ = fmt.Fprintf(w, "%s\n  field:  %s\n  change: %s\n", r.Path, orNone(r.Field), orNone(r.Change))
}
