package cmd

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/index"
	"github.com/lexidx/lexidx/internal/output"
	"github.com/lexidx/lexidx/internal/store"
)

type searchOptions struct {
	format      string // "text", "json"
	top         int
	indexFormat string
}

// searchResult is the --format json document.
type searchResult struct {
	Path      string            `json:"path"`
	Documents int               `json:"documents"`
	Terms     int               `json:"terms"`
	Top       []index.TermCount `json:"top,omitempty"`
}

func newSearchCmd(a *app) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <index-file>",
		Short: "Load an index file and summarize it",
		Long: `Load an index file and report how many documents it contains.

With --top N, also list the N terms with the highest total count across
all documents.`,
		Example: `  lexidx search index.json
  lexidx search index.json --top 10
  lexidx search docs.db --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, a, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 0, "Also print the N most frequent terms")
	cmd.Flags().StringVar(&opts.indexFormat, "index-format", "", "Store format of the index file: json or sqlite (default: by extension)")

	return cmd
}

func runSearch(cmd *cobra.Command, a *app, path string, opts searchOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return errors.ConfigError("unknown output format: "+opts.format, nil).
			WithSuggestion("Use --format text or --format json")
	}
	if opts.top < 0 {
		return errors.ConfigError("--top must not be negative", nil)
	}

	st, err := store.ForPath(path, opts.indexFormat)
	if err != nil {
		return err
	}

	a.logger.Debug("index_loading", slog.String("path", path))
	idx, err := st.Load(path)
	if err != nil {
		a.logger.Error("index_load_failed", errors.FormatForLog(err)...)
		return err
	}

	result := searchResult{
		Path:      path,
		Documents: idx.Len(),
		Terms:     idx.Terms(),
	}
	if opts.top > 0 {
		result.Top = idx.TopTerms(opts.top)
	}
	a.logger.Info("index_loaded",
		slog.String("path", path),
		slog.Int("documents", result.Documents),
		slog.Int("terms", result.Terms))

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out := output.New(cmd.OutOrStdout())
	out.Printf("%s contains %d documents", path, result.Documents)
	if len(result.Top) > 0 {
		rows := [][]string{{"TERM", "COUNT"}}
		for _, tc := range result.Top {
			rows = append(rows, []string{tc.Term, strconv.Itoa(tc.Count)})
		}
		out.Newline()
		out.Table(rows)
	}
	return nil
}
