package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
	logpkg "github.com/kailas-cloud/bizsearch/internal/logger"
	indexuc "github.com/kailas-cloud/bizsearch/internal/usecase/index"
)

// queryOptions holds CLI flags for query.
type queryOptions struct {
	owner   string
	idsOnly bool
}

func newQueryCmd(root *rootOptions) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <family> [query-json|-]",
		Short: "Search an index table",
		Long: `Search one index table and print the matching documents.

The query is a JSON query document, read from stdin when given as "-".
Without a query every document of the table matches.

With the bleve driver the tables are locked by a running server;
run this against a stopped server or a copy of its data directory.

Examples:
  bizsearch query catalogs
  bizsearch query orders '{"query":[{"AND":{"status":["acknowledged"]}}]}'
  bizsearch query offerings --owner rock-8 --ids`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := domain.ParseFamily(args[0])
			if err != nil {
				return err
			}
			raw := ""
			if len(args) == 2 {
				raw = args[1]
			}
			if raw == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read query: %w", err)
				}
				raw = string(b)
			}
			return runQuery(cmd.Context(), cmd.OutOrStdout(), root, f, raw, opts)
		},
	}

	cmd.Flags().StringVar(&opts.owner, "owner", "", "Match documents owned by this party id instead of a query")
	cmd.Flags().BoolVar(&opts.idsOnly, "ids", false, "Print only the original ids, comma separated")

	return cmd
}

func runQuery(ctx context.Context, out io.Writer, root *rootOptions, f domain.Family, raw string, opts queryOptions) error {
	logger, err := logpkg.NewCLILogger(root.logLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := buildApp(ctx, root.cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.Background()) }()

	hits, err := search(ctx, a.index, f, raw, opts.owner)
	if err != nil {
		return err
	}
	return printHits(out, hits, opts.idsOnly)
}

func search(ctx context.Context, svc *indexuc.Service, f domain.Family, raw, owner string) ([]document.Hit, error) {
	if owner != "" {
		return svc.SearchOwned(ctx, f, owner)
	}
	q := &query.Query{}
	if strings.TrimSpace(raw) != "" {
		var err error
		if q, err = query.Parse([]byte(raw)); err != nil {
			return nil, err
		}
	}
	if q.IsEmpty() {
		q = q.WithMatchAll()
	}
	return svc.Search(ctx, f, q)
}

func printHits(out io.Writer, hits []document.Hit, idsOnly bool) error {
	if idsOnly {
		ids := make([]string, 0, len(hits))
		for _, h := range hits {
			id, err := h.OriginalID()
			if err != nil {
				return err
			}
			ids = append(ids, id.String())
		}
		_, err := fmt.Fprintln(out, strings.Join(ids, ","))
		return err
	}

	enc := json.NewEncoder(out)
	for _, h := range hits {
		if err := enc.Encode(h); err != nil {
			return fmt.Errorf("write hit: %w", err)
		}
	}
	return nil
}
