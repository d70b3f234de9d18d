package commands

import (
	"fmt"

	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type searchOutput struct {
	ObjectType string              `json:"object_type" yaml:"object_type"`
	Term       string              `json:"term"        yaml:"term"`
	URL        string              `json:"url"         yaml:"url"`
	Pagination opencorp.Pagination `json:"pagination"  yaml:"pagination"`
	// Page is zero when every page was fetched.
	Page    int               `json:"page,omitempty" yaml:"page,omitempty"`
	Records []opencorp.Record `json:"records"        yaml:"records"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search TYPE TERM...",
		Short: "Search for records by term",
		Long: `Search an object type (companies, officers, ...) for a term.

Shows the first page by default. Use --page to pick a page or --all to fetch
every page with bounded concurrency.`,
		Example: `  opencorp search companies bank of england
  opencorp search companies acme --param jurisdiction_code=gb --all
  opencorp search officers "john smith" --page 2 --output json`,
		Args: cobra.MinimumNArgs(2), //nolint:mnd
		RunE: runSearch,
	}

	cmd.Flags().StringArrayP("param", "p", nil, "extra query parameter as key=value (repeatable)")
	cmd.Flags().Int("page", 0, "page number to show")
	cmd.Flags().Bool("all", false, "fetch every page")
	cmd.Flags().Int("concurrency", constants.DefaultConcurrencyLimit, "parallel page requests with --all")
	cmd.Flags().String("cache", "", "page cache: memory, nats or none (default from config)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	pairs, _ := cmd.Flags().GetStringArray("param")
	page, _ := cmd.Flags().GetInt("page")
	all, _ := cmd.Flags().GetBool("all")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	cacheKind, _ := cmd.Flags().GetString("cache")

	if page != 0 && all {
		return constants.ErrPageAndAllExclusive
	}

	if concurrency < 1 || concurrency > constants.MaxConcurrencyLimit {
		return fmt.Errorf("%w: got %d", constants.ErrInvalidConcurrency, concurrency)
	}

	params, err := parseParams(pairs)
	if err != nil {
		return err
	}

	if cacheKind == "" {
		cacheKind = viper.GetString(KeyCache)
	}

	cache, err := newCache(cacheKind)
	if err != nil {
		return err
	}
	defer closeCache(cache)

	client, err := CreateClient(cache)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	objectType, term := args[0], joinTerm(args[1:])

	results, err := client.Search(ctx, objectType, term, params)
	if err != nil {
		return err
	}

	output := searchOutput{
		ObjectType: results.ObjectType(),
		Term:       results.Term(),
		URL:        opencorp.RedactURL(results.URL()),
		Pagination: results.Pagination(),
	}

	switch {
	case all:
		pages, err := results.FetchPages(ctx, concurrency)
		if err != nil {
			return err
		}

		for _, items := range pages {
			output.Records = append(output.Records, items...)
		}
	case output.Pagination.TotalPages > 0:
		output.Page = max(page, 1)

		output.Records, err = results.Page(ctx, output.Page)
		if err != nil {
			return err
		}
	}

	if format != constants.FormatTable {
		return encode(cmd.OutOrStdout(), format, output)
	}

	summary := fmt.Sprintf("Found %d %s matching %q", output.Pagination.TotalCount, output.ObjectType, term)
	if output.Page > 0 {
		summary += fmt.Sprintf(" (page %d of %d)", output.Page, output.Pagination.TotalPages)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary)

	if len(output.Records) == 0 {
		return nil
	}

	return renderRecords(cmd.OutOrStdout(), output.Records)
}
