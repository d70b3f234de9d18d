package commands

import (
	"fmt"

	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/spf13/cobra"
)

// NewFetchCommand creates the fetch command.
func NewFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch TYPE ID...",
		Short: "Fetch a single record",
		Long: `Fetch one record by its identifiers. Companies take a jurisdiction code
and a company number; officers take an officer ID.`,
		Example: `  opencorp fetch companies gb 00102498
  opencorp fetch officers 123456 --output yaml`,
		Args: cobra.MinimumNArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			pairs, _ := cmd.Flags().GetStringArray("param")

			params, err := parseParams(pairs)
			if err != nil {
				return err
			}

			client, err := CreateClient(nil)
			if err != nil {
				return err
			}

			result, err := client.FetchWithParams(cmd.Context(), args[0], args[1:], params)
			if err != nil {
				return err
			}

			if !result.Found {
				return notFound(result.URL, result.Response)
			}

			if format != constants.FormatTable {
				return encode(cmd.OutOrStdout(), format, result.Record)
			}

			return renderRecord(cmd.OutOrStdout(), result.Record)
		},
	}

	cmd.Flags().StringArrayP("param", "p", nil, "extra query parameter as key=value (repeatable)")

	return cmd
}

func notFound(url string, resp *opencorp.Response) error {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	return fmt.Errorf("%w: %s returned status %d", constants.ErrNotFound, opencorp.RedactURL(url), status)
}
