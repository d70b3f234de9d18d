package commands

import (
	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/spf13/cobra"
)

// NewMatchCommand creates the match command.
func NewMatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match TYPE TERM...",
		Short: "Match a term to records",
		Long:  "Resolve free text to records of a matchable type, for example a place name to jurisdictions",
		Example: `  opencorp match jurisdictions delaware us
  opencorp match jurisdictions "united kingdom" --output json`,
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

			result, err := client.Match(cmd.Context(), args[0], joinTerm(args[1:]), params)
			if err != nil {
				return err
			}

			if !result.Found {
				return notFound(result.URL, result.Response)
			}

			if format != constants.FormatTable {
				return encode(cmd.OutOrStdout(), format, result.Records)
			}

			return renderRecords(cmd.OutOrStdout(), result.Records)
		},
	}

	cmd.Flags().StringArrayP("param", "p", nil, "extra query parameter as key=value (repeatable)")

	return cmd
}
