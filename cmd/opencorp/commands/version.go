package commands

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the opencorp CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}

			versionInfo := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			if format != constants.FormatTable {
				return encode(cmd.OutOrStdout(), format, versionInfo)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Property", "Value")
			_ = table.Append("Version", version)
			_ = table.Append("Commit", commit)
			_ = table.Append("Built", date)

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

// NewVersionsCommand lists the API versions the client knows and the object
// types each accepts.
func NewVersionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List supported API versions",
		Long:  "List the API versions known to the client and the object types each supports for search, fetch and match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			registry := opencorp.NewVersionRegistry()

			var versions []*opencorp.Version

			for _, id := range registry.IDs() {
				version, err := registry.Lookup(id)
				if err != nil {
					return err
				}

				versions = append(versions, version)
			}

			if format != constants.FormatTable {
				return encode(cmd.OutOrStdout(), format, versions)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Version", "Operation", "Object Types")

			for _, version := range versions {
				_ = table.Append(version.ID, opencorp.OperationSearch, strings.Join(version.SearchTypes, ", "))
				_ = table.Append(version.ID, opencorp.OperationFetch, strings.Join(version.FetchTypes, ", "))
				_ = table.Append(version.ID, opencorp.OperationMatch, strings.Join(version.MatchTypes, ", "))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}
