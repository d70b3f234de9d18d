package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type getOutput struct {
	Response *opencorp.Response `json:"response" yaml:"response"`
	Body     interface{}        `json:"body"     yaml:"body"`
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get URL_OR_ROUTE",
		Short: "Issue a raw GET request",
		Long: `Issue a GET against a full API URL or a route such as
/v0.4/companies/search?q=acme. The configured token is appended unless the
input already carries api_token. Any status is printed; none is an error.`,
		Example: `  opencorp get /v0.4/jurisdictions
  opencorp get "https://api.opencorporates.com/v0.4/companies/gb/00102498" --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			raw, _ := cmd.Flags().GetBool("raw")

			client, err := CreateClient(nil)
			if err != nil {
				return err
			}

			spec, err := parseTarget(args[0], client.BaseURL())
			if err != nil {
				return err
			}

			resp, err := client.NewRequest(spec).Response(cmd.Context())
			if err != nil {
				return err
			}

			if raw {
				_, err = cmd.OutOrStdout().Write(resp.Body)

				return err
			}

			if format != constants.FormatTable {
				return encode(cmd.OutOrStdout(), format, getOutput{Response: redacted(resp), Body: decodeBody(resp.Body)})
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Property", "Value")
			_ = table.Append("URL", opencorp.RedactURL(resp.URL))
			_ = table.Append("Status", fmt.Sprint(resp.StatusCode))
			_ = table.Append("Request ID", resp.RequestID)
			_ = table.Append("Requested At", resp.RequestedAt.Format(time.RFC3339))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), bodyPreview(resp.Body))

			return err
		},
	}

	cmd.Flags().Bool("raw", false, "print the response body only")

	return cmd
}

// parseTarget accepts a full URL on the API host or a route.
func parseTarget(target, baseURL string) (*opencorp.RequestSpec, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return opencorp.FromURL(target, baseURL)
	}

	return opencorp.FromRoute(target)
}

func redacted(resp *opencorp.Response) *opencorp.Response {
	clone := *resp
	clone.URL = opencorp.RedactURL(resp.URL)

	return &clone
}

// decodeBody returns parsed JSON, or the body as text when it is not JSON.
func decodeBody(body []byte) interface{} {
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}

	return decoded
}

func bodyPreview(body []byte) string {
	var indented bytes.Buffer
	if err := json.Indent(&indented, body, "", strings.Repeat(" ", constants.JSONIndentSize)); err == nil {
		body = indented.Bytes()
	}

	return truncate(string(body), constants.BodyPreviewLength)
}
