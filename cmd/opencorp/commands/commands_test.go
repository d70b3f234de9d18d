package commands

import (
	"testing"

	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCommandStructure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cmd   func() *cobra.Command
		use   string
		flags []string
	}{
		{"search", NewSearchCommand, "search TYPE TERM...", []string{"param", "page", "all", "concurrency", "cache"}},
		{"fetch", NewFetchCommand, "fetch TYPE ID...", []string{"param"}},
		{"match", NewMatchCommand, "match TYPE TERM...", []string{"param"}},
		{"get", NewGetCommand, "get URL_OR_ROUTE", []string{"raw"}},
		{"versions", NewVersionsCommand, "versions", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := tt.cmd()
			assert.Equal(t, tt.use, cmd.Use)
			assert.NotEmpty(t, cmd.Short)
			assert.NotEmpty(t, cmd.Long)
			assert.NotNil(t, cmd.RunE)
			assert.NotNil(t, cmd.Args)
			assert.Equal(t, tt.name, cmd.Name())

			for _, flagName := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flagName), "Flag %s should exist", flagName)
			}
		})
	}
}

func TestNewConfigCommand(t *testing.T) {
	t.Parallel()

	cmd := NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)

	var commandNames []string
	for _, subcmd := range cmd.Commands() {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.ElementsMatch(t, []string{"show", "set", "unset", "set-token"}, commandNames)
}

func TestParseParams(t *testing.T) {
	t.Parallel()

	params, err := parseParams([]string{"jurisdiction_code=gb", "order=score", "empty=", "jurisdiction_code=us_de"})
	assert.NoError(t, err)
	assert.Equal(t, "jurisdiction_code=us_de&order=score&empty=", params.Encode())

	params, err = parseParams(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, params.Len())

	for _, bad := range []string{"novalue", "=x"} {
		_, err := parseParams([]string{bad})
		assert.Error(t, err, bad)
		assert.Contains(t, err.Error(), "invalid --param")
	}
}

func TestCell(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NotAvailable, cell(nil))
	assert.Equal(t, "BP P.L.C.", cell("BP P.L.C."))
	assert.Equal(t, "102498", cell(float64(102498)))
	assert.Equal(t, "true", cell(true))
	assert.Equal(t, `{"code":"gb"}`, cell(map[string]interface{}{"code": "gb"}))

	long := cell("abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz")
	assert.Len(t, []rune(long), 48)
	assert.True(t, len(long) > 3 && long[len(long)-3:] == "...")
}

func TestRecordColumns(t *testing.T) {
	t.Parallel()

	columns := recordColumns([]opencorp.Record{
		{"company_number": "1", "name": "A", "extra": "x"},
		{"name": "B", "jurisdiction_code": "gb"},
	})
	assert.Equal(t, []string{"name", "company_number", "jurisdiction_code"}, columns)

	columns = recordColumns([]opencorp.Record{
		{"title": "Notice", "id": float64(7), "parent": map[string]interface{}{}},
	})
	assert.Equal(t, []string{"id", "title"}, columns)

	assert.Empty(t, recordColumns(nil))
}
