package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLCommandText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSQLCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/orders.json", "--field", "10=total", "--field", "11=status"})

	err := cmd.Execute()
	require.NoError(t, err)

	// The filter is simplified before compilation, so the duplicate and the
	// double negation from the fixture never reach the SQL.
	assert.Equal(t, "\"total\" = ? AND \"status\" = ?\nparams: [20 open]\n", buf.String())
}

func TestSQLCommandJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewSQLCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/orders.json", "--field", "10=total", "--field", "11=status"})

	err := cmd.Execute()
	require.NoError(t, err)

	var response struct {
		Status string `json:"status"`
		Data   struct {
			SQL    string `json:"sql"`
			Params []any  `json:"params"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, `"total" = ? AND "status" = ?`, response.Data.SQL)
	assert.Equal(t, []any{float64(20), "open"}, response.Data.Params)
}

func TestSQLCommandNullFilter(t *testing.T) {
	// A document with an explicit null filter compiles to the always-true
	// identity, like a document with no filter value at all.
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSQLCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader(`{"query": {"filter": null}}`))
	cmd.SetArgs([]string{"-"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "1 = 1\nparams: []\n", buf.String())
}

func TestSQLCommandUnknownFieldID(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSQLCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/orders.json"}) // no --field mappings

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E003]")
	assert.Contains(t, buf.String(), "unknown field id")
}

func TestSQLCommandUnresolvableKeypath(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSQLCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/orders.json", "--at", "native.filter"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E002]")
}

func TestSQLCommandBadFieldMapping(t *testing.T) {
	tests := []struct {
		name    string
		mapping string
	}{
		{"no separator", "10total"},
		{"empty column", "10="},
		{"non-numeric id", "total=10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			rootOpts := &RootOptions{Format: "text"}
			cmd := NewSQLCommand(rootOpts)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{"testdata/orders.json", "--field", tt.mapping})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, buf.String(), "Error [E001]")
		})
	}
}
