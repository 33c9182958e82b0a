package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/moinit/internal/cmd/table"
	"github.com/agentstation/moinit/pkg/errors"
)

type row struct {
	UserKey string `json:"user_key"`
	Scope   string `json:"scope,omitempty"`
	Count   int
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	assert.Equal(t, FormatJSON, detectFormat("", f))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, row{UserKey: "Ansat", Scope: "TEXT"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Ansat", got["user_key"])
	assert.Contains(t, buf.String(), "\n  ")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"facets": []string{"engagement_type", "visibility"}}
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, data))
	assert.Equal(t, "facets:\n- engagement_type\n- visibility\n", buf.String())
}

func TestTableFormatter(t *testing.T) {
	t.Run("table data", func(t *testing.T) {
		var buf bytes.Buffer
		data := table.Data{
			Headers:         []string{"Facet", "Classes"},
			Rows:            [][]string{{"engagement_type", "1"}, {"visibility", "2"}},
			ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
		}
		require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
		assert.Contains(t, buf.String(), "engagement_type")
		assert.Contains(t, buf.String(), "visibility")
	})

	t.Run("struct slice via reflection", func(t *testing.T) {
		data := (&TableFormatter{}).convertToTableData([]row{{UserKey: "Ansat", Scope: "TEXT", Count: 2}})
		require.NotNil(t, data)
		assert.Equal(t, []string{"User Key", "Scope", "Count"}, data.Headers)
		assert.Equal(t, [][]string{{"Ansat", "TEXT", "2"}}, data.Rows)
	})

	t.Run("single struct via reflection", func(t *testing.T) {
		data := (&TableFormatter{}).convertToTableData(&row{UserKey: "Ansat"})
		require.NotNil(t, data)
		assert.Equal(t, []string{"Property", "Value"}, data.Headers)
		assert.Equal(t, []string{"User Key", "Ansat"}, data.Rows[0])
	})

	t.Run("non-table data falls back to json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"facets": 2}))
		assert.JSONEq(t, `{"facets": 2}`, buf.String())
	})
}

func TestWrite(t *testing.T) {
	rows := table.Data{Headers: []string{"Facet"}, Rows: [][]string{{"visibility"}}}
	value := []string{"visibility"}

	var tableOut bytes.Buffer
	require.NoError(t, Write(&tableOut, FormatTable, rows, value))
	assert.Contains(t, tableOut.String(), "visibility")
	assert.NotContains(t, tableOut.String(), `"visibility"`)

	var jsonOut bytes.Buffer
	require.NoError(t, Write(&jsonOut, FormatJSON, rows, value))
	assert.JSONEq(t, `["visibility"]`, jsonOut.String())
}
