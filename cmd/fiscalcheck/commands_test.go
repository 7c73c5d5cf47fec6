package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	good := writeFile(t, "good.json", `{
		"document": {
			"type": "invoice",
			"invoice": {"taxableAmount": "1000", "vatRate": "22", "vatAmount": "220", "totalAmount": "1220"}
		},
		"options": {"taxRegime": "ordinary"}
	}`)
	bare := writeFile(t, "bare.json", `{
		"type": "invoice",
		"invoice": {"taxableAmount": "1000", "vatRate": "22", "vatAmount": "220"}
	}`)

	t.Run("consistent document exits cleanly", func(t *testing.T) {
		out, err := execute(t, "validate", good)
		require.NoError(t, err)

		var fr struct {
			File   string         `json:"file"`
			Report map[string]any `json:"report"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &fr))
		assert.Equal(t, good, fr.File)
		assert.Equal(t, "ok", fr.Report["status"])
	})

	t.Run("bare document with errors fails", func(t *testing.T) {
		out, err := execute(t, "validate", good, bare)
		var failed *failedDocumentsError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, 1, failed.count)
		assert.Contains(t, out, `"invalid_document"`)
	})

	t.Run("year flag pins the tables", func(t *testing.T) {
		out, err := execute(t, "validate", "--year", "2023", good)
		require.NoError(t, err)
		assert.Contains(t, out, `"regulatoryYear": 2023`)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
	})
}

func TestTablesCommand(t *testing.T) {
	out, err := execute(t, "tables", "--year", "2024")
	require.NoError(t, err)

	var doc struct {
		Years []struct {
			Year int `yaml:"year"`
		} `yaml:"years"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Years, 1)
	assert.Equal(t, 2024, doc.Years[0].Year)
}
