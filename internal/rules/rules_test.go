package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPath(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	assert.True(t, r.Empty())
	assert.Equal(t, "None", r.PromptText())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
column_mappings:
  region: A3
keyword_mapping_rules:
  - if_user_mentions: ["loans", "lending"]
    join: financial.loan
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.False(t, r.Empty())
	assert.Equal(t, "A3", r.ColumnMappings["region"])
	require.Len(t, r.KeywordRules, 1)
	assert.Equal(t, "financial.loan", r.KeywordRules[0].Join)

	text := r.PromptText()
	assert.Contains(t, text, "column_mappings")
	assert.Contains(t, text, "financial.loan")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("column_mappings: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
