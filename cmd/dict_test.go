package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ids-analytics/pubstats/internal/dataset"
)

func TestLoadDictionary_Default(t *testing.T) {
	dict, err := loadDictionary("")
	require.NoError(t, err)
	require.NotEmpty(t, dict.Fields)

	_, ok := dict.Describe(dataset.ColPubsPerCapita)
	assert.True(t, ok)
}

func TestLoadDictionary_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.yaml")
	yaml := "fields:\n  - column: num_pubs\n    description: Count of pubs\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	dict, err := loadDictionary(path)
	require.NoError(t, err)
	require.Len(t, dict.Fields, 1)

	doc, ok := dict.Describe(dataset.ColNumPubs)
	require.True(t, ok)
	assert.Equal(t, "Count of pubs", doc.Description)
}
