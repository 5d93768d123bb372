package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_TitleSubstring(t *testing.T) {
	catalog := NewCatalog()

	results := catalog.Search("batman")
	require.Len(t, results, 1)
	assert.Equal(t, "The Batman", results[0].Title)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	catalog := NewCatalog()

	results := catalog.Search("DUNE")
	require.Len(t, results, 1)
	assert.Equal(t, "Dune", results[0].Title)
}

func TestSearch_WordFallback(t *testing.T) {
	catalog := NewCatalog()

	// No title contains the full query, but "maverick" matches word-wise.
	results := catalog.Search("maverick film")
	require.Len(t, results, 1)
	assert.Equal(t, "Top Gun: Maverick", results[0].Title)
}

func TestSearch_NoMatch(t *testing.T) {
	catalog := NewCatalog()

	assert.Empty(t, catalog.Search("oppenheimer"))
}

func TestSearch_EmptyQuery(t *testing.T) {
	catalog := NewCatalog()

	assert.Empty(t, catalog.Search("   "))
}
