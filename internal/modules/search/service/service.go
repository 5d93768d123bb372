package service

import (
	"strings"

	"github.com/mraprguild/guardbot/internal/modules/search/domain"
	"github.com/samber/lo"
)

// Searcher is the catalog lookup capability consumed by the bot commands.
// It is deliberately abstract: any catalog source can back it.
type Searcher interface {
	Search(query string) []domain.Result
}

// Catalog is an in-memory Searcher seeded with a small movie set
type Catalog struct {
	movies []domain.Result
}

// NewCatalog creates the default in-memory catalog
func NewCatalog() *Catalog {
	return &Catalog{
		movies: []domain.Result{
			{Title: "Avengers: Endgame", Year: "2019", Quality: "HD", Genre: "Action", DownloadLink: "https://example.com/avengers-endgame"},
			{Title: "Spider-Man: No Way Home", Year: "2021", Quality: "HD", Genre: "Action", DownloadLink: "https://example.com/spiderman-nwh"},
			{Title: "The Batman", Year: "2022", Quality: "HD", Genre: "Action", DownloadLink: "https://example.com/the-batman"},
			{Title: "Top Gun: Maverick", Year: "2022", Quality: "HD", Genre: "Action", DownloadLink: "https://example.com/top-gun-maverick"},
			{Title: "Dune", Year: "2021", Quality: "HD", Genre: "Sci-Fi", DownloadLink: "https://example.com/dune-2021"},
		},
	}
}

// Search matches the query against titles, falling back to word-wise matching
// when no title contains the full query.
func (c *Catalog) Search(query string) []domain.Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	results := lo.Filter(c.movies, func(m domain.Result, _ int) bool {
		return strings.Contains(strings.ToLower(m.Title), query)
	})
	if len(results) > 0 {
		return results
	}

	words := strings.Fields(query)
	return lo.Filter(c.movies, func(m domain.Result, _ int) bool {
		title := strings.ToLower(m.Title)
		for _, w := range words {
			if strings.Contains(title, w) {
				return true
			}
		}
		return false
	})
}
