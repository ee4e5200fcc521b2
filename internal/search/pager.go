package search

import (
	"strconv"

	"github.com/arawak/praline/internal/store"
)

// SearchResponse is the shared envelope of both search paths. The albums
// group is reserved and always empty.
type SearchResponse struct {
	Albums SearchResultGroup `json:"albums"`
	Assets SearchResultGroup `json:"assets"`
}

// SearchResultGroup holds one page of results. Total and Count both refer
// to the items on this page, not the corpus; NextPage is the cursor for the
// following page when one exists.
type SearchResultGroup struct {
	Total    int                `json:"total"`
	Count    int                `json:"count"`
	Items    []store.Asset      `json:"items"`
	Facets   []store.FieldFacet `json:"facets"`
	NextPage *string            `json:"nextPage"`
}

func newSearchResponse(items []store.Asset, hasNextPage bool, page int) SearchResponse {
	if items == nil {
		items = []store.Asset{}
	}
	var nextPage *string
	if hasNextPage {
		cursor := strconv.Itoa(page + 1)
		nextPage = &cursor
	}
	return SearchResponse{
		Albums: SearchResultGroup{Items: []store.Asset{}, Facets: []store.FieldFacet{}},
		Assets: SearchResultGroup{
			Total:    len(items),
			Count:    len(items),
			Items:    items,
			Facets:   []store.FieldFacet{},
			NextPage: nextPage,
		},
	}
}
