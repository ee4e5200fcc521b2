package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arawak/praline/internal/store"
)

func TestPagerCursorPresentOnlyWithNextPage(t *testing.T) {
	resp := newSearchResponse([]store.Asset{{ID: "a1"}}, true, 3)
	require.NotNil(t, resp.Assets.NextPage)
	assert.Equal(t, "4", *resp.Assets.NextPage)

	resp = newSearchResponse([]store.Asset{{ID: "a1"}}, false, 3)
	assert.Nil(t, resp.Assets.NextPage)
}

func TestPagerCountsArePageLocal(t *testing.T) {
	items := []store.Asset{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}}
	resp := newSearchResponse(items, true, 1)

	assert.Equal(t, 3, resp.Assets.Total)
	assert.Equal(t, 3, resp.Assets.Count)
	assert.Equal(t, items, resp.Assets.Items)
}

func TestPagerAlbumsAlwaysEmpty(t *testing.T) {
	resp := newSearchResponse([]store.Asset{{ID: "a1"}}, true, 1)
	assert.Zero(t, resp.Albums.Total)
	assert.Zero(t, resp.Albums.Count)
	assert.Empty(t, resp.Albums.Items)
	assert.Nil(t, resp.Albums.NextPage)
}

func TestPagerPreservesItemOrder(t *testing.T) {
	items := []store.Asset{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	resp := newSearchResponse(items, false, 1)
	require.Len(t, resp.Assets.Items, 3)
	assert.Equal(t, "c", resp.Assets.Items[0].ID)
	assert.Equal(t, "a", resp.Assets.Items[1].ID)
	assert.Equal(t, "b", resp.Assets.Items[2].ID)
}

func TestPagerNilItems(t *testing.T) {
	resp := newSearchResponse(nil, false, 1)
	assert.NotNil(t, resp.Assets.Items)
	assert.Zero(t, resp.Assets.Total)
}
