// Package vectorindex wraps the sqvect similarity store behind the narrow
// query surface the search core needs. Embeddings are written by the ingest
// pipeline that owns asset processing; this service only reads them, plus a
// thin Add used when backfilling a library by hand.
package vectorindex

import (
	"context"

	sqvect "github.com/liliang-cn/sqvect/v2/pkg/core"
)

const ownerKey = "ownerId"

type Index struct {
	store *sqvect.SQLiteStore
}

func Open(path string, dimensions int) (*Index, error) {
	st, err := sqvect.New(path, dimensions)
	if err != nil {
		return nil, err
	}
	if err := st.Init(context.Background()); err != nil {
		return nil, err
	}
	return &Index{store: st}, nil
}

func (i *Index) Close() error {
	return i.store.Close()
}

// Add upserts one asset embedding keyed by asset id, tagged with its owner.
func (i *Index) Add(ctx context.Context, assetID, ownerID string, vector []float32) error {
	return i.store.Upsert(ctx, &sqvect.Embedding{
		ID:       assetID,
		Vector:   vector,
		Metadata: map[string]string{ownerKey: ownerID},
	})
}

// Search returns the requested page of asset ids most similar to the query
// embedding, restricted to the given owners, ordered by descending score.
//
// sqvect scores candidates before ownership is known, so a candidate window
// one page past the requested one is fetched and scope filtering happens on
// the scored results. HasNextPage is derived from the filtered overflow.
func (i *Index) Search(ctx context.Context, embedding []float32, ownerIDs []string, page, size int) ([]string, bool, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		return nil, false, nil
	}

	owners := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = struct{}{}
	}

	// The window is fixed: when most of the top-scored candidates belong to
	// owners outside the scope, the page comes back short and HasNextPage can
	// read false even though deeper in-scope matches exist.
	// TODO: grow topK with the observed out-of-scope miss rate.
	topK := (page + 1) * size
	results, err := i.store.Search(ctx, embedding, sqvect.SearchOptions{TopK: topK})
	if err != nil {
		return nil, false, err
	}

	matched := make([]string, 0, len(results))
	for _, r := range results {
		if _, ok := owners[r.Metadata[ownerKey]]; ok {
			matched = append(matched, r.ID)
		}
	}

	offset := (page - 1) * size
	if offset >= len(matched) {
		return nil, false, nil
	}
	end := offset + size
	hasNext := len(matched) > end
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], hasNext, nil
}
