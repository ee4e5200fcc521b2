package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/arawak/praline/internal/store"
)

// ExploreResult is a FieldFacet with each representative asset id resolved
// to the full record.
type ExploreResult struct {
	FieldName string        `json:"fieldName"`
	Items     []ExploreItem `json:"items"`
}

type ExploreItem struct {
	Value string      `json:"value"`
	Data  store.Asset `json:"data"`
}

// Explore fans out one facet query per explore field (city and tag), waits
// for both, then resolves every referenced asset through one batched lookup.
// The bounded round-trip count is the point: per-item fetches would defeat
// the batching regardless of how many facet fields exist.
func (s *Service) Explore(ctx context.Context, requester Requester) ([]ExploreResult, error) {
	if err := s.checkEnabled(FeatureSearch); err != nil {
		return nil, err
	}
	ownerIDs, err := s.visibleOwnerIDs(ctx, requester)
	if err != nil {
		return nil, err
	}

	fields := []store.FacetField{store.FacetCity, store.FacetTag}
	facets := make([]store.FieldFacet, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	for i, field := range fields {
		g.Go(func() error {
			facet, err := s.assets.FacetValues(gctx, ownerIDs, field, s.explore)
			if err != nil {
				return err
			}
			facets[i] = facet
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	ids := []string{}
	for _, facet := range facets {
		for _, item := range facet.Items {
			if _, ok := seen[item.Data]; ok {
				continue
			}
			seen[item.Data] = struct{}{}
			ids = append(ids, item.Data)
		}
	}

	assets, err := s.assets.GetAssetsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]store.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}

	results := make([]ExploreResult, 0, len(facets))
	for _, facet := range facets {
		items := make([]ExploreItem, 0, len(facet.Items))
		for _, item := range facet.Items {
			asset, ok := byID[item.Data]
			if !ok {
				continue
			}
			items = append(items, ExploreItem{Value: item.Value, Data: asset})
		}
		results = append(results, ExploreResult{FieldName: facet.FieldName, Items: items})
	}
	return results, nil
}
