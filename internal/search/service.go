// Package search is the unified search core of praline: it resolves which
// owners are visible to a requester, normalizes incoming queries, runs the
// metadata and smart (embedding similarity) search paths against their
// respective indexes, aggregates the explore view, and answers autocomplete
// suggestions. It holds no state between requests.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arawak/praline/internal/store"
)

type Feature string

const (
	FeatureSearch      Feature = "search"
	FeatureSmartSearch Feature = "smartSearch"
)

// MachineLearningConfig points at the embedding service used by the smart
// search path.
type MachineLearningConfig struct {
	URL   string
	Model string
}

// Requester identifies the user a query runs on behalf of, along with the
// stored ordering preference that "preference"-typed sort orders resolve to.
type Requester struct {
	ID    string
	Order store.SortOrder
}

// AssetReader is the metadata index: structured search, batched hydration,
// facet grouping, and the five distinct-value suggestion lookups.
type AssetReader interface {
	SearchAssets(ctx context.Context, opts store.AssetSearchOptions) (store.AssetPage, error)
	GetAssetsByIDs(ctx context.Context, ids []string) ([]store.Asset, error)
	FacetValues(ctx context.Context, ownerIDs []string, field store.FacetField, opts store.FacetOptions) (store.FieldFacet, error)
	DistinctCountries(ctx context.Context, ownerID string) ([]string, error)
	DistinctStates(ctx context.Context, ownerID, country string) ([]string, error)
	DistinctCities(ctx context.Context, ownerID, country, state string) ([]string, error)
	DistinctCameraMakes(ctx context.Context, ownerID, model string) ([]string, error)
	DistinctCameraModels(ctx context.Context, ownerID, make string) ([]string, error)
}

type PartnerReader interface {
	ListPartners(ctx context.Context, userID string) ([]store.Partner, error)
}

// VectorIndex answers similarity queries with asset ids in score order.
type VectorIndex interface {
	Search(ctx context.Context, embedding []float32, ownerIDs []string, page, size int) (ids []string, hasNextPage bool, err error)
}

type Embedder interface {
	EmbedText(ctx context.Context, cfg MachineLearningConfig, text string) ([]float32, error)
}

// Settings exposes the feature toggles and embedding-service configuration
// the core consults before running gated queries.
type Settings interface {
	FeatureEnabled(feature Feature) bool
	MachineLearning() MachineLearningConfig
}

type Service struct {
	assets   AssetReader
	partners PartnerReader
	vectors  VectorIndex
	embedder Embedder
	settings Settings
	explore  store.FacetOptions
	logger   *slog.Logger
}

func NewService(assets AssetReader, partners PartnerReader, vectors VectorIndex, embedder Embedder, settings Settings, explore store.FacetOptions, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		assets:   assets,
		partners: partners,
		vectors:  vectors,
		embedder: embedder,
		settings: settings,
		explore:  explore,
		logger:   logger,
	}
}

// checkEnabled must run before any collaborator call that depends on the
// gated capability.
func (s *Service) checkEnabled(feature Feature) error {
	if !s.settings.FeatureEnabled(feature) {
		return fmt.Errorf("%w: %s", ErrFeatureDisabled, feature)
	}
	return nil
}

// visibleOwnerIDs returns the requester's own id followed by every partner
// that both shares with the requester and is included in the requester's
// timeline.
func (s *Service) visibleOwnerIDs(ctx context.Context, requester Requester) ([]string, error) {
	partners, err := s.partners.ListPartners(ctx, requester.ID)
	if err != nil {
		return nil, err
	}
	ids := []string{requester.ID}
	for _, p := range partners {
		if p.SharedBy && p.InTimeline {
			ids = append(ids, p.SharedByID)
		}
	}
	return ids, nil
}

// SearchMetadata runs a structured filter query over every asset visible to
// the requester.
func (s *Service) SearchMetadata(ctx context.Context, requester Requester, req MetadataSearchRequest) (SearchResponse, error) {
	if err := s.checkEnabled(FeatureSearch); err != nil {
		return SearchResponse{}, err
	}
	ownerIDs, err := s.visibleOwnerIDs(ctx, requester)
	if err != nil {
		return SearchResponse{}, err
	}
	opts, err := req.normalize(requester, ownerIDs)
	if err != nil {
		return SearchResponse{}, err
	}
	page, err := s.assets.SearchAssets(ctx, opts)
	if err != nil {
		return SearchResponse{}, err
	}
	return newSearchResponse(page.Items, page.HasNextPage, opts.Page), nil
}

// SearchSmart embeds the free-text query and runs a similarity query over
// the visible scope. It never falls back to a metadata search: gate and
// embedding failures surface to the caller.
func (s *Service) SearchSmart(ctx context.Context, requester Requester, req SmartSearchRequest) (SearchResponse, error) {
	if err := s.checkEnabled(FeatureSmartSearch); err != nil {
		return SearchResponse{}, err
	}

	ml := s.settings.MachineLearning()
	embedding, err := s.embedder.EmbedText(ctx, ml, req.Query)
	if err != nil {
		return SearchResponse{}, err
	}

	ownerIDs, err := s.visibleOwnerIDs(ctx, requester)
	if err != nil {
		return SearchResponse{}, err
	}

	page, size := normalizePagination(req.Page, req.Size, defaultSmartSize)
	ids, hasNext, err := s.vectors.Search(ctx, embedding, ownerIDs, page, size)
	if err != nil {
		return SearchResponse{}, err
	}

	assets, err := s.hydrate(ctx, ids)
	if err != nil {
		return SearchResponse{}, err
	}
	return newSearchResponse(assets, hasNext, page), nil
}

// hydrate fetches full asset records for the given ids, preserving the id
// order. Ids with no surviving record are dropped.
func (s *Service) hydrate(ctx context.Context, ids []string) ([]store.Asset, error) {
	if len(ids) == 0 {
		return []store.Asset{}, nil
	}
	records, err := s.assets.GetAssetsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]store.Asset, len(records))
	for _, a := range records {
		byID[a.ID] = a
	}
	ordered := make([]store.Asset, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}
