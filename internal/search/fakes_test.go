package search

import (
	"context"
	"sync"

	"github.com/arawak/praline/internal/store"
)

// fakeAssets records every call it receives. Explore queries facets from
// concurrent goroutines, so all recording happens under the mutex and tests
// read the facet fields through the accessors below.
type fakeAssets struct {
	mu sync.Mutex

	searchCalls []store.AssetSearchOptions
	searchPage  store.AssetPage
	searchErr   error

	getCalls [][]string
	records  []store.Asset

	facetCalls  []store.FacetField
	facetOwners [][]string
	facetOpts   []store.FacetOptions
	facets      map[store.FacetField]store.FieldFacet

	distinctCalls []string
	distinctOwner string
	values        []string
}

func (f *fakeAssets) SearchAssets(_ context.Context, opts store.AssetSearchOptions) (store.AssetPage, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, opts)
	f.mu.Unlock()
	if f.searchErr != nil {
		return store.AssetPage{}, f.searchErr
	}
	return f.searchPage, nil
}

func (f *fakeAssets) GetAssetsByIDs(_ context.Context, ids []string) ([]store.Asset, error) {
	f.mu.Lock()
	f.getCalls = append(f.getCalls, ids)
	f.mu.Unlock()
	return f.records, nil
}

func (f *fakeAssets) FacetValues(_ context.Context, ownerIDs []string, field store.FacetField, opts store.FacetOptions) (store.FieldFacet, error) {
	f.mu.Lock()
	f.facetCalls = append(f.facetCalls, field)
	f.facetOwners = append(f.facetOwners, ownerIDs)
	f.facetOpts = append(f.facetOpts, opts)
	f.mu.Unlock()
	return f.facets[field], nil
}

func (f *fakeAssets) facetFields() []store.FacetField {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.FacetField(nil), f.facetCalls...)
}

func (f *fakeAssets) facetOwnerScopes() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.facetOwners...)
}

func (f *fakeAssets) facetOptions() []store.FacetOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.FacetOptions(nil), f.facetOpts...)
}

func (f *fakeAssets) DistinctCountries(_ context.Context, ownerID string) ([]string, error) {
	f.distinctCalls = append(f.distinctCalls, "countries")
	f.distinctOwner = ownerID
	return f.values, nil
}

func (f *fakeAssets) DistinctStates(_ context.Context, ownerID, _ string) ([]string, error) {
	f.distinctCalls = append(f.distinctCalls, "states")
	f.distinctOwner = ownerID
	return f.values, nil
}

func (f *fakeAssets) DistinctCities(_ context.Context, ownerID, _, _ string) ([]string, error) {
	f.distinctCalls = append(f.distinctCalls, "cities")
	f.distinctOwner = ownerID
	return f.values, nil
}

func (f *fakeAssets) DistinctCameraMakes(_ context.Context, ownerID, _ string) ([]string, error) {
	f.distinctCalls = append(f.distinctCalls, "makes")
	f.distinctOwner = ownerID
	return f.values, nil
}

func (f *fakeAssets) DistinctCameraModels(_ context.Context, ownerID, _ string) ([]string, error) {
	f.distinctCalls = append(f.distinctCalls, "models")
	f.distinctOwner = ownerID
	return f.values, nil
}

type fakePartners struct {
	partners []store.Partner
	err      error
	calls    int
}

func (f *fakePartners) ListPartners(_ context.Context, _ string) ([]store.Partner, error) {
	f.calls++
	return f.partners, f.err
}

type fakeVectors struct {
	embeddings [][]float32
	owners     [][]string
	pages      []int
	sizes      []int

	ids     []string
	hasNext bool
	err     error
}

func (f *fakeVectors) Search(_ context.Context, embedding []float32, ownerIDs []string, page, size int) ([]string, bool, error) {
	f.embeddings = append(f.embeddings, embedding)
	f.owners = append(f.owners, ownerIDs)
	f.pages = append(f.pages, page)
	f.sizes = append(f.sizes, size)
	if f.err != nil {
		return nil, false, f.err
	}
	return f.ids, f.hasNext, nil
}

type fakeEmbedder struct {
	configs []MachineLearningConfig
	texts   []string
	vector  []float32
	err     error
}

func (f *fakeEmbedder) EmbedText(_ context.Context, cfg MachineLearningConfig, text string) ([]float32, error) {
	f.configs = append(f.configs, cfg)
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeSettings struct {
	disabled map[Feature]bool
	ml       MachineLearningConfig
}

func (f *fakeSettings) FeatureEnabled(feature Feature) bool {
	return !f.disabled[feature]
}

func (f *fakeSettings) MachineLearning() MachineLearningConfig {
	return f.ml
}

type fixture struct {
	assets   *fakeAssets
	partners *fakePartners
	vectors  *fakeVectors
	embedder *fakeEmbedder
	settings *fakeSettings
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{
		assets:   &fakeAssets{facets: map[store.FacetField]store.FieldFacet{}},
		partners: &fakePartners{},
		vectors:  &fakeVectors{},
		embedder: &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}},
		settings: &fakeSettings{disabled: map[Feature]bool{}},
	}
	f.service = NewService(
		f.assets, f.partners, f.vectors, f.embedder, f.settings,
		store.FacetOptions{MaxFields: 12, MinAssetsPerField: 5}, nil,
	)
	return f
}
