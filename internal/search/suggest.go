package search

import (
	"context"
	"fmt"
)

type SuggestionType string

const (
	SuggestionCountry     SuggestionType = "country"
	SuggestionState       SuggestionType = "state"
	SuggestionCity        SuggestionType = "city"
	SuggestionCameraMake  SuggestionType = "camera-make"
	SuggestionCameraModel SuggestionType = "camera-model"
)

type SuggestionRequest struct {
	Type    SuggestionType `json:"type"`
	Country string         `json:"country,omitempty"`
	State   string         `json:"state,omitempty"`
	Make    string         `json:"make,omitempty"`
	Model   string         `json:"model,omitempty"`
}

// Suggest dispatches an autocomplete lookup by its discriminator. Lookups
// are scoped to the requester's own assets only; partner scope never applies
// here.
func (s *Service) Suggest(ctx context.Context, requester Requester, req SuggestionRequest) ([]string, error) {
	switch req.Type {
	case SuggestionCountry:
		return s.assets.DistinctCountries(ctx, requester.ID)
	case SuggestionState:
		return s.assets.DistinctStates(ctx, requester.ID, req.Country)
	case SuggestionCity:
		return s.assets.DistinctCities(ctx, requester.ID, req.Country, req.State)
	case SuggestionCameraMake:
		return s.assets.DistinctCameraMakes(ctx, requester.ID, req.Model)
	case SuggestionCameraModel:
		return s.assets.DistinctCameraModels(ctx, requester.ID, req.Make)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSuggestionType, req.Type)
	}
}
