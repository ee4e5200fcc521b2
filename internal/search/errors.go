package search

import "errors"

var (
	// ErrFeatureDisabled is returned before any collaborator work when a
	// gated capability is switched off.
	ErrFeatureDisabled = errors.New("feature disabled")

	// ErrUnknownSuggestionType is returned when a suggestion request carries
	// a discriminator outside the five supported kinds. This is a caller
	// contract violation, not user input.
	ErrUnknownSuggestionType = errors.New("unknown suggestion type")
)
