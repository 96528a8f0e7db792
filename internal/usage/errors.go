package usage

import (
	"errors"
	"fmt"
)

var (
	// ErrLimitReached indicates the user exhausted a feature's allowance.
	ErrLimitReached = errors.New("limit reached")
	// ErrUnknownFeature is returned for features missing from the policy.
	ErrUnknownFeature = errors.New("unknown usage feature")
)

// LimitError carries the cap that was hit so it can be shown to the user.
type LimitError struct {
	Feature Feature
	Cap     int
}

func (e *LimitError) Error() string {
	switch e.Feature {
	case FeatureTransform:
		return fmt.Sprintf("You have reached the maximum of %d resume transformations.", e.Cap)
	case FeatureAISuggestions:
		return fmt.Sprintf("You have reached the maximum of %d AI suggestions for today. Please try again later.", e.Cap)
	default:
		return fmt.Sprintf("Usage limit of %d reached.", e.Cap)
	}
}

func (e *LimitError) Unwrap() error {
	return ErrLimitReached
}
