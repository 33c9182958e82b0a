package reconciler

import (
	"github.com/agentstation/moinit/pkg/errors"
)

// options configures a reconciler.
type options struct {
	dryRun            bool
	skipMissingFacets bool
	observer          Observer
}

func defaultOptions() *options {
	return &options{observer: nopObserver{}}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithDryRun plans mutations without issuing them.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}

// WithSkipMissingFacets logs and skips desired facets that do not exist in
// MO instead of failing the run.
func WithSkipMissingFacets(enabled bool) Option {
	return func(o *options) error {
		o.skipMissingFacets = enabled
		return nil
	}
}

// WithObserver sets the observer notified after each applied mutation.
func WithObserver(observer Observer) Option {
	return func(o *options) error {
		if observer == nil {
			return &errors.ValidationError{
				Field:   "observer",
				Message: "cannot be nil",
			}
		}
		o.observer = observer
		return nil
	}
}
