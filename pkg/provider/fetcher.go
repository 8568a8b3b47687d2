// Package provider defines the fetcher contract every cloud provider
// implements and the registry wiring enabled fetchers into the pipeline.
package provider

import (
	"context"
	"fmt"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// Fetcher produces raw records from one provider's API or catalog. Fetchers
// run independently; a failing fetcher never blocks the others.
type Fetcher interface {
	Name() schema.Provider
	// NativeCurrency is the currency the provider prices in; the normalizer
	// converts from it to USD.
	NativeCurrency() string
	Fetch(ctx context.Context) ([]schema.RawRecord, error)
}

// FetchError wraps a provider API failure so it can be isolated to that
// provider and recorded in the snapshot summary.
type FetchError struct {
	Provider schema.Provider
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch failed: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
