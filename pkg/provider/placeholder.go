package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/currency"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// placeholder stands in for providers whose fetchers are not implemented yet.
// It returns an empty record list so the provider still shows up in the run
// accounting without contributing data.
type placeholder struct {
	name   schema.Provider
	logger *zap.SugaredLogger
}

// NewPlaceholder returns a fetcher that yields no records for the named
// provider.
func NewPlaceholder(name schema.Provider, logger *zap.SugaredLogger) Fetcher {
	return &placeholder{name: name, logger: logger}
}

func (p *placeholder) Name() schema.Provider {
	return p.name
}

func (p *placeholder) NativeCurrency() string {
	return currency.USD
}

func (p *placeholder) Fetch(ctx context.Context) ([]schema.RawRecord, error) {
	p.logger.With("component", "provider").
		Warnf("%s fetcher not implemented yet - returning empty data", p.name)

	return []schema.RawRecord{}, nil
}
