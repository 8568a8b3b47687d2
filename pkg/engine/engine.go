// Package engine filters, sorts and price-resolves the in-memory instance
// set. It reconciles the legacy and current snapshot shapes (flat regions vs
// locationDetails, string vs keyed networkOptions) behind one predicate and
// one price-resolution order.
package engine

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/currency"
	log "github.com/eSKylezZ/CloudPriceFinder/pkg/logger"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// Engine owns the loaded instance set and recomputes views from filter
// states. Provider catalogs are additive: loading a new provider never evicts
// an already-loaded one, and the merged set keeps insertion order as the sort
// tie-break.
type Engine struct {
	loader Loader
	prefs  PreferenceStore
	logger *zap.SugaredLogger

	// loaded holds one []schema.CloudInstance per provider name. The cache
	// is owned by this engine instance; engines never share loaded data.
	loaded *cache.Cache

	mu        sync.Mutex
	all       []schema.CloudInstance
	inflight  map[schema.Provider]chan struct{}
	currency  string
	rates     currency.RateTable
	lastState FilterState
}

func New(loader Loader, prefs PreferenceStore, logger *zap.SugaredLogger) *Engine {
	e := &Engine{
		loader:   loader,
		prefs:    prefs,
		logger:   logger,
		loaded:   cache.New(cache.NoExpiration, 0),
		inflight: make(map[schema.Provider]chan struct{}),
		currency: currency.USD,
		rates:    currency.FallbackRates.Clone(),
	}

	if prefs != nil {
		if code, err := prefs.Currency(); err != nil {
			e.namedLogger().With(log.KeyError, err.Error()).Warn("failed to restore currency preference")
		} else if code != "" {
			e.currency = code
		}
	}

	return e
}

// Seed inserts a provider's catalog without going through the loader, e.g.
// from the combined snapshot at startup. Seeding an already-loaded provider
// is a no-op.
func (e *Engine) Seed(name schema.Provider, instances []schema.CloudInstance) {
	e.merge(name, instances)
}

// Currency returns the active display currency.
func (e *Engine) Currency() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.currency
}

// SetCurrency switches the display currency and persists the preference.
func (e *Engine) SetCurrency(code string) error {
	e.mu.Lock()
	e.currency = code
	e.mu.Unlock()

	if e.prefs == nil {
		return nil
	}

	return e.prefs.SetCurrency(code)
}

// SetRates replaces the table used for display conversion. Stored instance
// prices stay USD; rates only affect FormatPrice output.
func (e *Engine) SetRates(table currency.RateTable) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rates = table.Clone()
}

// FormatPrice renders a resolved USD amount in the active display currency.
// A currency on the applied filter state takes precedence over the persisted
// preference. Unknown currencies render the USD amount with a code suffix.
func (e *Engine) FormatPrice(usd float64, scale currency.Scale) string {
	e.mu.Lock()
	code := e.lastState.Currency
	if code == "" {
		code = e.currency
	}
	table := e.rates
	e.mu.Unlock()

	amount, ok := currency.Convert(usd, currency.USD, code, table)
	if !ok {
		return currency.Format(usd, currency.USD, scale)
	}

	return currency.Format(amount, code, scale)
}

// Instances returns the full merged set in insertion order.
func (e *Engine) Instances() []schema.CloudInstance {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]schema.CloudInstance, len(e.all))
	copy(out, e.all)

	return out
}

// Apply recomputes the filtered, sorted view from a full filter state.
func (e *Engine) Apply(state FilterState) []schema.CloudInstance {
	e.mu.Lock()
	e.lastState = state
	input := make([]schema.CloudInstance, len(e.all))
	copy(input, e.all)
	e.mu.Unlock()

	filtered := make([]schema.CloudInstance, 0, len(input))

	for i := range input {
		if matches(&input[i], state) {
			filtered = append(filtered, input[i])
		}
	}

	sortInstances(filtered, state)

	return filtered
}

// Reapply recomputes the view from the most recently applied filter state.
func (e *Engine) Reapply() []schema.CloudInstance {
	e.mu.Lock()
	state := e.lastState
	e.mu.Unlock()

	return e.Apply(state)
}

// Load fetches a provider's catalog on demand. Loads are idempotent (an
// already-loaded provider returns immediately) and deduplicated (concurrent
// calls for the same provider share one fetch).
func (e *Engine) Load(ctx context.Context, name schema.Provider) error {
	if _, found := e.loaded.Get(string(name)); found {
		return nil
	}

	e.mu.Lock()

	if ch, running := e.inflight[name]; running {
		e.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}

		if _, found := e.loaded.Get(string(name)); found {
			return nil
		}

		return &LoadError{Provider: name}
	}

	ch := make(chan struct{})
	e.inflight[name] = ch
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.inflight, name)
		e.mu.Unlock()
		close(ch)
	}()

	instances, err := e.loader.Load(ctx, name)
	if err != nil {
		e.namedLogger().With(log.KeyProvider, string(name)).With(log.KeyResult, log.ValueFail).
			With(log.KeyError, err.Error()).Error("provider load failed")

		return err
	}

	e.merge(name, instances)
	e.namedLogger().With(log.KeyProvider, string(name)).With(log.KeyResult, log.ValueSuccess).
		Infof("loaded %d instances", len(instances))

	return nil
}

func (e *Engine) merge(name schema.Provider, instances []schema.CloudInstance) {
	if _, found := e.loaded.Get(string(name)); found {
		return
	}

	e.loaded.Set(string(name), instances, cache.NoExpiration)

	e.mu.Lock()
	e.all = append(e.all, instances...)
	e.mu.Unlock()
}

func (e *Engine) namedLogger() *zap.SugaredLogger {
	return e.logger.Named("engine").With("component", "cpf")
}
