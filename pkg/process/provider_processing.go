package process

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	log "github.com/eSKylezZ/CloudPriceFinder/pkg/logger"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/normalizer"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/provider"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/validator"
)

const fetchTimeout = 5 * time.Minute

// processProvider runs the full pipeline for one provider: fetch, validate,
// normalize, cache. A failed fetch keeps the previously cached catalog and
// records the error for the summary. The returned bool asks for a requeue.
func (p *Process) processProvider(providerName string, identifier int) bool {
	if strings.TrimSpace(providerName) == "" {
		p.namedLogger().With(log.KeyWorkerID, identifier).Warn("cannot work with empty provider name")

		return false
	}

	name := schema.Provider(providerName)

	fetcher, ok := p.Fetchers[name]
	if !ok {
		p.namedLogger().With(log.KeyWorkerID, identifier).With(log.KeyProvider, providerName).
			Warn("provider has no fetcher configured")

		return false
	}

	runID := uuid.New().String()
	logger := p.namedLogger().
		With(log.KeyProvider, providerName).
		With(log.KeyWorkerID, identifier).
		With(log.KeyRunID, runID)

	logger.Debug("fetched provider from queue")

	instances, err := p.collect(fetcher)
	if err != nil {
		fetchErr := &provider.FetchError{Provider: name, Err: err}

		logger.With(log.KeyResult, log.ValueFail).With(log.KeyError, fetchErr.Error()).
			Error("provider fetch failed")
		recordProviderProcessed(false, providerName)

		p.mu.Lock()
		p.errs[name] = err.Error()
		p.mu.Unlock()

		if _, found := p.Cache.Get(providerName); found {
			logger.With(log.KeyRequeue, log.ValueTrue).
				Info("keeping previously cached catalog for provider")
		}
	} else {
		p.Cache.Set(providerName, instances, cache.NoExpiration)
		recordItemsInCache(float64(p.Cache.ItemCount()))
		recordProviderProcessed(true, providerName)
		recordInstancesCollected(providerName, len(instances))

		p.mu.Lock()
		delete(p.errs, name)
		p.mu.Unlock()

		logger.With(log.KeyResult, log.ValueSuccess).
			Infof("collected %d instances", len(instances))
	}

	p.mu.Lock()
	p.reported[name] = true
	cycleComplete := len(p.reported) == len(p.Fetchers)

	if cycleComplete {
		p.reported = make(map[schema.Provider]bool)
	}
	p.mu.Unlock()

	if cycleComplete {
		p.writeSnapshot(logger)
	}

	logger.With(log.KeyRequeue, log.ValueTrue).
		Debugf("requeued provider after %v", p.ScrapeInterval)

	return true
}

// collect fetches a provider's raw catalog and runs it through validation and
// normalization. Invalid or unmappable records are dropped and counted; they
// never fail the provider run.
func (p *Process) collect(fetcher provider.Fetcher) ([]schema.CloudInstance, error) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	raws, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	providerName := string(fetcher.Name())

	rates, live := p.Rates.Rates()
	if !live {
		p.namedLogger().With(log.KeyProvider, providerName).
			Warn("using static fallback exchange rates")
	}

	pctx := normalizer.ProviderContext{
		Provider:       fetcher.Name(),
		NativeCurrency: fetcher.NativeCurrency(),
		Rates:          rates,
	}

	instances := make([]schema.CloudInstance, 0, len(raws))

	for _, raw := range raws {
		// Fetchers do not stamp their own name; do it before validation.
		if !raw.Has("provider") {
			raw["provider"] = providerName
		}

		if result := validator.Validate(raw); !result.Valid {
			recordRecordDropped(providerName, dropReasonInvalid)
			p.namedLogger().With(log.KeyProvider, providerName).
				With(log.KeyInstanceType, raw.String("instanceType")).
				With(log.KeyError, strings.Join(result.Errors, "; ")).
				Warn("dropping invalid record")

			continue
		}

		inst, err := normalizer.Normalize(raw, pctx)
		if err != nil {
			recordRecordDropped(providerName, dropReasonUnmappable)
			p.namedLogger().With(log.KeyProvider, providerName).
				With(log.KeyInstanceType, raw.String("instanceType")).
				With(log.KeyError, err.Error()).
				Warn("dropping unmappable record")

			continue
		}

		instances = append(instances, inst)
	}

	return instances, nil
}

// cachedInstances returns the last good catalog for every provider that has
// one.
func (p *Process) cachedInstances() map[schema.Provider][]schema.CloudInstance {
	out := make(map[schema.Provider][]schema.CloudInstance, len(p.Fetchers))

	for name := range p.Fetchers {
		obj, found := p.Cache.Get(string(name))
		if !found {
			continue
		}

		if instances, ok := obj.([]schema.CloudInstance); ok {
			out[name] = instances
		}
	}

	return out
}

func (p *Process) namedLogger() *zap.SugaredLogger {
	return p.Logger.With("component", "cpf")
}
