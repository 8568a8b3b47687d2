package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jellydator/ttlcache/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	log "github.com/eSKylezZ/CloudPriceFinder/pkg/logger"
)

const (
	rateCacheKey = "rates"
	sourceName   = "currency-source"
)

// Config controls the live exchange-rate source.
type Config struct {
	URL        string        `envconfig:"EXCHANGE_RATE_URL" default:"https://api.exchangerate-api.com/v4/latest/USD"`
	Timeout    time.Duration `envconfig:"EXCHANGE_RATE_TIMEOUT" default:"10s"`
	CacheTTL   time.Duration `envconfig:"EXCHANGE_RATE_CACHE_TTL" default:"1h"`
	Retries    uint          `envconfig:"EXCHANGE_RATE_RETRY" default:"3"`
	RetryDelay time.Duration `envconfig:"EXCHANGE_RATE_RETRY_DELAY" default:"2s"`
}

// ratesResponse is the USD-based payload shape of exchangerate-api.com:
// rates holds units of currency per USD.
type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Source supplies to-USD rate tables. Live rates are fetched over HTTP and
// cached for the configured TTL; on any failure the static fallback table is
// served instead. Source never returns an error to the caller, matching the
// converter's never-throw contract.
type Source struct {
	httpClient *http.Client
	config     *Config
	cache      *ttlcache.Cache[string, RateTable]
	logger     *zap.SugaredLogger
}

func NewSource(config *Config, logger *zap.SugaredLogger) *Source {
	s := &Source{
		httpClient: &http.Client{
			Transport: http.DefaultTransport,
			Timeout:   config.Timeout,
		},
		config: config,
		logger: logger,
	}

	loader := ttlcache.LoaderFunc[string, RateTable](
		func(c *ttlcache.Cache[string, RateTable], key string) *ttlcache.Item[string, RateTable] {
			table, err := s.fetch(context.Background())
			if err != nil {
				s.namedLogger().With(log.KeyResult, log.ValueFail).With(log.KeyError, err.Error()).
					Warn("fetch live exchange rates")
				return nil
			}

			return c.Set(key, table, config.CacheTTL)
		},
	)

	s.cache = ttlcache.New[string, RateTable](
		ttlcache.WithTTL[string, RateTable](config.CacheTTL),
		ttlcache.WithDisableTouchOnHit[string, RateTable](),
		ttlcache.WithLoader[string, RateTable](loader),
	)

	return s
}

// Rates returns the current to-USD rate table. The second return value is
// false when the static fallback was substituted for live rates.
func (s *Source) Rates() (RateTable, bool) {
	s.cache.DeleteExpired()

	item := s.cache.Get(rateCacheKey)
	if item == nil {
		return FallbackRates.Clone(), false
	}

	return item.Value().Clone(), true
}

func (s *Source) fetch(ctx context.Context) (RateTable, error) {
	retryOptions := []retry.Option{
		retry.Attempts(s.config.Retries),
		retry.Delay(s.config.RetryDelay),
		retry.Context(ctx),
	}

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.URL, nil)
			if err != nil {
				return nil, err
			}

			resp, err := s.httpClient.Do(req)
			if err != nil {
				s.namedLogger().With(log.KeyError, err.Error()).With(log.KeyRetry, log.ValueTrue).
					Warn("request exchange rates")
				return nil, err
			}

			defer func() {
				if err := resp.Body.Close(); err != nil {
					s.namedLogger().Warn(err)
				}
			}()

			if resp.StatusCode != http.StatusOK {
				err = fmt.Errorf("rate source returned HTTP: %d", resp.StatusCode)
				s.namedLogger().With(log.KeyError, err.Error()).With(log.KeyRetry, log.ValueTrue).
					Warn("request exchange rates")
				return nil, err
			}

			return io.ReadAll(resp.Body)
		},
		retryOptions...,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to GET exchange rates")
	}

	var payload ratesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal exchange rates")
	}

	if len(payload.Rates) == 0 {
		return nil, errors.New("rate source returned an empty table")
	}

	// The endpoint reports units-per-USD; invert into the to-USD table the
	// converter expects.
	table := make(RateTable, len(payload.Rates)+1)

	for code, perUSD := range payload.Rates {
		if perUSD > 0 {
			table[code] = 1.0 / perUSD
		}
	}

	table[USD] = 1.0
	s.namedLogger().Debugf("updated exchange rates for %d currencies", len(table))

	return table, nil
}

func (s *Source) namedLogger() *zap.SugaredLogger {
	return s.logger.Named(sourceName).With("component", "currency")
}
