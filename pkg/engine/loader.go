package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	log "github.com/eSKylezZ/CloudPriceFinder/pkg/logger"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

// Loader fetches one provider's instance list on demand.
type Loader interface {
	Load(ctx context.Context, name schema.Provider) ([]schema.CloudInstance, error)
}

// LoadError is returned to callers that waited on a shared in-flight load
// which did not produce a catalog.
type LoadError struct {
	Provider schema.Provider
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("shared load for provider %s failed", e.Provider)
}

// HTTPLoaderConfig controls the snapshot-endpoint loader.
type HTTPLoaderConfig struct {
	BaseURL    string        `envconfig:"ENGINE_DATA_URL" default:"http://localhost:8080/api/v1/instances"`
	Timeout    time.Duration `envconfig:"ENGINE_DATA_TIMEOUT" default:"15s"`
	Retries    uint          `envconfig:"ENGINE_DATA_RETRY" default:"3"`
	RetryDelay time.Duration `envconfig:"ENGINE_DATA_RETRY_DELAY" default:"1s"`
}

// HTTPLoader reads per-provider instance lists from the snapshot service.
type HTTPLoader struct {
	httpClient *http.Client
	config     *HTTPLoaderConfig
	logger     *zap.SugaredLogger
}

var _ Loader = &HTTPLoader{}

func NewHTTPLoader(config *HTTPLoaderConfig, logger *zap.SugaredLogger) *HTTPLoader {
	return &HTTPLoader{
		httpClient: &http.Client{
			Transport: http.DefaultTransport,
			Timeout:   config.Timeout,
		},
		config: config,
		logger: logger,
	}
}

func (l *HTTPLoader) Load(ctx context.Context, name schema.Provider) ([]schema.CloudInstance, error) {
	url := fmt.Sprintf("%s/%s", l.config.BaseURL, name)

	retryOptions := []retry.Option{
		retry.Attempts(l.config.Retries),
		retry.Delay(l.config.RetryDelay),
		retry.Context(ctx),
	}

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}

			resp, err := l.httpClient.Do(req)
			if err != nil {
				l.namedLogger().With(log.KeyError, err.Error()).With(log.KeyRetry, log.ValueTrue).
					Warnf("load %s", url)
				return nil, err
			}

			defer func() {
				if err := resp.Body.Close(); err != nil {
					l.namedLogger().Warn(err)
				}
			}()

			if resp.StatusCode != http.StatusOK {
				err = fmt.Errorf("instance endpoint returned HTTP: %d for %s", resp.StatusCode, url)
				l.namedLogger().With(log.KeyError, err.Error()).With(log.KeyRetry, log.ValueTrue).
					Warnf("load %s", url)
				return nil, err
			}

			return io.ReadAll(resp.Body)
		},
		retryOptions...,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load instances for %s", name)
	}

	var instances []schema.CloudInstance
	if err := json.Unmarshal(body, &instances); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal instances for %s", name)
	}

	return instances, nil
}

func (l *HTTPLoader) namedLogger() *zap.SugaredLogger {
	return l.logger.Named("instance-loader").With("component", "cpf")
}
