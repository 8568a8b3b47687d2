package hetzner

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
)

const (
	clientName             = "hetzner-client"
	userAgent              = "cloudpricefinder"
	userAgentKeyHeader     = "User-Agent"
	authorizationKeyHeader = "Authorization"
)

// Client is a thin REST client for the Hetzner Cloud API with bearer-token
// auth and retries.
type Client struct {
	HTTPClient *http.Client
	Config     *Config
	Logger     *zap.SugaredLogger
}

func NewClient(config *Config, logger *zap.SugaredLogger) *Client {
	return &Client{
		HTTPClient: &http.Client{
			Transport: http.DefaultTransport,
			Timeout:   config.Timeout,
		},
		Config: config,
		Logger: logger,
	}
}

// ServerTypes lists all server types, following pagination.
func (c *Client) ServerTypes(ctx context.Context) ([]ServerType, error) {
	var out []ServerType

	page := 1
	for {
		var resp serverTypesResponse
		if err := c.get(ctx, fmt.Sprintf("/server_types?page=%d&per_page=50", page), &resp); err != nil {
			return nil, err
		}

		out = append(out, resp.ServerTypes...)

		if resp.Meta.Pagination.NextPage == nil {
			return out, nil
		}

		page = *resp.Meta.Pagination.NextPage
	}
}

// LoadBalancerTypes lists all load balancer types.
func (c *Client) LoadBalancerTypes(ctx context.Context) ([]LoadBalancerType, error) {
	var resp loadBalancerTypesResponse
	if err := c.get(ctx, "/load_balancer_types", &resp); err != nil {
		return nil, err
	}

	return resp.LoadBalancerTypes, nil
}

// Locations lists all datacenter locations.
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	var resp locationsResponse
	if err := c.get(ctx, "/locations", &resp); err != nil {
		return nil, err
	}

	return resp.Locations, nil
}

// Pricing fetches the complete per-location price sheet.
func (c *Client) Pricing(ctx context.Context) (Pricing, error) {
	var resp pricingResponse
	if err := c.get(ctx, "/pricing", &resp); err != nil {
		return Pricing{}, err
	}

	return resp.Pricing, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.Config.BaseURL + path

	retryOptions := []retry.Option{
		retry.Attempts(c.Config.Retries),
		retry.Delay(c.Config.RetryDelay),
		retry.Context(ctx),
	}

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			reqStartTime := time.Now()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}

			req.Header.Set(userAgentKeyHeader, userAgent)
			req.Header.Set(authorizationKeyHeader, fmt.Sprintf("Bearer %s", c.Config.APIToken))

			resp, err := c.HTTPClient.Do(req)
			duration := time.Since(reqStartTime)

			if err != nil {
				recordAPILatency(duration, http.StatusBadRequest, path)
				c.namedLogger().With(log.KeyError, err.Error()).With(log.KeyRetry, log.ValueTrue).
					Warnf("request %s", path)
				return nil, err
			}

			defer func() {
				if err := resp.Body.Close(); err != nil {
					c.namedLogger().Warn(err)
				}
			}()

			recordAPILatency(duration, resp.StatusCode, path)

			if resp.StatusCode != http.StatusOK {
				err = fmt.Errorf("hetzner API returned HTTP: %d for %s", resp.StatusCode, path)
				c.namedLogger().With(log.KeyError, err.Error()).With(log.KeyRetry, log.ValueTrue).
					Warnf("request %s", path)
				return nil, err
			}

			return io.ReadAll(resp.Body)
		},
		retryOptions...,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to GET %s", path)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %s response", path)
	}

	return nil
}

func (c *Client) namedLogger() *zap.SugaredLogger {
	return c.Logger.Named(clientName).With("component", "hetzner")
}
