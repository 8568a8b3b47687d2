// Package testing holds shared fixtures and assertion helpers for the
// pipeline and engine test suites.
package testing

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

const (
	// Delta is used to compare floating point numbers using gomega's BeNumerically.
	Delta = 1.0e-4
)

// FixedTime is the timestamp every fixture carries so snapshots diff cleanly.
var FixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type InstanceOpt func(*schema.CloudInstance)

// NewInstance builds a priced cloud-server fixture; options override the
// defaults.
func NewInstance(providerName schema.Provider, instanceType string, opts ...InstanceOpt) schema.CloudInstance {
	vcpu := 2
	memory := 4.0

	inst := schema.CloudInstance{
		Provider:        providerName,
		Platform:        schema.PlatformCloud,
		Kind:            schema.KindCloudServer,
		InstanceType:    instanceType,
		VCPU:            &vcpu,
		MemoryGiB:       &memory,
		PriceUSDHourly:  0.0119,
		PriceUSDMonthly: 8.69,
		Source:          "test_fixture",
		LastUpdated:     FixedTime,
	}

	for _, opt := range opts {
		opt(&inst)
	}

	return inst
}

func WithKind(kind schema.InstanceKind) InstanceOpt {
	return func(inst *schema.CloudInstance) {
		inst.Kind = kind
	}
}

func WithHourlyPrice(hourly float64) InstanceOpt {
	return func(inst *schema.CloudInstance) {
		inst.PriceUSDHourly = hourly
		inst.PriceUSDMonthly = hourly * 730.44
	}
}

func WithLocations(details ...schema.LocationDetail) InstanceOpt {
	return func(inst *schema.CloudInstance) {
		inst.LocationDetails = details
	}
}

func WithRegionalPricing(prices ...schema.RegionalPrice) InstanceOpt {
	return func(inst *schema.CloudInstance) {
		inst.RegionalPricing = prices
	}
}

func WithNetworkOptions(options map[string]schema.NetworkOption) InstanceOpt {
	return func(inst *schema.CloudInstance) {
		inst.NetworkOptions = &schema.NetworkConfig{Options: options}
	}
}

func PrometheusGatherAndReturn(c prometheus.Collector, metricName string) (*dto.MetricFamily, error) {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		return nil, err
	}

	mf, err := reg.Gather()
	if err != nil {
		return nil, err
	}

	for _, m := range mf {
		if m.GetName() == metricName {
			return m, nil
		}
	}

	return nil, fmt.Errorf("not found")
}

func PrometheusFilterLabelPair(pairs []*dto.LabelPair, name string) *dto.LabelPair {
	for _, p := range pairs {
		if p.GetName() == name {
			return p
		}
	}

	return nil
}
