package process

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/onsi/gomega"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/currency"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/provider"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/queue"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

type fakeFetcher struct {
	name     schema.Provider
	currency string
	records  []schema.RawRecord
	err      error
}

func (f *fakeFetcher) Name() schema.Provider { return f.name }

func (f *fakeFetcher) NativeCurrency() string {
	if f.currency == "" {
		return currency.USD
	}

	return f.currency
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]schema.RawRecord, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.records, nil
}

func validRawRecord(name string, hourlyUSD float64) schema.RawRecord {
	return schema.RawRecord{
		"type":               string(schema.KindCloudServer),
		"instanceType":       name,
		"priceUSD_hourly":    hourlyUSD,
		"priceUSD_monthly":   hourlyUSD * 730.44,
		"vCPU":               2.0,
		"memoryGiB":          4.0,
		"regions":            []any{"fsn1"},
		"source":             "test_fixture",
		"lastUpdated":        "2025-06-01T12:00:00Z",
		"defaultNetworkType": schema.NetworkIPv4IPv6,
	}
}

func offlineRates() *currency.Source {
	return currency.NewSource(&currency.Config{
		URL:        "http://127.0.0.1:1",
		Timeout:    100 * time.Millisecond,
		CacheTTL:   time.Minute,
		Retries:    1,
		RetryDelay: time.Millisecond,
	}, zap.NewNop().Sugar())
}

func newTestProcess(t *testing.T, fetchers ...provider.Fetcher) *Process {
	t.Helper()

	byName := make(map[schema.Provider]provider.Fetcher, len(fetchers))
	for _, f := range fetchers {
		byName[f.Name()] = f
	}

	logger := zap.NewNop().Sugar()

	return &Process{
		Fetchers:        byName,
		Queue:           queue.NewQueue("test-providers"),
		Rates:           offlineRates(),
		Writer:          NewWriter(t.TempDir(), logger),
		Cache:           cache.New(cache.NoExpiration, 0),
		ScrapeInterval:  time.Hour,
		WorkersPoolSize: 1,
		Logger:          logger,
		errs:            make(map[schema.Provider]string),
		reported:        make(map[schema.Provider]bool),
	}
}

func readSummary(g gomega.Gomega, dir string) schema.Summary {
	data, err := os.ReadFile(filepath.Join(dir, summaryFile))
	g.Expect(err).Should(gomega.BeNil())

	var summary schema.Summary
	g.Expect(json.Unmarshal(data, &summary)).Should(gomega.Succeed())

	return summary
}

func TestProcessProviderWritesSnapshot(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	p := newTestProcess(t, &fakeFetcher{
		name: schema.ProviderHetzner,
		records: []schema.RawRecord{
			validRawRecord("cx22", 0.0063),
			validRawRecord("cx32", 0.0119),
		},
	})

	requeue := p.processProvider(string(schema.ProviderHetzner), 0)
	g.Expect(requeue).To(gomega.BeTrue())

	obj, found := p.Cache.Get(string(schema.ProviderHetzner))
	g.Expect(found).To(gomega.BeTrue())

	instances := obj.([]schema.CloudInstance)
	g.Expect(instances).To(gomega.HaveLen(2))
	g.Expect(instances[0].Provider).To(gomega.Equal(schema.ProviderHetzner))

	// single provider, so the cycle completed and all files exist
	data, err := os.ReadFile(filepath.Join(p.Writer.OutputDir, combinedFile))
	g.Expect(err).Should(gomega.BeNil())

	var combined []schema.CloudInstance
	g.Expect(json.Unmarshal(data, &combined)).Should(gomega.Succeed())
	g.Expect(combined).To(gomega.HaveLen(2))

	_, err = os.Stat(filepath.Join(p.Writer.OutputDir, "hetzner.json"))
	g.Expect(err).Should(gomega.BeNil())

	summary := readSummary(g, p.Writer.OutputDir)
	g.Expect(summary.TotalInstances).To(gomega.Equal(2))
	g.Expect(summary.ProvidersCount).To(gomega.Equal(1))
	g.Expect(summary.ByProvider["hetzner"]).To(gomega.Equal(2))
	g.Expect(summary.ByType["cloud-server"]).To(gomega.Equal(2))
	g.Expect(summary.PriceRange.Min).To(gomega.BeNumerically("~", 0.0063, 1e-9))
	g.Expect(summary.PriceRange.Max).To(gomega.BeNumerically("~", 0.0119, 1e-9))
	g.Expect(summary.Errors).To(gomega.BeEmpty())
}

func TestProcessProviderFailureKeepsOthers(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	p := newTestProcess(t,
		&fakeFetcher{
			name:    schema.ProviderHetzner,
			records: []schema.RawRecord{validRawRecord("cx22", 0.0063)},
		},
		&fakeFetcher{
			name: schema.ProviderAzure,
			err:  context.DeadlineExceeded,
		},
	)

	g.Expect(p.processProvider(string(schema.ProviderHetzner), 0)).To(gomega.BeTrue())
	g.Expect(p.processProvider(string(schema.ProviderAzure), 0)).To(gomega.BeTrue())

	summary := readSummary(g, p.Writer.OutputDir)
	g.Expect(summary.TotalInstances).To(gomega.Equal(1))
	g.Expect(summary.ByProvider["hetzner"]).To(gomega.Equal(1))
	g.Expect(summary.Errors).To(gomega.HaveKey("azure"))

	// azure gets no snapshot split, hetzner does
	_, err := os.Stat(filepath.Join(p.Writer.OutputDir, "azure.json"))
	g.Expect(os.IsNotExist(err)).To(gomega.BeTrue())

	_, err = os.Stat(filepath.Join(p.Writer.OutputDir, "hetzner.json"))
	g.Expect(err).Should(gomega.BeNil())
}

func TestProcessProviderFailureKeepsCachedCatalog(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	p := newTestProcess(t, &fakeFetcher{
		name: schema.ProviderHetzner,
		err:  context.DeadlineExceeded,
	})

	stale := []schema.CloudInstance{{Provider: schema.ProviderHetzner, InstanceType: "cx22", PriceUSDHourly: 0.0063}}
	p.Cache.Set(string(schema.ProviderHetzner), stale, cache.NoExpiration)

	g.Expect(p.processProvider(string(schema.ProviderHetzner), 0)).To(gomega.BeTrue())

	summary := readSummary(g, p.Writer.OutputDir)
	g.Expect(summary.TotalInstances).To(gomega.Equal(1))
	g.Expect(summary.Errors).To(gomega.HaveKey("hetzner"))
}

func TestProcessProviderDropsBadRecords(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	invalid := validRawRecord("bad-price", 0.01)
	invalid["priceUSD_hourly"] = -1.0

	unmappable := validRawRecord("bad-network", 0.01)
	unmappable["networkOptions"] = []any{"not", "a", "config"}

	p := newTestProcess(t, &fakeFetcher{
		name: schema.ProviderHetzner,
		records: []schema.RawRecord{
			validRawRecord("cx22", 0.0063),
			invalid,
			unmappable,
		},
	})

	g.Expect(p.processProvider(string(schema.ProviderHetzner), 0)).To(gomega.BeTrue())

	obj, _ := p.Cache.Get(string(schema.ProviderHetzner))
	instances := obj.([]schema.CloudInstance)
	g.Expect(instances).To(gomega.HaveLen(1))
	g.Expect(instances[0].InstanceType).To(gomega.Equal("cx22"))
}

func TestProcessProviderUnknownName(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	p := newTestProcess(t, &fakeFetcher{name: schema.ProviderHetzner})

	g.Expect(p.processProvider("digitalocean", 0)).To(gomega.BeFalse())
	g.Expect(p.processProvider("  ", 0)).To(gomega.BeFalse())
}

func TestWriterReplacesAtomically(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	dir := t.TempDir()
	w := NewWriter(dir, zap.NewNop().Sugar())

	first := map[schema.Provider][]schema.CloudInstance{
		schema.ProviderHetzner: {{Provider: schema.ProviderHetzner, InstanceType: "cx22"}},
	}
	g.Expect(w.Write(first, BuildSummary(first, nil, time.Now()))).Should(gomega.Succeed())

	second := map[schema.Provider][]schema.CloudInstance{
		schema.ProviderHetzner: {
			{Provider: schema.ProviderHetzner, InstanceType: "cx22"},
			{Provider: schema.ProviderHetzner, InstanceType: "cx32"},
		},
	}
	g.Expect(w.Write(second, BuildSummary(second, nil, time.Now()))).Should(gomega.Succeed())

	data, err := os.ReadFile(filepath.Join(dir, combinedFile))
	g.Expect(err).Should(gomega.BeNil())

	var combined []schema.CloudInstance
	g.Expect(json.Unmarshal(data, &combined)).Should(gomega.Succeed())
	g.Expect(combined).To(gomega.HaveLen(2))

	// no leftover temp files
	entries, err := os.ReadDir(dir)
	g.Expect(err).Should(gomega.BeNil())
	g.Expect(entries).To(gomega.HaveLen(3))
}

func TestFlattenOrdersByProviderThenType(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	results := map[schema.Provider][]schema.CloudInstance{
		schema.ProviderHetzner: {
			{Provider: schema.ProviderHetzner, InstanceType: "cx32"},
			{Provider: schema.ProviderHetzner, InstanceType: "cx22"},
		},
		schema.ProviderAWS: {
			{Provider: schema.ProviderAWS, InstanceType: "t3.micro"},
		},
	}

	combined := flatten(results)
	g.Expect(combined).To(gomega.HaveLen(3))
	g.Expect(combined[0].Provider).To(gomega.Equal(schema.ProviderAWS))
	g.Expect(combined[1].InstanceType).To(gomega.Equal("cx22"))
	g.Expect(combined[2].InstanceType).To(gomega.Equal("cx32"))
}

func TestBuildSummaryIgnoresZeroPrices(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	results := map[schema.Provider][]schema.CloudInstance{
		schema.ProviderHetzner: {
			{Provider: schema.ProviderHetzner, Kind: schema.KindCloudServer, InstanceType: "cx22", PriceUSDHourly: 0.0063},
			{Provider: schema.ProviderHetzner, Kind: schema.KindCloudVolume, InstanceType: "volume", PriceUSDHourly: 0},
		},
	}

	summary := BuildSummary(results, map[string]string{"gcp": "boom"}, time.Now())
	g.Expect(summary.TotalInstances).To(gomega.Equal(2))
	g.Expect(summary.PriceRange.Min).To(gomega.BeNumerically("~", 0.0063, 1e-9))
	g.Expect(summary.PriceRange.Max).To(gomega.BeNumerically("~", 0.0063, 1e-9))
	g.Expect(summary.ByType["cloud-server"]).To(gomega.Equal(1))
	g.Expect(summary.Errors["gcp"]).To(gomega.Equal("boom"))
	g.Expect(summary.ProviderFiles["hetzner"].File).To(gomega.Equal("hetzner.json"))
	g.Expect(summary.ProviderFiles["hetzner"].Count).To(gomega.Equal(2))
}
