package hetzner

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/provider"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

const (
	// nativeCurrency is what the Hetzner price sheet is denominated in.
	nativeCurrency = "EUR"

	// hoursPerMonth amortizes monthly prices into hourly rates.
	hoursPerMonth = 730.44

	// fallbackPrimaryIPCost is the standard monthly net cost of an IPv4
	// primary IP, used when the price sheet does not report one.
	fallbackPrimaryIPCost = 0.50

	sourceCloudAPI  = "hetzner_cloud_api"
	sourceDedicated = "hetzner_sample_data"
)

// Fetcher collects Hetzner Cloud services (server types, load balancer
// types) and, when enabled, the dedicated catalog.
type Fetcher struct {
	client *Client
	config *Config
	logger *zap.SugaredLogger
	now    func() time.Time
}

var _ provider.Fetcher = &Fetcher{}

func NewFetcher(config *Config, logger *zap.SugaredLogger) *Fetcher {
	return &Fetcher{
		client: NewClient(config, logger),
		config: config,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (f *Fetcher) Name() schema.Provider {
	return schema.ProviderHetzner
}

func (f *Fetcher) NativeCurrency() string {
	return nativeCurrency
}

// Fetch collects all enabled Hetzner platforms. Cloud API access requires a
// token; the dedicated catalog does not.
func (f *Fetcher) Fetch(ctx context.Context) ([]schema.RawRecord, error) {
	var records []schema.RawRecord

	if f.config.EnableCloud {
		if f.config.APIToken == "" {
			return nil, errors.New("HETZNER_API_TOKEN not provided")
		}

		cloud, err := f.fetchCloud(ctx)
		if err != nil {
			return nil, err
		}

		records = append(records, cloud...)
	} else {
		f.namedLogger().Info("cloud services disabled")
	}

	if f.config.EnableDedicated {
		records = append(records, f.dedicatedCatalog()...)
	}

	f.namedLogger().Infof("collected %d hetzner services", len(records))

	return records, nil
}

func (f *Fetcher) fetchCloud(ctx context.Context) ([]schema.RawRecord, error) {
	serverTypes, err := f.client.ServerTypes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list server types")
	}

	lbTypes, err := f.client.LoadBalancerTypes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list load balancer types")
	}

	locations, err := f.client.Locations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list locations")
	}

	pricing, err := f.client.Pricing(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch pricing")
	}

	locMap := locationMap(locations)
	ipCost := primaryIPCost(pricing)

	var records []schema.RawRecord

	serverPricing := pricingByName(pricing.ServerTypes)
	for _, st := range serverTypes {
		prices, ok := serverPricing[st.Name]
		if !ok || len(prices) == 0 {
			f.namedLogger().Warnf("no pricing found for server type: %s", st.Name)
			continue
		}

		records = append(records, f.serverRecord(st, prices, locMap, ipCost))
	}

	lbPricing := pricingByName(pricing.LoadBalancerTypes)
	for _, lb := range lbTypes {
		prices, ok := lbPricing[lb.Name]
		if !ok || len(prices) == 0 {
			f.namedLogger().Warnf("no pricing found for load balancer type: %s", lb.Name)
			continue
		}

		record, ok := f.loadBalancerRecord(lb, prices, locMap)
		if ok {
			records = append(records, record)
		}
	}

	return records, nil
}

// serverRecord assembles one cloud-server raw record with per-location
// pricing, the min-across-locations default price, and both network options.
func (f *Fetcher) serverRecord(st ServerType, prices []locationPrice, locMap map[string]locationInfo, ipCost float64) schema.RawRecord {
	var (
		regionalPricing []any
		locationCodes   []string
	)

	minHourly, maxHourly := prices[0].PriceHourly.NetFloat(), prices[0].PriceHourly.NetFloat()
	minMonthly, maxMonthly := prices[0].PriceMonthly.NetFloat(), prices[0].PriceMonthly.NetFloat()

	for _, p := range prices {
		if p.Location == "" {
			continue
		}

		hourly := p.PriceHourly.NetFloat()
		monthly := p.PriceMonthly.NetFloat()

		minHourly = min(minHourly, hourly)
		maxHourly = max(maxHourly, hourly)
		minMonthly = min(minMonthly, monthly)
		maxMonthly = max(maxMonthly, monthly)

		locationCodes = append(locationCodes, p.Location)
		regionalPricing = append(regionalPricing, map[string]any{
			"location":             p.Location,
			"hourly_net":           hourly,
			"monthly_net":          monthly,
			"included_traffic":     p.IncludedTraffic,
			"traffic_price_per_tb": p.PricePerTB.NetFloat(),
		})
	}

	ipv6OnlyMonthly := max(0, minMonthly-ipCost)
	ipv6OnlyHourly := ipv6OnlyMonthly / hoursPerMonth

	record := schema.RawRecord{
		"platform":     schema.PlatformCloud,
		"type":         string(schema.KindCloudServer),
		"instanceType": st.Name,
		"description":  st.Description,
		"vCPU":         float64(st.Cores),
		"memoryGiB":    st.Memory,
		"diskType":     st.StorageType,
		"diskSizeGB":   st.Disk,
		"cpuType":      st.CPUType,
		"architecture": st.Architecture,

		"regions":         locationCodes,
		"locationDetails": locationDetails(locationCodes, locMap),
		"regionalPricing": regionalPricing,

		"priceEUR_hourly_net":  minHourly,
		"priceEUR_monthly_net": minMonthly,
		"priceRange": map[string]any{
			"hourly": map[string]any{
				"min": minHourly, "max": maxHourly, "hasVariation": minHourly != maxHourly,
			},
			"monthly": map[string]any{
				"min": minMonthly, "max": maxMonthly, "hasVariation": minMonthly != maxMonthly,
			},
		},

		"networkOptions": map[string]any{
			schema.NetworkIPv4IPv6: map[string]any{
				"available":   true,
				"hourly":      minHourly,
				"monthly":     minMonthly,
				"description": "IPv4 + IPv6 included",
			},
			schema.NetworkIPv6Only: map[string]any{
				"available":   ipv6OnlyMonthly > 0,
				"hourly":      ipv6OnlyHourly,
				"monthly":     ipv6OnlyMonthly,
				"savings":     ipCost,
				"description": fmt.Sprintf("IPv6-only (saves €%.2f/month)", ipCost),
			},
		},
		"defaultNetworkType": schema.NetworkIPv4IPv6,
		"supportsIPv6Only":   ipv6OnlyMonthly > 0,

		"deprecated":  st.Deprecated(),
		"source":      sourceCloudAPI,
		"lastUpdated": f.now().Format(time.RFC3339),
		"hetzner_metadata": map[string]any{
			"platform":            schema.PlatformCloud,
			"apiSource":           "cloud_api",
			"serviceCategory":     "compute",
			"ipv4PrimaryIPCost":   ipCost,
			"availableLocations":  len(locationCodes),
			"serverTypeId":        st.ID,
			"deprecationAnnounce": deprecationAnnounced(st),
		},
	}

	return record
}

// loadBalancerRecord assembles one cloud-loadbalancer raw record. LB pricing
// is uniform across locations, so no regionalPricing is emitted.
func (f *Fetcher) loadBalancerRecord(lb LoadBalancerType, prices []locationPrice, locMap map[string]locationInfo) (schema.RawRecord, bool) {
	hourly := prices[0].PriceHourly.NetFloat()
	monthly := prices[0].PriceMonthly.NetFloat()

	if hourly == 0 && monthly == 0 {
		return nil, false
	}

	var locationCodes []string

	for _, p := range prices {
		if p.Location != "" {
			locationCodes = append(locationCodes, p.Location)
		}
	}

	return schema.RawRecord{
		"platform":             schema.PlatformCloud,
		"type":                 string(schema.KindCloudLoadBalancer),
		"instanceType":         lb.Name,
		"description":          lb.Description,
		"priceEUR_hourly_net":  hourly,
		"priceEUR_monthly_net": monthly,
		"regions":              locationCodes,
		"locationDetails":      locationDetails(locationCodes, locMap),
		"source":               sourceCloudAPI,
		"lastUpdated":          f.now().Format(time.RFC3339),
		"hetzner_metadata": map[string]any{
			"platform":        schema.PlatformCloud,
			"apiSource":       "cloud_api",
			"serviceCategory": "networking",
			"maxConnections":  lb.MaxConnections,
			"maxServices":     lb.MaxServices,
			"maxTargets":      lb.MaxTargets,
			"maxCertificates": lb.MaxAssignedCertificates,
		},
	}, true
}

// dedicatedCatalog returns the static dedicated-server offerings. Robot API
// integration is pending; this mirrors the public AX line.
func (f *Fetcher) dedicatedCatalog() []schema.RawRecord {
	type dedicated struct {
		name       string
		cpu        string
		cores      int
		ramGiB     float64
		storage    string
		diskSizeGB float64
		monthly    float64
		datacenter string
	}

	catalog := []dedicated{
		{name: "AX41-NVMe", cpu: "AMD Ryzen 5 3600", cores: 6, ramGiB: 64, storage: "2x 512 GB NVMe SSD", diskSizeGB: 1024, monthly: 39.0, datacenter: "FSN1-DC14"},
		{name: "AX51-NVMe", cpu: "AMD Ryzen 7 3700X", cores: 8, ramGiB: 64, storage: "2x 512 GB NVMe SSD", diskSizeGB: 1024, monthly: 49.0, datacenter: "FSN1-DC14"},
		{name: "AX61-NVMe", cpu: "AMD Ryzen 7 3700X", cores: 8, ramGiB: 64, storage: "2x 1 TB NVMe SSD", diskSizeGB: 2048, monthly: 59.0, datacenter: "NBG1-DC3"},
		{name: "AX101", cpu: "AMD Ryzen 9 5950X", cores: 16, ramGiB: 128, storage: "2x 3.84 TB NVMe SSD", diskSizeGB: 7680, monthly: 129.0, datacenter: "FSN1-DC14"},
	}

	records := make([]schema.RawRecord, 0, len(catalog))

	for _, d := range catalog {
		city := "Nuremberg"
		if d.datacenter[:3] == "FSN" {
			city = "Falkenstein"
		}

		records = append(records, schema.RawRecord{
			"platform":             schema.PlatformDedicated,
			"type":                 string(schema.KindDedicatedServer),
			"instanceType":         d.name,
			"description":          fmt.Sprintf("Dedicated server %s - %s", d.name, d.cpu),
			"vCPU":                 float64(d.cores),
			"memoryGiB":            d.ramGiB,
			"diskType":             "NVMe SSD",
			"diskSizeGB":           d.diskSizeGB,
			"cpuType":              d.cpu,
			"priceEUR_monthly_net": d.monthly,
			"priceEUR_hourly_net":  d.monthly / hoursPerMonth,
			"regions":              []string{"Germany"},
			"locationDetails": []any{
				map[string]any{
					"code":        d.datacenter,
					"city":        city,
					"country":     "Germany",
					"countryCode": "DE",
					"region":      "Germany",
				},
			},
			"source":      sourceDedicated,
			"lastUpdated": f.now().Format(time.RFC3339),
			"hetzner_metadata": map[string]any{
				"platform":        schema.PlatformDedicated,
				"apiSource":       "sample_data",
				"serviceCategory": "dedicated_server",
				"datacenter":      d.datacenter,
				"storage":         d.storage,
			},
		})
	}

	return records
}

func pricingByName(entries []skuPricing) map[string][]locationPrice {
	out := make(map[string][]locationPrice, len(entries))
	for _, e := range entries {
		out[e.Name] = e.Prices
	}

	return out
}

// primaryIPCost reads the monthly net price of an IPv4 primary IP from the
// price sheet, falling back to the standard rate.
func primaryIPCost(pricing Pricing) float64 {
	for _, ip := range pricing.PrimaryIPs {
		if ip.Type != "ipv4" {
			continue
		}

		for _, p := range ip.Prices {
			if v := p.PriceMonthly.NetFloat(); v > 0 {
				return v
			}
		}
	}

	return fallbackPrimaryIPCost
}

func locationDetails(codes []string, locMap map[string]locationInfo) []any {
	details := make([]any, 0, len(codes))

	for _, code := range codes {
		info := locMap[code]

		city := info.City
		if city == "" {
			city = code
		}

		country := info.Country
		if country == "" {
			country = "Unknown"
		}

		countryCode := info.CountryCode
		if countryCode == "" {
			countryCode = "XX"
		}

		region := info.Region
		if region == "" {
			region = "Unknown"
		}

		details = append(details, map[string]any{
			"code":        code,
			"city":        city,
			"country":     country,
			"countryCode": countryCode,
			"region":      region,
		})
	}

	return details
}

func deprecationAnnounced(st ServerType) string {
	if st.Deprecation == nil {
		return ""
	}

	return st.Deprecation.Announced
}

func (f *Fetcher) namedLogger() *zap.SugaredLogger {
	return f.logger.Named("hetzner-fetcher").With("component", "hetzner")
}
