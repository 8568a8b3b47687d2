package hetzner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

const (
	serverTypesPayload = `{
		"server_types": [
			{"id": 1, "name": "cx22", "description": "CX22", "cores": 2, "memory": 4.0,
			 "disk": 40, "storage_type": "local", "cpu_type": "shared", "architecture": "x86"},
			{"id": 2, "name": "cax11", "description": "CAX11", "cores": 2, "memory": 4.0,
			 "disk": 40, "storage_type": "local", "cpu_type": "shared", "architecture": "arm",
			 "deprecation": {"announced": "2025-01-01T00:00:00Z", "unavailable_after": "2026-01-01T00:00:00Z"}},
			{"id": 3, "name": "unpriced", "description": "no price sheet entry", "cores": 1, "memory": 2.0,
			 "disk": 20, "storage_type": "local", "cpu_type": "shared", "architecture": "x86"}
		],
		"meta": {"pagination": {"next_page": null}}
	}`

	lbTypesPayload = `{
		"load_balancer_types": [
			{"id": 1, "name": "lb11", "description": "LB11", "max_connections": 10000,
			 "max_services": 5, "max_targets": 25, "max_assigned_certificates": 10},
			{"id": 2, "name": "lb-free", "description": "zero priced", "max_connections": 1,
			 "max_services": 1, "max_targets": 1, "max_assigned_certificates": 1}
		],
		"meta": {"pagination": {"next_page": null}}
	}`

	locationsPayload = `{
		"locations": [
			{"id": 1, "name": "fsn1", "description": "Falkenstein DC Park 1", "country": "DE", "city": "Falkenstein", "network_zone": "eu-central"},
			{"id": 2, "name": "ash", "description": "Ashburn, VA", "country": "US", "city": "Ashburn", "network_zone": "us-east"},
			{"id": 3, "name": "xyz1", "description": "Somewhere new", "country": "Atlantis", "city": "", "network_zone": "eu-central"}
		],
		"meta": {"pagination": {"next_page": null}}
	}`

	pricingPayload = `{
		"pricing": {
			"currency": "EUR",
			"primary_ips": [
				{"type": "ipv4", "prices": [{"location": "fsn1", "price_monthly": {"net": "0.5000000000", "gross": "0.5950"}}]}
			],
			"server_types": [
				{"id": 1, "name": "cx22", "prices": [
					{"location": "fsn1",
					 "price_hourly": {"net": "0.0060000000", "gross": "0.0071"},
					 "price_monthly": {"net": "3.9900000000", "gross": "4.75"},
					 "included_traffic": 20, "price_per_tb_traffic": {"net": "1.0000000000", "gross": "1.19"}},
					{"location": "ash",
					 "price_hourly": {"net": "0.0080000000", "gross": "0.0095"},
					 "price_monthly": {"net": "4.9900000000", "gross": "5.94"},
					 "included_traffic": 20, "price_per_tb_traffic": {"net": "1.0000000000", "gross": "1.19"}}
				]},
				{"id": 2, "name": "cax11", "prices": [
					{"location": "fsn1",
					 "price_hourly": {"net": "0.0050000000", "gross": "0.0059"},
					 "price_monthly": {"net": "3.2900000000", "gross": "3.92"},
					 "included_traffic": 20, "price_per_tb_traffic": {"net": "1.0000000000", "gross": "1.19"}}
				]}
			],
			"load_balancer_types": [
				{"id": 1, "name": "lb11", "prices": [
					{"location": "fsn1",
					 "price_hourly": {"net": "0.0080000000", "gross": "0.0095"},
					 "price_monthly": {"net": "5.3900000000", "gross": "6.41"}}
				]},
				{"id": 2, "name": "lb-free", "prices": [
					{"location": "fsn1",
					 "price_hourly": {"net": "0", "gross": "0"},
					 "price_monthly": {"net": "0", "gross": "0"}}
				]}
			]
		}
	}`
)

func newFakeAPI(g gomega.Gomega) *httptest.Server {
	router := mux.NewRouter()

	serve := func(payload string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			g.Expect(r.Header.Get("Authorization")).To(gomega.Equal("Bearer test-token"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(payload))
		}
	}

	router.HandleFunc("/server_types", serve(serverTypesPayload))
	router.HandleFunc("/load_balancer_types", serve(lbTypesPayload))
	router.HandleFunc("/locations", serve(locationsPayload))
	router.HandleFunc("/pricing", serve(pricingPayload))

	return httptest.NewServer(router)
}

func newTestFetcher(baseURL string) *Fetcher {
	f := NewFetcher(&Config{
		APIToken:    "test-token",
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		Retries:     1,
		RetryDelay:  time.Millisecond,
		EnableCloud: true,
	}, zap.NewNop().Sugar())
	f.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	return f
}

func recordByInstanceType(records []schema.RawRecord, name string) schema.RawRecord {
	for _, r := range records {
		if r.String("instanceType") == name {
			return r
		}
	}

	return nil
}

func TestFetchCloudServers(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	srv := newFakeAPI(g)
	defer srv.Close()

	records, err := newTestFetcher(srv.URL).Fetch(context.Background())
	g.Expect(err).Should(gomega.BeNil())

	// cx22, cax11 servers + lb11; unpriced server and zero-priced LB skipped
	g.Expect(records).To(gomega.HaveLen(3))

	cx22 := recordByInstanceType(records, "cx22")
	g.Expect(cx22).NotTo(gomega.BeNil())
	g.Expect(cx22.String("type")).To(gomega.Equal("cloud-server"))

	// minimum across locations is the default price
	hourly, _ := cx22.Float("priceEUR_hourly_net")
	g.Expect(hourly).To(gomega.BeNumerically("~", 0.006, 1e-9))

	priceRange := cx22["priceRange"].(map[string]any)
	hourlyBand := priceRange["hourly"].(map[string]any)
	g.Expect(hourlyBand["hasVariation"]).To(gomega.BeTrue())
	g.Expect(hourlyBand["max"]).To(gomega.BeNumerically("~", 0.008, 1e-9))

	regional := cx22["regionalPricing"].([]any)
	g.Expect(regional).To(gomega.HaveLen(2))

	details := cx22["locationDetails"].([]any)
	g.Expect(details).To(gomega.HaveLen(2))
	fsn := details[0].(map[string]any)
	g.Expect(fsn["country"]).To(gomega.Equal("Germany"))
	g.Expect(fsn["region"]).To(gomega.Equal("Saxony"))
}

func TestFetchComputesIPv6OnlyOption(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	srv := newFakeAPI(g)
	defer srv.Close()

	records, err := newTestFetcher(srv.URL).Fetch(context.Background())
	g.Expect(err).Should(gomega.BeNil())

	cx22 := recordByInstanceType(records, "cx22")
	options := cx22["networkOptions"].(map[string]any)

	ipv6 := options[schema.NetworkIPv6Only].(map[string]any)
	g.Expect(ipv6["available"]).To(gomega.BeTrue())
	// 3.99 - 0.50 primary IP cost
	g.Expect(ipv6["monthly"]).To(gomega.BeNumerically("~", 3.49, 1e-9))
	g.Expect(ipv6["hourly"]).To(gomega.BeNumerically("~", 3.49/hoursPerMonth, 1e-9))
	g.Expect(ipv6["savings"]).To(gomega.BeNumerically("~", 0.50, 1e-9))

	ipv4 := options[schema.NetworkIPv4IPv6].(map[string]any)
	g.Expect(ipv4["available"]).To(gomega.BeTrue())
	g.Expect(ipv4["monthly"]).To(gomega.BeNumerically("~", 3.99, 1e-9))

	g.Expect(cx22["defaultNetworkType"]).To(gomega.Equal(schema.NetworkIPv4IPv6))
	g.Expect(cx22["supportsIPv6Only"]).To(gomega.BeTrue())
}

func TestFetchDeprecatedServerTypeFlagged(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	srv := newFakeAPI(g)
	defer srv.Close()

	records, err := newTestFetcher(srv.URL).Fetch(context.Background())
	g.Expect(err).Should(gomega.BeNil())

	cax11 := recordByInstanceType(records, "cax11")
	g.Expect(cax11.Bool("deprecated")).To(gomega.BeTrue())
}

func TestFetchLoadBalancers(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	srv := newFakeAPI(g)
	defer srv.Close()

	records, err := newTestFetcher(srv.URL).Fetch(context.Background())
	g.Expect(err).Should(gomega.BeNil())

	lb11 := recordByInstanceType(records, "lb11")
	g.Expect(lb11).NotTo(gomega.BeNil())
	g.Expect(lb11.String("type")).To(gomega.Equal("cloud-loadbalancer"))
	g.Expect(lb11.Has("regionalPricing")).To(gomega.BeFalse())
	g.Expect(lb11.Has("networkOptions")).To(gomega.BeFalse())

	g.Expect(recordByInstanceType(records, "lb-free")).To(gomega.BeNil())
}

func TestFetchRequiresToken(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	f := NewFetcher(&Config{EnableCloud: true}, zap.NewNop().Sugar())

	_, err := f.Fetch(context.Background())
	g.Expect(err).Should(gomega.HaveOccurred())
	g.Expect(err.Error()).To(gomega.ContainSubstring("HETZNER_API_TOKEN"))
}

func TestFetchSurfacesAPIError(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL).Fetch(context.Background())
	g.Expect(err).Should(gomega.HaveOccurred())
	g.Expect(err.Error()).To(gomega.ContainSubstring("401"))
}

func TestFetchDedicatedCatalog(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	f := NewFetcher(&Config{
		EnableCloud:     false,
		EnableDedicated: true,
	}, zap.NewNop().Sugar())

	records, err := f.Fetch(context.Background())
	g.Expect(err).Should(gomega.BeNil())
	g.Expect(records).To(gomega.HaveLen(4))

	ax41 := recordByInstanceType(records, "AX41-NVMe")
	g.Expect(ax41).NotTo(gomega.BeNil())
	g.Expect(ax41.String("type")).To(gomega.Equal("dedicated-server"))
	g.Expect(ax41.String("platform")).To(gomega.Equal("dedicated"))

	monthly, _ := ax41.Float("priceEUR_monthly_net")
	g.Expect(monthly).To(gomega.BeNumerically("==", 39.0))

	hourly, _ := ax41.Float("priceEUR_hourly_net")
	g.Expect(hourly).To(gomega.BeNumerically("~", 39.0/hoursPerMonth, 1e-9))
}

func TestLocationMapFallsBackToAPIData(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	m := locationMap([]Location{
		{Name: "fsn1", Country: "DE", City: "Falkenstein"},
		{Name: "xyz1", Country: "Atlantis", Description: "Somewhere new"},
	})

	g.Expect(m["fsn1"].Region).To(gomega.Equal("Saxony"))
	g.Expect(m["xyz1"].CountryCode).To(gomega.Equal("AT"))
	g.Expect(m["xyz1"].City).To(gomega.Equal("xyz1"))
	g.Expect(m["xyz1"].Region).To(gomega.Equal("Somewhere new"))
}

func TestServerTypesPagination(t *testing.T) {
	g := gomega.NewGomegaWithT(t)

	pageOne := `{
		"server_types": [{"id": 1, "name": "cx22", "cores": 2, "memory": 4.0, "disk": 40}],
		"meta": {"pagination": {"next_page": 2}}
	}`
	pageTwo := `{
		"server_types": [{"id": 2, "name": "cx32", "cores": 4, "memory": 8.0, "disk": 80}],
		"meta": {"pagination": {"next_page": null}}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(pageTwo))
			return
		}
		_, _ = w.Write([]byte(pageOne))
	}))
	defer srv.Close()

	client := NewClient(&Config{
		APIToken:   "test-token",
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		Retries:    1,
		RetryDelay: time.Millisecond,
	}, zap.NewNop().Sugar())

	types, err := client.ServerTypes(context.Background())
	g.Expect(err).Should(gomega.BeNil())
	g.Expect(types).To(gomega.HaveLen(2))
	g.Expect(types[1].Name).To(gomega.Equal("cx32"))
}
