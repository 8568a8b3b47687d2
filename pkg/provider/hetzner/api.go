package hetzner

import "strconv"

// Response shapes of the Hetzner Cloud API (api.hetzner.cloud/v1). Only the
// fields the fetcher reads are mapped.

type serverTypesResponse struct {
	ServerTypes []ServerType `json:"server_types"`
	Meta        meta         `json:"meta"`
}

type loadBalancerTypesResponse struct {
	LoadBalancerTypes []LoadBalancerType `json:"load_balancer_types"`
	Meta              meta               `json:"meta"`
}

type locationsResponse struct {
	Locations []Location `json:"locations"`
	Meta      meta       `json:"meta"`
}

type pricingResponse struct {
	Pricing Pricing `json:"pricing"`
}

type meta struct {
	Pagination pagination `json:"pagination"`
}

type pagination struct {
	NextPage *int `json:"next_page"`
}

// ServerType is one cloud server SKU.
type ServerType struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Cores        int              `json:"cores"`
	Memory       float64          `json:"memory"`
	Disk         float64          `json:"disk"`
	StorageType  string           `json:"storage_type"`
	CPUType      string           `json:"cpu_type"`
	Architecture string           `json:"architecture"`
	Deprecation  *deprecationInfo `json:"deprecation"`
}

func (s ServerType) Deprecated() bool {
	return s.Deprecation != nil
}

type deprecationInfo struct {
	Announced        string `json:"announced"`
	UnavailableAfter string `json:"unavailable_after"`
}

// LoadBalancerType is one load balancer SKU.
type LoadBalancerType struct {
	ID                      int64  `json:"id"`
	Name                    string `json:"name"`
	Description             string `json:"description"`
	MaxConnections          int    `json:"max_connections"`
	MaxServices             int    `json:"max_services"`
	MaxTargets              int    `json:"max_targets"`
	MaxAssignedCertificates int    `json:"max_assigned_certificates"`
}

// Location is one Hetzner datacenter location.
type Location struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Country     string `json:"country"`
	City        string `json:"city"`
	NetworkZone string `json:"network_zone"`
}

// Pricing is the /pricing payload: per-SKU, per-location net prices.
type Pricing struct {
	Currency          string           `json:"currency"`
	ServerTypes       []skuPricing     `json:"server_types"`
	LoadBalancerTypes []skuPricing     `json:"load_balancer_types"`
	PrimaryIPs        []primaryIPPrice `json:"primary_ips"`
}

type skuPricing struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Prices []locationPrice `json:"prices"`
}

type locationPrice struct {
	Location        string  `json:"location"`
	PriceHourly     amount  `json:"price_hourly"`
	PriceMonthly    amount  `json:"price_monthly"`
	IncludedTraffic float64 `json:"included_traffic"`
	PricePerTB      amount  `json:"price_per_tb_traffic"`
}

type primaryIPPrice struct {
	Type   string `json:"type"`
	Prices []struct {
		Location     string `json:"location"`
		PriceMonthly amount `json:"price_monthly"`
	} `json:"prices"`
}

// amount is a net/gross pair; the API serializes values as decimal strings.
type amount struct {
	Net   string `json:"net"`
	Gross string `json:"gross"`
}

func (a amount) NetFloat() float64 {
	v, err := strconv.ParseFloat(a.Net, 64)
	if err != nil {
		return 0
	}

	return v
}
