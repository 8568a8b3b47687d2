package schema

// Provider identifies a supported cloud provider.
type Provider string

const (
	ProviderAWS     Provider = "aws"
	ProviderAzure   Provider = "azure"
	ProviderGCP     Provider = "gcp"
	ProviderHetzner Provider = "hetzner"
	ProviderOCI     Provider = "oci"
	ProviderOVH     Provider = "ovh"
)

// AllProviders lists every provider the pipeline knows about, implemented or not.
var AllProviders = []Provider{
	ProviderAWS,
	ProviderAzure,
	ProviderGCP,
	ProviderHetzner,
	ProviderOCI,
	ProviderOVH,
}

func (p Provider) Known() bool {
	for _, known := range AllProviders {
		if p == known {
			return true
		}
	}

	return false
}

func (p Provider) String() string {
	return string(p)
}

// InstanceKind is the service category of a priced offering.
type InstanceKind string

const (
	KindCloudServer         InstanceKind = "cloud-server"
	KindCloudLoadBalancer   InstanceKind = "cloud-loadbalancer"
	KindCloudVolume         InstanceKind = "cloud-volume"
	KindCloudNetwork        InstanceKind = "cloud-network"
	KindCloudFloatingIP     InstanceKind = "cloud-floating-ip"
	KindCloudSnapshot       InstanceKind = "cloud-snapshot"
	KindCloudCertificate    InstanceKind = "cloud-certificate"
	KindDedicatedServer     InstanceKind = "dedicated-server"
	KindDedicatedAuction    InstanceKind = "dedicated-auction"
	KindDedicatedStorage    InstanceKind = "dedicated-storage"
	KindDedicatedColocation InstanceKind = "dedicated-colocation"
)

var AllInstanceKinds = []InstanceKind{
	KindCloudServer,
	KindCloudLoadBalancer,
	KindCloudVolume,
	KindCloudNetwork,
	KindCloudFloatingIP,
	KindCloudSnapshot,
	KindCloudCertificate,
	KindDedicatedServer,
	KindDedicatedAuction,
	KindDedicatedStorage,
	KindDedicatedColocation,
}

func (k InstanceKind) Known() bool {
	for _, known := range AllInstanceKinds {
		if k == known {
			return true
		}
	}

	return false
}

func (k InstanceKind) String() string {
	return string(k)
}

// Platform distinguishes cloud from dedicated offerings for multi-platform providers.
const (
	PlatformCloud     = "cloud"
	PlatformDedicated = "dedicated"
)
