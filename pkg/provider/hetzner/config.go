package hetzner

import "time"

// Config controls the Hetzner fetcher. The Cloud API needs a read-only API
// token; the dedicated catalog is opt-in.
type Config struct {
	APIToken        string        `envconfig:"HETZNER_API_TOKEN"`
	BaseURL         string        `envconfig:"HETZNER_API_URL" default:"https://api.hetzner.cloud/v1"`
	Timeout         time.Duration `envconfig:"HETZNER_TIMEOUT" default:"30s"`
	Retries         uint          `envconfig:"HETZNER_RETRY" default:"3"`
	RetryDelay      time.Duration `envconfig:"HETZNER_RETRY_DELAY" default:"5s"`
	EnableCloud     bool          `envconfig:"HETZNER_ENABLE_CLOUD" default:"true"`
	EnableDedicated bool          `envconfig:"HETZNER_ENABLE_DEDICATED" default:"false"`
}
