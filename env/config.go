package env

// Config contains the configurations which are controlled by the ENV vars.
type Config struct {
	EnabledProviders []string `envconfig:"ENABLED_PROVIDERS" default:"hetzner"`
}
