package metrics

// Backend identifies a metrics export backend.
type Backend string

const (
	PrometheusBackend Backend = "prometheus"
	OTLPBackend       Backend = "otlp"
)

// BackendCfg configures one export backend.
type BackendCfg struct {
	Backend  Backend
	Endpoint string
	Insecure bool
}

// Config holds the meter provider configuration.
type Config struct {
	ServiceName string
	Backends    []BackendCfg
}

// OptionFn configures NewMetricProvider.
type OptionFn func(config Config) Config

// WithServiceName sets the service resource attribute.
func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}

// WithBackend adds an export backend.
func WithBackend(backend BackendCfg) OptionFn {
	return func(config Config) Config {
		config.Backends = append(config.Backends, backend)
		return config
	}
}

// WithPrometheus adds the Prometheus pull backend.
func WithPrometheus() OptionFn {
	return WithBackend(BackendCfg{Backend: PrometheusBackend})
}
