package observability

import "atscore/internal/config"

// GetObservabilityConfig derives the observability settings from the
// application config. version is used when no service version is set.
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:    "atscore",
			ServiceVersion: version,
			SampleRate:     1.0,
		}
	}

	obsConfig := cfg.Observability

	serviceVersion := obsConfig.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	sampleRate := obsConfig.SampleRate
	if obsConfig.Tracing.SampleRate > 0 {
		sampleRate = obsConfig.Tracing.SampleRate
	}

	return ObservabilityConfig{
		ServiceName:     obsConfig.ServiceName,
		ServiceVersion:  serviceVersion,
		ServiceInstance: obsConfig.ServiceInstance,
		Enabled:         obsConfig.Enabled,
		TracingEnabled:  obsConfig.Tracing.Enabled,
		MetricsEnabled:  obsConfig.Metrics.Enabled,
		ConsoleOutput:   obsConfig.ConsoleOutput || obsConfig.Console.Enabled,
		PrettyPrint:     obsConfig.Console.PrettyPrint,
		SampleRate:      sampleRate,
		Interval:        obsConfig.Metrics.CollectionInterval,
		Prometheus:      GetPrometheusConfig(cfg),
		OTLP:            obsConfig.OTLP,
	}
}
