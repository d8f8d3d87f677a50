package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOTLPEndpoint(t *testing.T) {
	tests := []struct {
		raw  string
		want otlpEndpoint
	}{
		{raw: "http://collector:4318", want: otlpEndpoint{hostPort: "collector:4318", path: "/v1/traces", insecure: true}},
		{raw: "https://otel.example.com/custom/traces", want: otlpEndpoint{hostPort: "otel.example.com", path: "/custom/traces"}},
		{raw: "collector:4318", want: otlpEndpoint{hostPort: "collector:4318", path: "/v1/traces", insecure: true}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseOTLPEndpoint(tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOTLPEndpoint_Rejects(t *testing.T) {
	for _, raw := range []string{"", "grpc://collector:4317", "collector:4318/v1/traces", "http://"} {
		_, err := parseOTLPEndpoint(raw)
		assert.Error(t, err, raw)
	}
}

func TestNewTracingConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")
	t.Setenv(AppEnvKey, "")

	cfg := NewTracingConfigFromEnv()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "tablebook", cfg.ServiceName)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:4318", cfg.Endpoint)
	assert.Equal(t, 0.25, cfg.SampleRatio)
}

func TestSampleRatio_FallsBackToAlways(t *testing.T) {
	for _, raw := range []string{"", "abc", "-0.1", "1.5"} {
		assert.Equal(t, 1.0, sampleRatio(raw), raw)
	}
	assert.Equal(t, 0.0, sampleRatio("0"))
}

func TestSetupTracing_DisabledReturnsNilShutdown(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "false")

	shutdown, err := SetupTracing(quietLogger())

	assert.NoError(t, err)
	assert.Nil(t, shutdown)
}

func TestSetupTracing_BadEndpoint(t *testing.T) {
	_, err := setupTracing(quietLogger(), &TracingConfig{Enabled: true, Endpoint: "grpc://collector:4317", SampleRatio: 1})

	assert.Error(t, err)
}
