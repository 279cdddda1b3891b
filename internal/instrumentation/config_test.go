package instrumentation

import (
	"strings"
	"testing"
)

func clearInstrumentationEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OTEL_SERVICE_NAME",
		"INSTRUMENTATION_ENABLED",
		"METRICS_EXPORTER",
		"TRACING_EXPORTER",
		"OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	clearInstrumentationEnv(t)

	config := DefaultConfig()

	if config.ServiceName != "slotbook" {
		t.Errorf("ServiceName = %q, want slotbook", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("Enabled should default to true")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterPrometheus)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterNone)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %f, want 0.1", config.TraceSamplingRate)
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	clearInstrumentationEnv(t)
	t.Setenv("OTEL_SERVICE_NAME", "slotbook-staging")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")

	config := DefaultConfig()

	if config.ServiceName != "slotbook-staging" {
		t.Errorf("ServiceName = %q", config.ServiceName)
	}
	if config.Enabled {
		t.Error("Enabled should honor INSTRUMENTATION_ENABLED=false")
	}
	if config.MetricsExporter != ExporterStdout {
		t.Errorf("MetricsExporter = %q", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterStdout {
		t.Errorf("TracingExporter = %q", config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("TraceSamplingRate = %f, want 0.5", config.TraceSamplingRate)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		errContains string
	}{
		{
			name: "valid config with prometheus",
			config: Config{
				ServiceName:     "slotbook",
				Enabled:         true,
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterNone,
			},
		},
		{
			name: "valid config with otlp",
			config: Config{
				ServiceName:     "slotbook",
				Enabled:         true,
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterOTLP,
				OTLPEndpoint:    "localhost:4318",
			},
		},
		{
			name:        "negative sampling rate",
			config:      Config{TraceSamplingRate: -0.5},
			errContains: "sampling rate",
		},
		{
			name:        "sampling rate above 1",
			config:      Config{TraceSamplingRate: 1.5},
			errContains: "sampling rate",
		},
		{
			name:        "invalid metrics exporter",
			config:      Config{MetricsExporter: "invalid"},
			errContains: "invalid metrics exporter",
		},
		{
			name:        "invalid tracing exporter",
			config:      Config{TracingExporter: "invalid"},
			errContains: "invalid tracing exporter",
		},
		{
			name:        "otlp tracing without endpoint",
			config:      Config{TracingExporter: ExporterOTLP},
			errContains: "OTLP endpoint is required",
		},
		{
			name:        "otlp metrics without endpoint",
			config:      Config{MetricsExporter: ExporterOTLP},
			errContains: "OTLP endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("SLOTBOOK_TEST_VAR", "set-value")

	if v := getEnvOrDefault("SLOTBOOK_TEST_VAR", "default"); v != "set-value" {
		t.Errorf("getEnvOrDefault() = %q, want set-value", v)
	}
	if v := getEnvOrDefault("SLOTBOOK_TEST_UNSET", "default"); v != "default" {
		t.Errorf("getEnvOrDefault() = %q, want default", v)
	}
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	t.Setenv("SLOTBOOK_TEST_BOOL", "true")
	t.Setenv("SLOTBOOK_TEST_BOOL_INVALID", "not_a_bool")

	if !getEnvBoolOrDefault("SLOTBOOK_TEST_BOOL", false) {
		t.Error("expected true from env")
	}
	if !getEnvBoolOrDefault("SLOTBOOK_TEST_BOOL_INVALID", true) {
		t.Error("invalid bool should fall back to the default")
	}
	if !getEnvBoolOrDefault("SLOTBOOK_TEST_BOOL_UNSET", true) {
		t.Error("unset var should fall back to the default")
	}
}

func TestGetEnvFloatOrDefault(t *testing.T) {
	t.Setenv("SLOTBOOK_TEST_FLOAT", "0.75")
	t.Setenv("SLOTBOOK_TEST_FLOAT_INVALID", "not_a_float")

	if v := getEnvFloatOrDefault("SLOTBOOK_TEST_FLOAT", 0.5); v != 0.75 {
		t.Errorf("getEnvFloatOrDefault() = %f, want 0.75", v)
	}
	if v := getEnvFloatOrDefault("SLOTBOOK_TEST_FLOAT_INVALID", 0.5); v != 0.5 {
		t.Errorf("invalid float should fall back, got %f", v)
	}
	if v := getEnvFloatOrDefault("SLOTBOOK_TEST_FLOAT_UNSET", 0.5); v != 0.5 {
		t.Errorf("unset var should fall back, got %f", v)
	}
}
