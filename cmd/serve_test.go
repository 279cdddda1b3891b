package cmd

import (
	"testing"
)

func TestLoadMetricsEnvVars(t *testing.T) {
	tests := []struct {
		name        string
		envEnabled  string
		envAddr     string
		setFlags    map[string]string
		wantEnabled bool
		wantAddr    string
	}{
		{
			name:        "defaults without env",
			wantEnabled: true,
			wantAddr:    ":9090",
		},
		{
			name:        "env disables metrics",
			envEnabled:  "false",
			wantEnabled: false,
			wantAddr:    ":9090",
		},
		{
			name:        "env overrides addr",
			envAddr:     ":9191",
			wantEnabled: true,
			wantAddr:    ":9191",
		},
		{
			name:        "flag beats env",
			envAddr:     ":9191",
			setFlags:    map[string]string{"metrics-addr": ":7070"},
			wantEnabled: true,
			wantAddr:    ":7070",
		},
		{
			name:        "enabled flag beats env",
			envEnabled:  "true",
			setFlags:    map[string]string{"metrics-enabled": "false"},
			wantEnabled: false,
			wantAddr:    ":9090",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envEnabled != "" {
				t.Setenv("METRICS_ENABLED", tt.envEnabled)
			}
			if tt.envAddr != "" {
				t.Setenv("METRICS_ADDR", tt.envAddr)
			}

			cmd := newServeCmd()
			for flag, value := range tt.setFlags {
				if err := cmd.Flags().Set(flag, value); err != nil {
					t.Fatalf("failed to set flag %s: %v", flag, err)
				}
			}

			config := MetricsConfig{Enabled: true, Addr: ":9090"}
			if v, err := cmd.Flags().GetBool("metrics-enabled"); err == nil {
				config.Enabled = v
			}
			if v, err := cmd.Flags().GetString("metrics-addr"); err == nil {
				config.Addr = v
			}
			loadMetricsEnvVars(cmd, &config)

			if config.Enabled != tt.wantEnabled {
				t.Errorf("Enabled = %v, want %v", config.Enabled, tt.wantEnabled)
			}
			if config.Addr != tt.wantAddr {
				t.Errorf("Addr = %q, want %q", config.Addr, tt.wantAddr)
			}
		})
	}
}
