package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, time.Duration(0), cfg.RunTimeout)
	assert.Equal(t, 30*time.Second, cfg.DefaultWaiterTimeout)
	assert.Equal(t, "human", cfg.OutputFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("XCTEST_RUN_TIMEOUT", "5s")
	t.Setenv("XCTEST_OUTPUT_FORMAT", "json")
	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.RunTimeout)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid defaults",
			cfg:     Config{DefaultWaiterTimeout: time.Second, WaiterSliceInterval: time.Millisecond, OutputFormat: "human"},
			wantErr: false,
		},
		{
			name:    "negative run timeout",
			cfg:     Config{RunTimeout: -1, DefaultWaiterTimeout: time.Second, WaiterSliceInterval: time.Millisecond, OutputFormat: "human"},
			wantErr: true,
		},
		{
			name:    "zero waiter timeout",
			cfg:     Config{DefaultWaiterTimeout: 0, WaiterSliceInterval: time.Millisecond, OutputFormat: "human"},
			wantErr: true,
		},
		{
			name:    "bad output format",
			cfg:     Config{DefaultWaiterTimeout: time.Second, WaiterSliceInterval: time.Millisecond, OutputFormat: "xml"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ClampsWaiterSlice(t *testing.T) {
	cfg := Config{DefaultWaiterTimeout: time.Second, WaiterSliceInterval: time.Second, OutputFormat: "human"}
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, maxWaiterSlice, cfg.WaiterSliceInterval)
}
