package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseFlags(t *testing.T) {

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected *Config
		name     string
		args     []string
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-d", "db", "-k", "aabb", "-s", "ccdd",
				"-l", "30", "-m", "3", "-w", "300",
			},
			expected: &Config{
				DatabaseDSN:      "db",
				AESKeyHex:        "aabb",
				HMACSecretHex:    "ccdd",
				SessionLifetime:  30 * time.Minute,
				LoginMaxAttempts: 3,
				LoginWindow:      300 * time.Second,
			},
		},
		{
			name: "no flags keep zero durations",
			args: []string{"cmd"},
			expected: &Config{
				SessionLifetime: 0,
				LoginWindow:     0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}
			parseFlags(config)

			if diff := cmp.Diff(tt.expected, config); diff != "" {
				t.Errorf("unexpected config (-want +got):\n%s", diff)
			}
		})
	}
}
