package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/secureportal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-k string   AES-256 key, 64 hex characters
//	-s string   integrity tag secret, 64 hex characters
//	-l int      session lifetime, minutes
//	-m int      login rate limit, max attempts per window
//	-w int      login rate limit window, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-k", "-s", "-l", "-m", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AESKeyHex, "k", config.AESKeyHex, "AES-256 key (hex)")
	fs.StringVar(&config.HMACSecretHex, "s", config.HMACSecretHex, "integrity tag secret (hex)")

	sessionLifetime := fs.Int("l", int(config.SessionLifetime.Minutes()), "session lifetime (in minutes)")
	fs.IntVar(&config.LoginMaxAttempts, "m", config.LoginMaxAttempts, "login rate limit max attempts")
	loginWindow := fs.Int("w", int(config.LoginWindow.Seconds()), "login rate limit window (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionLifetime = time.Duration(*sessionLifetime) * time.Minute
	config.LoginWindow = time.Duration(*loginWindow) * time.Second
}
