package config

import (
	"flag"
	"os"
	"time"

	"github.com/sessionworks/legacyauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-s string   legacy cookie signing secret
//	-l int      session duration, seconds
//	-k string   JWT HMAC secret key
//	-t int      token validity, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with flags of the host process.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-l", "-k", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.ClassicSessionSecret, "s", config.ClassicSessionSecret, "legacy cookie signing secret")
	fs.StringVar(&config.TokenSecret, "k", config.TokenSecret, "JWT secret key")

	sessionDuration := fs.Int("l", int(config.SessionDuration.Seconds()), "session duration (in seconds)")
	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionDuration = time.Duration(*sessionDuration) * time.Second
	config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
}
