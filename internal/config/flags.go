package config

import (
	"flag"
	"time"
)

// parses CLI flags for the token command
func ParseTokenFlags(args []string) Flags {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	subject := fs.String("subject", "catalog-ui", "client id embedded in the token")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "token lifetime")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{Subject: *subject, TTL: *ttl}
}
