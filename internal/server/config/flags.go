package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/scenesync/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN; empty selects the in-memory backend
//	-s string   HMAC secret for bearer auth; empty disables auth
//	-m int      max request body size, bytes
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AuthSecret, "s", config.AuthSecret, "auth secret key")
	fs.Int64Var(&config.MaxBodyBytes, "m", config.MaxBodyBytes, "max request body size (bytes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
