package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/scenesync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-t string   store backend type: memory, http, s3 or redis
//	-a string   base URL of the http storage server
//	-k string   bearer token for the http storage server
//	-r string   room id to sync against
//	-f string   path of the local scene file
//	-d string   directory holding attachment files
//	-n int      max save retries on a version conflict
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-t", "-a", "-k", "-r", "-f", "-d", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreType, "t", cfg.StoreType, "store backend type (memory, http, s3, redis)")
	fs.StringVar(&cfg.StoreURL, "a", cfg.StoreURL, "base URL of the http storage server")
	fs.StringVar(&cfg.AuthToken, "k", cfg.AuthToken, "bearer token for the http storage server")
	fs.StringVar(&cfg.RoomID, "r", cfg.RoomID, "room id to sync against")
	fs.StringVar(&cfg.ScenePath, "f", cfg.ScenePath, "path of the local scene file")
	fs.StringVar(&cfg.FilesDir, "d", cfg.FilesDir, "directory holding attachment files")
	fs.Uint64Var(&cfg.MaxRetries, "n", cfg.MaxRetries, "max save retries on a version conflict")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
