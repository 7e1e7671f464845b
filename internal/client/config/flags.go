package config

import (
	"flag"
	"os"

	"github.com/farmlingo/farmlingo/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend API
//	-d string   path of the local state database
//	-t string   path to an identity session token file
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interfering with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.StateDBPath, "d", cfg.StateDBPath, "path of the local state database")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "path to an identity session token file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
