package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/accounts/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the gRPC server
//	-w string   base URL of the HTTP API
//	-r int      request timeout in seconds
//
// args is filtered with flagx.FilterArgs first, so -c does not break parsing.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-w", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.HTTPEndpointURL, "w", cfg.HTTPEndpointURL, "base URL of the HTTP API")
	timeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
