package config

import (
	"flag"
	"os"
	"time"

	"github.com/avolkovs/accountd/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-t int      request timeout, seconds
//	-m int      mail send timeout, seconds
//
// os.Args is filtered to the flags handled here (flagx.FilterArgs), so other
// packages can own their own flags. Timeouts are accepted as integer seconds.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	requestTimeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")
	mailSendTimeout := fs.Int("m", int(config.MailSendTimeout.Seconds()), "mail send timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	config.MailSendTimeout = time.Duration(*mailSendTimeout) * time.Second
}
