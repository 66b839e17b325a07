package config

import "time"

// Timeouts holds the time limits applied to requests and store connections.
// They can be tuned via environment variables or CLI flags.
type Timeouts struct {
	// Request bounds a single HTTP request, store work included.
	// Default: 30s
	Request time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Connect bounds opening and pinging a store connection.
	// Default: 10s
	Connect time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`

	// Shutdown is the grace period for in-flight requests on exit.
	// Default: 15s
	Shutdown time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}
