package ldapauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/rs/zerolog"

	"github.com/joewalnes/ldapauth/internal/directory"
)

// Worker pool limits.
const (
	// MaxWorkerLimit caps the number of concurrent directory operations a
	// single Service will run. Directory servers commonly throttle clients
	// holding many simultaneous connections; requests beyond the pool size
	// queue instead.
	MaxWorkerLimit = 64
)

// Config controls a Service. The zero value is not usable; start from
// DefaultConfig or let New apply defaults to unset fields.
type Config struct {
	// Scheme is the URL scheme used to reach directory servers, "ldap" or
	// "ldaps". TLS negotiation beyond scheme selection is the dialer's
	// concern, not this package's.
	Scheme string `default:"ldap"`

	// Workers is the number of goroutines executing blocking directory
	// operations.
	Workers int `default:"4"`

	// QueueSize is the submission buffer; entry calls block for queue space
	// once it fills.
	QueueSize int `default:"64"`

	// DialTimeout bounds the network connect to a directory server.
	DialTimeout time.Duration `default:"10s"`

	// SearchTimeout bounds each search operation, both client-side and as
	// the protocol-level time limit sent to the server.
	SearchTimeout time.Duration `default:"10s"`

	// Logger receives structured operation logs. Defaults to a disabled
	// logger.
	Logger zerolog.Logger

	// dialer is replaced by tests to run against an in-memory directory.
	dialer directory.Dialer
}

// DefaultConfig returns a Config with the documented defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{Logger: zerolog.Nop()}
	if err := defaults.Set(cfg); err != nil {
		// Only reachable through a malformed struct tag.
		panic(fmt.Sprintf("ldapauth: defaults: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Scheme != "ldap" && c.Scheme != "ldaps" {
		return fmt.Errorf("scheme must be \"ldap\" or \"ldaps\", got %q", c.Scheme)
	}

	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}

	if c.Workers > MaxWorkerLimit {
		return fmt.Errorf("workers too high (max %d)", MaxWorkerLimit)
	}

	if c.QueueSize < 0 {
		return errors.New("queue size cannot be negative")
	}

	if c.DialTimeout <= 0 {
		return errors.New("dial timeout must be positive")
	}

	if c.SearchTimeout <= 0 {
		return errors.New("search timeout must be positive")
	}

	return nil
}
