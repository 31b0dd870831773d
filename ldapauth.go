// Package ldapauth performs asynchronous authentication and attribute
// search against an LDAP-compatible directory server.
//
// Blocking directory calls (connect, bind, search) run on a bounded worker
// pool; outcomes are delivered through a single dispatcher goroutine that
// invokes the caller-supplied callback exactly once. An outstanding-work
// counter lets a host process decide whether it may exit while requests are
// in flight.
//
//	svc, err := ldapauth.New(nil)
//	svc.Authenticate("dc1.example.com", 389, "uid=alice,dc=example,dc=com", "secret",
//		func(err error, ok bool) { ... })
//	svc.Wait()
package ldapauth

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joewalnes/ldapauth/internal/directory"
)

// Service owns the worker pool, the completion dispatcher and the
// keep-alive accounting for asynchronous directory requests.
type Service struct {
	cfg  *Config
	log  zerolog.Logger
	dial directory.Dialer

	submissions chan *request
	completions chan *request

	outstanding atomic.Int64
	pending     sync.WaitGroup // one unit per accepted request, for Wait

	workers      sync.WaitGroup
	dispatchDone chan struct{}

	mu     sync.Mutex
	closed bool

	metrics *Metrics
}

// New starts a Service. A nil cfg uses DefaultConfig; zero-valued fields of
// a partial cfg are filled with the same defaults.
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		applyDefaults(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	dial := cfg.dialer
	if dial == nil {
		dial = directory.NewDialer(cfg.DialTimeout)
	}

	s := &Service{
		cfg:          cfg,
		log:          cfg.Logger,
		dial:         dial,
		submissions:  make(chan *request, cfg.QueueSize),
		completions:  make(chan *request, cfg.QueueSize),
		dispatchDone: make(chan struct{}),
		metrics:      newMetrics(),
	}

	for i := 0; i < cfg.Workers; i++ {
		s.workers.Add(1)
		go s.worker()
	}
	go s.dispatcher()

	s.log.Debug().
		Int("workers", cfg.Workers).
		Int("queue_size", cfg.QueueSize).
		Str("scheme", cfg.Scheme).
		Msg("service started")

	return s, nil
}

func applyDefaults(cfg *Config) {
	base := DefaultConfig()
	if cfg.Scheme == "" {
		cfg.Scheme = base.Scheme
	}
	if cfg.Workers == 0 {
		cfg.Workers = base.Workers
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = base.QueueSize
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = base.DialTimeout
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = base.SearchTimeout
	}
}

// Authenticate connects to host:port and binds with the supplied
// credentials on a worker goroutine, then invokes cb exactly once from the
// dispatch goroutine. It returns immediately; a non-nil return means the
// arguments were rejected and no work was scheduled.
func (s *Service) Authenticate(host string, port int, username, password string, cb AuthCallback) error {
	if err := validateConn(host, port); err != nil {
		return err
	}
	if cb == nil {
		return &ValidationError{Field: "callback", Reason: "must not be nil"}
	}

	return s.submit(&request{
		id:     uuid.New(),
		op:     opAuthenticate,
		params: ConnParams{Host: host, Port: port, Username: username, Password: password},
		authCB: cb,
	})
}

// Search connects, binds, and searches under base with the given filter on
// a worker goroutine, then invokes cb exactly once from the dispatch
// goroutine with the first matching entry's attributes. When the entry has
// memberOf values, the synthetic allGroups attribute carries the flattened
// ancestor group names. A non-nil return means the arguments were rejected
// and no work was scheduled.
func (s *Service) Search(host string, port int, username, password, base, filter string, cb SearchCallback) error {
	if err := validateConn(host, port); err != nil {
		return err
	}
	if base == "" {
		return &ValidationError{Field: "base", Reason: "must not be empty"}
	}
	if filter == "" {
		return &ValidationError{Field: "filter", Reason: "must not be empty"}
	}
	if cb == nil {
		return &ValidationError{Field: "callback", Reason: "must not be nil"}
	}

	return s.submit(&request{
		id:       uuid.New(),
		op:       opSearch,
		params:   ConnParams{Host: host, Port: port, Username: username, Password: password},
		base:     base,
		filter:   filter,
		searchCB: cb,
	})
}

func validateConn(host string, port int) error {
	if host == "" {
		return &ValidationError{Field: "host", Reason: "must not be empty"}
	}
	if port < 1 || port > 65535 {
		return &ValidationError{Field: "port", Reason: "must be in 1..65535"}
	}
	return nil
}

// submit transfers ownership of r to the worker pool. The keep-alive
// counter is incremented before the record leaves the calling goroutine and
// decremented by the dispatcher after the callback returns.
func (s *Service) submit(r *request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.outstanding.Add(1)
	s.pending.Add(1)
	s.metrics.inFlight.Inc()

	s.log.Debug().
		Stringer("request_id", r.id).
		Stringer("operation", r.op).
		Str("host", r.params.Host).
		Int("port", r.params.Port).
		Msg("request accepted")

	s.submissions <- r
	return nil
}

// Outstanding returns the number of accepted requests whose callbacks have
// not yet returned. A host loop may exit when it reaches zero.
func (s *Service) Outstanding() int64 {
	return s.outstanding.Load()
}

// Wait blocks until every accepted request has completed its callback.
func (s *Service) Wait() {
	s.pending.Wait()
}

// Close drains outstanding requests, runs their callbacks, and stops the
// workers and the dispatcher. Entry points return ErrClosed afterwards.
// Close is idempotent.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.submissions)
	s.mu.Unlock()

	s.workers.Wait()
	close(s.completions)
	<-s.dispatchDone

	s.log.Debug().Msg("service closed")
	return nil
}
