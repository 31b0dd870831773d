package ldapauth

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/joewalnes/ldapauth/internal/directory"
)

// worker runs queued tasks to completion and hands each finished record to
// the dispatcher. Blocking directory I/O happens only here.
func (s *Service) worker() {
	defer s.workers.Done()
	for r := range s.submissions {
		s.runTask(r)
		s.completions <- r
	}
}

func (s *Service) runTask(r *request) {
	log := s.log.With().
		Stringer("request_id", r.id).
		Stringer("operation", r.op).
		Str("host", r.params.Host).
		Logger()

	start := time.Now()
	switch r.op {
	case opAuthenticate:
		s.runAuthenticate(r, log)
	case opSearch:
		s.runSearch(r, log)
	}

	log.Debug().
		Dur("duration", time.Since(start)).
		Bool("connected", r.connected).
		Msg("task finished")
}

// runAuthenticate opens a connection and binds with the request's
// credentials. A failed dial marks the server unreachable; a rejected bind
// is a normal outcome with authenticated=false.
func (s *Service) runAuthenticate(r *request, log zerolog.Logger) {
	conn, err := s.dial(s.cfg.Scheme, r.params.Host, r.params.Port)
	if err != nil {
		log.Debug().Err(err).Msg("directory unreachable")
		return
	}
	defer conn.Close()
	r.connected = true

	if err := conn.Bind(r.params.Username, r.params.Password); err != nil {
		if !directory.IsAuthenticationError(err) {
			log.Warn().Err(err).Msg("bind failed with non-credential error")
		}
		return
	}
	r.authenticated = true
}

// runSearch opens a connection, binds, and fetches the first entry matching
// the request's filter. connected means the server was reachable; bind and
// search failures leave the results empty without raising an error.
func (s *Service) runSearch(r *request, log zerolog.Logger) {
	conn, err := s.dial(s.cfg.Scheme, r.params.Host, r.params.Port)
	if err != nil {
		log.Debug().Err(err).Msg("directory unreachable")
		return
	}
	defer conn.Close()
	r.connected = true

	conn.SetTimeout(s.cfg.SearchTimeout)

	if err := conn.Bind(r.params.Username, r.params.Password); err != nil {
		log.Debug().Err(err).Msg("search bind rejected")
		return
	}

	entry, err := directory.FindEntry(conn, r.base, r.filter, s.cfg.SearchTimeout)
	if err != nil {
		if !directory.IsNotFoundError(err) {
			log.Warn().Err(err).Str("filter", r.filter).Msg("search failed")
		}
		return
	}

	r.results = newResults(entry)

	if groups := entry.GetAttributeValues("memberOf"); len(groups) > 0 {
		resolver := &directory.Resolver{
			Conn:    conn,
			Base:    r.base,
			Timeout: s.cfg.SearchTimeout,
			Log:     log,
		}
		r.results.put("allGroups", resolver.Resolve(groups))
	}
}
