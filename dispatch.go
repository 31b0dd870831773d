package ldapauth

// dispatcher drains finished tasks in arrival order and runs their
// callbacks. It is the only goroutine that ever invokes a callback, which
// gives the exactly-once and single-threaded delivery guarantees.
func (s *Service) dispatcher() {
	defer close(s.dispatchDone)
	for r := range s.completions {
		s.dispatch(r)
	}
}

func (s *Service) dispatch(r *request) {
	// The keep-alive release happens after the callback returns, on every
	// path including a panicking callback.
	defer func() {
		if p := recover(); p != nil {
			s.log.Error().
				Stringer("request_id", r.id).
				Stringer("operation", r.op).
				Any("panic", p).
				Msg("completion callback panicked")
		}
		s.metrics.observe(r)
		s.outstanding.Add(-1)
		s.pending.Done()
	}()

	var err error
	if !r.connected {
		err = ErrConnectionFailed
	}

	switch r.op {
	case opAuthenticate:
		r.authCB(err, r.authenticated)
	case opSearch:
		r.searchCB(err, r.results)
	}
}
