// Package directory wraps the blocking go-ldap client surface used by the
// worker tasks: open, simple bind, single-entry search and unbind. All calls
// block and must only run on a worker goroutine, never on the dispatch
// goroutine.
package directory

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// Conn is the subset of go-ldap's connection surface the tasks consume.
// *ldap.Conn satisfies it; tests substitute an in-memory fake.
type Conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	SetTimeout(timeout time.Duration)
	Close() error
}

// Dialer opens a connection to a directory server. A non-nil error means the
// server was unreachable, which is distinct from a bind failure on an open
// connection.
type Dialer func(scheme, host string, port int) (Conn, error)

// NewDialer returns a Dialer that connects with ldap.DialURL using the given
// network timeout.
func NewDialer(timeout time.Duration) Dialer {
	return func(scheme, host string, port int) (Conn, error) {
		url := fmt.Sprintf("%s://%s/", scheme, net.JoinHostPort(host, strconv.Itoa(port)))
		conn, err := ldap.DialURL(url, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
		if err != nil {
			return nil, Classify("dial", err)
		}
		conn.SetTimeout(timeout)
		return conn, nil
	}
}
