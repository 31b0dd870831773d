package directory

import (
	"time"

	"github.com/go-ldap/ldap/v3"
)

// FindEntry runs a subtree search under base and returns the first matching
// entry. An empty result set is reported as a not-found Error rather than a
// nil entry, so callers can treat a missing entry as a normal outcome.
func FindEntry(conn Conn, base, filter string, timeout time.Duration) (*ldap.Entry, error) {
	req := ldap.NewSearchRequest(
		base,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, int(timeout.Seconds()), false,
		filter,
		nil, // all attributes
		nil,
	)

	result, err := conn.Search(req)
	if err != nil {
		return nil, Classify("search", err)
	}
	if len(result.Entries) == 0 {
		return nil, &Error{
			Op:       "search",
			Category: CategoryNotFound,
			Message:  "no entry matched " + filter,
		}
	}
	return result.Entries[0], nil
}
