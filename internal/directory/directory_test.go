package directory

import (
	"fmt"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// fakeConn is an in-memory Conn serving canned entries keyed by filter.
type fakeConn struct {
	entries   map[string]*ldap.Entry
	bindErr   error
	searchErr error
	closed    bool
	searches  []string
}

func (f *fakeConn) Bind(username, password string) error {
	return f.bindErr
}

func (f *fakeConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	f.searches = append(f.searches, req.Filter)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if entry, ok := f.entries[req.Filter]; ok {
		return &ldap.SearchResult{Entries: []*ldap.Entry{entry}}, nil
	}
	return &ldap.SearchResult{}, nil
}

func (f *fakeConn) SetTimeout(time.Duration) {}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

// entry builds an *ldap.Entry with attributes in the given order.
func entry(dn string, attrs ...*ldap.EntryAttribute) *ldap.Entry {
	return &ldap.Entry{DN: dn, Attributes: attrs}
}

func attr(name string, values ...string) *ldap.EntryAttribute {
	return ldap.NewEntryAttribute(name, values)
}

// groupFilter mirrors the filter the resolver issues per group identifier.
func groupFilter(dn string) string {
	return fmt.Sprintf("(distinguishedName=%s)", ldap.EscapeFilter(dn))
}
