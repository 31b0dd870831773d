package directory

import (
	"fmt"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog"
)

// Resolver expands memberOf back-references into the transitive list of
// group display names. Each group identifier is looked up by distinguished
// name under Base and its own memberOf values are followed depth-first.
type Resolver struct {
	Conn    Conn
	Base    string
	Timeout time.Duration
	Log     zerolog.Logger
}

// Resolve expands each starting group identifier independently and
// concatenates the resulting name lists in input order. Duplicates across
// starting values are preserved; within one starting value a visited set
// keyed by identifier bounds the walk, so cyclic memberOf graphs terminate.
func (r *Resolver) Resolve(groups []string) []string {
	names := make([]string, 0, len(groups))
	for _, group := range groups {
		visited := make(map[string]bool)
		r.walk(group, visited, &names)
	}
	return names
}

func (r *Resolver) walk(group string, visited map[string]bool, names *[]string) {
	if visited[group] {
		return
	}
	visited[group] = true

	filter := fmt.Sprintf("(distinguishedName=%s)", ldap.EscapeFilter(group))
	entry, err := FindEntry(r.Conn, r.Base, filter, r.Timeout)
	if err != nil {
		// The group is outside the search base or the lookup failed; keep
		// the raw identifier and treat this branch as a leaf.
		r.Log.Debug().Str("group", group).Err(err).Msg("group lookup failed, recording raw identifier")
		*names = append(*names, group)
		return
	}

	name := entry.GetAttributeValue("name")
	if name == "" {
		name = group
	}
	*names = append(*names, name)

	for _, parent := range entry.GetAttributeValues("memberOf") {
		r.walk(parent, visited, names)
	}
}
