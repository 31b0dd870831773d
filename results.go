package ldapauth

import (
	"bytes"
	"encoding/json"

	"github.com/go-ldap/ldap/v3"
)

// Attribute is one named attribute with its ordered values. Stored
// attributes always have at least one value.
type Attribute struct {
	Name   string
	Values []string
}

// Results is an order-preserving mapping from attribute name to values,
// built from a single directory entry. Attribute order follows the
// server-returned order; value order within an attribute is preserved.
type Results struct {
	attrs []Attribute
	index map[string]int
}

// newResults copies the attributes of entry into an owned Results. Values
// are copied so nothing aliases go-ldap's buffers after the call. Empty
// attributes are skipped; a duplicate attribute name overwrites the earlier
// values in place (fixed policy, the protocol should never produce one).
func newResults(entry *ldap.Entry) Results {
	var r Results
	for _, attr := range entry.Attributes {
		if len(attr.Values) == 0 {
			continue
		}
		r.put(attr.Name, attr.Values)
	}
	return r
}

func (r *Results) put(name string, values []string) {
	if len(values) == 0 {
		return
	}
	owned := make([]string, len(values))
	copy(owned, values)

	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.attrs[i].Values = owned
		return
	}
	r.index[name] = len(r.attrs)
	r.attrs = append(r.attrs, Attribute{Name: name, Values: owned})
}

// Len returns the number of attributes.
func (r Results) Len() int {
	return len(r.attrs)
}

// Attributes returns the attributes in server order.
func (r Results) Attributes() []Attribute {
	return r.attrs
}

// Get returns the values of the named attribute.
func (r Results) Get(name string) ([]string, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.attrs[i].Values, true
}

// Value returns the first value of the named attribute, or "".
func (r Results) Value(name string) string {
	if values, ok := r.Get(name); ok {
		return values[0]
	}
	return ""
}

// MarshalJSON renders the attributes as a JSON object in server order. An
// attribute with exactly one value is a bare string; two or more values are
// an array. The single/multi distinction is part of the external contract.
func (r Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range r.attrs {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		var value []byte
		if len(attr.Values) == 1 {
			value, err = json.Marshal(attr.Values[0])
		} else {
			value, err = json.Marshal(attr.Values)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
