// Package viewstate keeps per-page dashboard filter state in URL query
// strings. Each page has a view type whose getters and setters are backed by
// one query key each. A value equal to the key's default is elided from the
// query string, so shared links stay minimal and survive default changes.
package viewstate

import (
	nethttp "net/http"
	"net/url"
)

// Query is the query-string surface a view reads and writes. Implementations
// must keep at most one value per key.
type Query interface {
	Lookup(key string) (string, bool)
	Set(key, value string)
	Del(key string)
	Encode() string
}

// Values is a url.Values-backed Query. It is not safe for concurrent use;
// views are built per request.
type Values struct {
	v url.Values
}

// ParseQuery builds Values from a raw query string ("a=1&b=2").
func ParseQuery(raw string) (*Values, error) {
	v, err := url.ParseQuery(raw)
	if err != nil {
		return &Values{v: url.Values{}}, err
	}
	return &Values{v: v}, nil
}

// FromRequest builds Values from the request URL. Malformed pairs are
// dropped, matching net/http's own lenient query handling.
func FromRequest(r *nethttp.Request) *Values {
	return &Values{v: r.URL.Query()}
}

// NewValues wraps existing url.Values.
func NewValues(v url.Values) *Values {
	if v == nil {
		v = url.Values{}
	}
	return &Values{v: v}
}

func (q *Values) Lookup(key string) (string, bool) {
	if !q.v.Has(key) {
		return "", false
	}
	return q.v.Get(key), true
}

func (q *Values) Set(key, value string) {
	q.v.Set(key, value)
}

func (q *Values) Del(key string) {
	q.v.Del(key)
}

// Encode returns the canonical (sorted-key, escaped) query string.
func (q *Values) Encode() string {
	return q.v.Encode()
}
