package models

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter is the set of list criteria the dashboard sends with GET /payments.
// The zero value means "everything".
type Filter struct {
	SportID *int64
	Status  string
	Search  string
}

// Query encodes the filter; empty criteria are omitted entirely.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.SportID != nil {
		q.Set("sport_id", strconv.FormatInt(*f.SportID, 10))
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		q.Set("status", s)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}
	return q
}

// IsZero reports whether no criterion is set.
func (f Filter) IsZero() bool {
	return len(f.Query()) == 0
}

// Clone returns a copy that shares no pointers with f.
func (f Filter) Clone() Filter {
	c := f
	if f.SportID != nil {
		c.SportID = Ptr(*f.SportID)
	}
	return c
}

// SportValue is the selector value for the sport criterion ("" when unset).
func (f Filter) SportValue() string {
	if f.SportID == nil {
		return ""
	}
	return strconv.FormatInt(*f.SportID, 10)
}
