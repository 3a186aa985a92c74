package types

import (
	"time"

	"github.com/go-ng/xatomic"
)

// Timestamp is a time.Time that may be stored and loaded concurrently.
// The zero value holds the zero time.
type Timestamp struct {
	value *time.Time
}

func (ts *Timestamp) Store(t time.Time) {
	xatomic.StorePointer(&ts.value, &t)
}

func (ts *Timestamp) Load() time.Time {
	t := xatomic.LoadPointer(&ts.value)
	if t == nil {
		return time.Time{}
	}
	return *t
}
