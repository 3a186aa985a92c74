package types

import (
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

// StatisticsItem is a point-in-time copy of a CountersItem.
type StatisticsItem struct {
	Count uint64 `json:",omitempty"`
	Bytes uint64 `json:",omitempty"`
}

func (s StatisticsItem) String() string {
	return humanize.Comma(int64(s.Count)) + " (" + humanize.IBytes(s.Bytes) + ")"
}

type CountersItem struct {
	Count atomic.Uint64
	Bytes atomic.Uint64
}

func NewCountersItem() *CountersItem {
	return &CountersItem{}
}

func (c *CountersItem) Increment(msgSize uint64) {
	c.Count.Add(1)
	c.Bytes.Add(msgSize)
}

func (c *CountersItem) ToStats() StatisticsItem {
	return StatisticsItem{
		Count: c.Count.Load(),
		Bytes: c.Bytes.Load(),
	}
}
