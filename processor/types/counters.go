// Package types contains the counters and statistics of a threaded engine.
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	globaltypes "github.com/xaionaro-go/threadcodec/types"
)

type InputCounters struct {
	Received    globaltypes.CountersItem
	Rejected    globaltypes.CountersItem
	Consumed    globaltypes.CountersItem
	BusyRetries globaltypes.CountersItem
	Dropped     globaltypes.CountersItem
}

type OutputCounters struct {
	Generated      globaltypes.CountersItem
	ExtraGenerated globaltypes.CountersItem
	Partial        globaltypes.CountersItem
	Delivered      globaltypes.CountersItem
	ExtraDelivered globaltypes.CountersItem
	Dropped        globaltypes.CountersItem
}

// Counters is updated concurrently by both loops and by the callers;
// it must not be copied.
type Counters struct {
	Input  InputCounters
	Output OutputCounters

	LastInputAt  Timestamp
	LastOutputAt Timestamp
}

func NewCounters() *Counters {
	return &Counters{}
}

type InputStatistics struct {
	Received    globaltypes.StatisticsItem
	Rejected    globaltypes.StatisticsItem
	Consumed    globaltypes.StatisticsItem
	BusyRetries globaltypes.StatisticsItem
	Dropped     globaltypes.StatisticsItem
}

type OutputStatistics struct {
	Generated      globaltypes.StatisticsItem
	ExtraGenerated globaltypes.StatisticsItem
	Partial        globaltypes.StatisticsItem
	Delivered      globaltypes.StatisticsItem
	ExtraDelivered globaltypes.StatisticsItem
	Dropped        globaltypes.StatisticsItem
}

type Statistics struct {
	Input  InputStatistics
	Output OutputStatistics

	LastInputAt  time.Time `json:",omitempty"`
	LastOutputAt time.Time `json:",omitempty"`
}

func (c *Counters) ToStatistics() Statistics {
	return Statistics{
		Input: InputStatistics{
			Received:    c.Input.Received.ToStats(),
			Rejected:    c.Input.Rejected.ToStats(),
			Consumed:    c.Input.Consumed.ToStats(),
			BusyRetries: c.Input.BusyRetries.ToStats(),
			Dropped:     c.Input.Dropped.ToStats(),
		},
		Output: OutputStatistics{
			Generated:      c.Output.Generated.ToStats(),
			ExtraGenerated: c.Output.ExtraGenerated.ToStats(),
			Partial:        c.Output.Partial.ToStats(),
			Delivered:      c.Output.Delivered.ToStats(),
			ExtraDelivered: c.Output.ExtraDelivered.ToStats(),
			Dropped:        c.Output.Dropped.ToStats(),
		},
		LastInputAt:  c.LastInputAt.Load(),
		LastOutputAt: c.LastOutputAt.Load(),
	}
}

func (s Statistics) String() string {
	var result strings.Builder
	fmt.Fprintf(&result, "input: received %s, consumed %s, busy %s, rejected %s, dropped %s",
		s.Input.Received, s.Input.Consumed, s.Input.BusyRetries, s.Input.Rejected, s.Input.Dropped,
	)
	if !s.LastInputAt.IsZero() {
		fmt.Fprintf(&result, " (last %s)", humanize.Time(s.LastInputAt))
	}
	fmt.Fprintf(&result, "; output: generated %s + %s extra, delivered %s + %s extra, partial %s, dropped %s",
		s.Output.Generated, s.Output.ExtraGenerated,
		s.Output.Delivered, s.Output.ExtraDelivered,
		s.Output.Partial, s.Output.Dropped,
	)
	if !s.LastOutputAt.IsZero() {
		fmt.Fprintf(&result, " (last %s)", humanize.Time(s.LastOutputAt))
	}
	return result.String()
}
