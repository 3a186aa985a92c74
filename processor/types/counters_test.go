package types

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	globaltypes "github.com/xaionaro-go/threadcodec/types"
)

func TestCountersToStatistics(t *testing.T) {
	c := NewCounters()
	c.Input.Received.Increment(10)
	c.Input.Received.Increment(20)
	c.Input.BusyRetries.Increment(10)
	c.Output.Generated.Increment(30)
	c.Output.ExtraGenerated.Increment(4)

	s := c.ToStatistics()
	require.Equal(t, globaltypes.StatisticsItem{Count: 2, Bytes: 30}, s.Input.Received)
	require.Equal(t, globaltypes.StatisticsItem{Count: 1, Bytes: 10}, s.Input.BusyRetries)
	require.Equal(t, globaltypes.StatisticsItem{Count: 1, Bytes: 30}, s.Output.Generated)
	require.Equal(t, globaltypes.StatisticsItem{Count: 1, Bytes: 4}, s.Output.ExtraGenerated)
	require.True(t, s.LastInputAt.IsZero())
	require.NotContains(t, s.String(), "last")

	c.LastOutputAt.Store(time.Now())
	s = c.ToStatistics()
	require.False(t, s.LastOutputAt.IsZero())
	require.True(t, strings.HasPrefix(s.String(), "input: received 2 (30 B)"), s.String())
	require.Contains(t, s.String(), "(last now)")
}
