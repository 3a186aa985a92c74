// Package metrics exposes the statistics of threaded engines to Prometheus.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xaionaro-go/threadcodec/processor"
	"github.com/xaionaro-go/threadcodec/types"
	"github.com/xaionaro-go/xsync"
)

// Source is what the collector reads the statistics from; it is
// implemented by *processor.Threaded.
type Source interface {
	String() string
	GetStatistics() processor.Statistics
	QueueLengths(ctx context.Context) (inputs, outputs, extraOutputs int)
}

var _ Source = (*processor.Threaded)(nil)

const namespace = "threadcodec"

var (
	descItems = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "buffers_total"),
		"Amount of buffers that went through the given stage",
		[]string{"engine", "stream", "stage"}, nil,
	)
	descBytes = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "bytes_total"),
		"Amount of payload bytes that went through the given stage",
		[]string{"engine", "stream", "stage"}, nil,
	)
	descQueueLength = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "queue_length"),
		"Amount of buffers currently queued",
		[]string{"engine", "queue"}, nil,
	)
	descLastActivity = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "last_activity_timestamp_seconds"),
		"Unix time of the last consumed input or generated output",
		[]string{"engine", "stream"}, nil,
	)
)

// Collector is a prometheus.Collector reporting the statistics of all
// the registered engines at scrape time.
type Collector struct {
	locker  xsync.Mutex
	sources []Source
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(sources ...Source) *Collector {
	return &Collector{sources: sources}
}

// Add starts reporting source too.
func (c *Collector) Add(ctx context.Context, source Source) {
	c.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		c.sources = append(c.sources, source)
	})
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descItems
	ch <- descBytes
	ch <- descQueueLength
	ch <- descLastActivity
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx := xsync.WithNoLogging(context.Background(), true)
	sources := xsync.DoR1(ctx, &c.locker, func() []Source {
		return append([]Source{}, c.sources...)
	})
	for _, source := range sources {
		collectSource(ctx, ch, source)
	}
}

type stage struct {
	Stream string
	Name   string
}

func collectSource(
	ctx context.Context,
	ch chan<- prometheus.Metric,
	source Source,
) {
	engine := source.String()
	stats := source.GetStatistics()
	for st, item := range map[stage]types.StatisticsItem{
		{"input", "received"}:   stats.Input.Received,
		{"input", "rejected"}:   stats.Input.Rejected,
		{"input", "consumed"}:   stats.Input.Consumed,
		{"input", "busy_retry"}: stats.Input.BusyRetries,
		{"input", "dropped"}:    stats.Input.Dropped,
		{"output", "generated"}: stats.Output.Generated,
		{"output", "partial"}:   stats.Output.Partial,
		{"output", "delivered"}: stats.Output.Delivered,
		{"output", "dropped"}:   stats.Output.Dropped,
		{"extra", "generated"}:  stats.Output.ExtraGenerated,
		{"extra", "delivered"}:  stats.Output.ExtraDelivered,
	} {
		ch <- prometheus.MustNewConstMetric(descItems, prometheus.CounterValue, float64(item.Count), engine, st.Stream, st.Name)
		ch <- prometheus.MustNewConstMetric(descBytes, prometheus.CounterValue, float64(item.Bytes), engine, st.Stream, st.Name)
	}

	inputs, outputs, extraOutputs := source.QueueLengths(ctx)
	ch <- prometheus.MustNewConstMetric(descQueueLength, prometheus.GaugeValue, float64(inputs), engine, "input")
	ch <- prometheus.MustNewConstMetric(descQueueLength, prometheus.GaugeValue, float64(outputs), engine, "output")
	ch <- prometheus.MustNewConstMetric(descQueueLength, prometheus.GaugeValue, float64(extraOutputs), engine, "extra")

	if !stats.LastInputAt.IsZero() {
		ch <- prometheus.MustNewConstMetric(descLastActivity, prometheus.GaugeValue, float64(stats.LastInputAt.UnixNano())/1e9, engine, "input")
	}
	if !stats.LastOutputAt.IsZero() {
		ch <- prometheus.MustNewConstMetric(descLastActivity, prometheus.GaugeValue, float64(stats.LastOutputAt.UnixNano())/1e9, engine, "output")
	}
}
