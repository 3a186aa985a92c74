// threadcodec-bench drives a passthrough transform through the threaded
// engine with synthetic load, and reports the engine statistics.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/threadcodec/buffer"
	"github.com/xaionaro-go/threadcodec/codec/passthrough"
	"github.com/xaionaro-go/threadcodec/metrics"
	"github.com/xaionaro-go/threadcodec/processor"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := DefaultConfig()

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	configPath := pflag.String("config", "", "path to a YAML config; the flags set explicitly override it")
	inputs := pflag.Uint("inputs", cfg.Inputs, "amount of inputs to send")
	payloadSize := pflag.Int("payload-size", cfg.PayloadSize, "size of each input payload")
	extraEvery := pflag.Uint("extra-every", cfg.Passthrough.ExtraEvery, "emit the extra data every N outputs (0 disables)")
	depth := pflag.Uint("depth", cfg.Passthrough.Depth, "how many inputs the transform holds before reporting busy")
	busyBackoff := pflag.Duration("busy-backoff", cfg.BusyBackoff, "delay before retrying after a busy result")
	consumers := pflag.Uint("consumers", cfg.Consumers, "amount of concurrent output consumers")
	reportInterval := pflag.Duration("report-interval", time.Second, "how often to print the statistics")
	metricsAddr := pflag.String("metrics-listen-addr", "", "an address to serve Prometheus metrics at (/metrics)")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	pflag.Parse()

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *configPath != "" {
		if err := LoadConfig(*configPath, &cfg); err != nil {
			l.Fatal(err)
		}
	}
	flags := pflag.CommandLine
	if flags.Changed("inputs") {
		cfg.Inputs = *inputs
	}
	if flags.Changed("payload-size") {
		cfg.PayloadSize = *payloadSize
	}
	if flags.Changed("extra-every") {
		cfg.Passthrough.ExtraEvery = *extraEvery
	}
	if flags.Changed("depth") {
		cfg.Passthrough.Depth = *depth
	}
	if flags.Changed("busy-backoff") {
		cfg.BusyBackoff = *busyBackoff
	}
	if flags.Changed("consumers") {
		cfg.Consumers = *consumers
	}
	if cfg.Consumers == 0 {
		cfg.Consumers = 1
	}
	l.Debugf("config: %#+v", cfg)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(ctx context.Context) { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	ctx, stopFn := signal.NotifyContext(ctx, os.Interrupt)
	defer stopFn()

	if err := run(ctx, cfg, *reportInterval, *metricsAddr); err != nil {
		l.Error(err)
		belt.Flush(ctx)
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	cfg Config,
	reportInterval time.Duration,
	metricsAddr string,
) error {
	l := logger.FromCtx(ctx)
	if cfg.Inputs == 0 {
		return fmt.Errorf("nothing to do: the amount of inputs is zero")
	}
	if cfg.PayloadSize < 1 {
		return fmt.Errorf("the payload size must be positive, got %d", cfg.PayloadSize)
	}

	transform := passthrough.New(cfg.Passthrough, nil)
	if cfg.ExtraData != "" {
		if err := transform.SetExtraData(ctx, []byte(cfg.ExtraData), true); err != nil {
			return err
		}
	}
	defer transform.Close(ctx)

	engine := processor.New(
		transform,
		processor.OptionName("bench_"),
		processor.OptionBusyBackoff(cfg.BusyBackoff),
		processor.OptionPropagateFatal(true),
	)
	defer engine.Close(ctx)

	registry := prometheus.NewRegistry()
	if err := registry.Register(metrics.NewCollector(engine)); err != nil {
		return fmt.Errorf("unable to register the metrics collector: %w", err)
	}

	startedAt := time.Now()
	if err := engine.Init(ctx); err != nil {
		return fmt.Errorf("unable to initialize the engine: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:    metricsAddr,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}
		g.Go(func() error {
			l.Infof("serving metrics at http://%s/metrics", metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelFn()
			return srv.Shutdown(shutdownCtx)
		})
	}

	inputPool := buffer.NewPool(cfg.PayloadSize)
	g.Go(func() error {
		payload := make([]byte, cfg.PayloadSize)
		for i := range cfg.Inputs {
			b := inputPool.Get()
			payload[0] = byte(i)
			b.SetPayload(payload)
			b.PTS = int64(i)
			if !engine.SendInput(ctx, b) {
				b.Release()
				return fmt.Errorf("input #%d was rejected", i)
			}
		}
		l.Debugf("all the %d inputs are sent", cfg.Inputs)
		return nil
	})

	var received atomic.Uint64
	for range cfg.Consumers {
		g.Go(func() error {
			for {
				out := engine.GetOutput(ctx, true)
				if out == nil {
					return ctx.Err()
				}
				out.Release()
				for extra := engine.GetExtraOutput(ctx); extra != nil; extra = engine.GetExtraOutput(ctx) {
					extra.Release()
				}
				if received.Add(1) == uint64(cfg.Inputs) {
					return errDone
				}
			}
		})
	}

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case err, ok := <-engine.ErrorChan():
				if ok {
					return err
				}
				return nil
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(reportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				fmt.Println(engine.GetStatistics())
			}
		}
	})

	err := g.Wait()
	if !errors.Is(err, errDone) {
		return err
	}

	elapsed := time.Since(startedAt)
	stats := engine.GetStatistics()
	fmt.Println(stats)
	fmt.Printf(
		"%s outputs (%s) in %v: %s outputs/s, %s/s\n",
		humanize.Comma(int64(stats.Output.Delivered.Count)),
		humanize.IBytes(stats.Output.Delivered.Bytes),
		elapsed.Round(time.Millisecond),
		humanize.CommafWithDigits(float64(stats.Output.Delivered.Count)/elapsed.Seconds(), 1),
		humanize.IBytes(uint64(float64(stats.Output.Delivered.Bytes)/elapsed.Seconds())),
	)
	return nil
}

var errDone = errors.New("all the outputs are received")
