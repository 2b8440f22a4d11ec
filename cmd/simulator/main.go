package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/signalsfoundry/orbital-simulator/core"
	"github.com/signalsfoundry/orbital-simulator/internal/logging"
	"github.com/signalsfoundry/orbital-simulator/internal/observability"
	"github.com/signalsfoundry/orbital-simulator/internal/stream"
	"github.com/signalsfoundry/orbital-simulator/model"
	"github.com/signalsfoundry/orbital-simulator/timectrl"
)

type options struct {
	scenarioPath string
	duration     time.Duration
	tick         time.Duration
	accelerated  bool
	listenAddr   string
}

func main() {
	var opts options
	flag.StringVar(&opts.scenarioPath, "scenario", "", "path to a JSON scenario file (empty spawns the default satellite)")
	flag.DurationVar(&opts.duration, "duration", 60*time.Second, "total simulated duration (0 runs until interrupted)")
	flag.DurationVar(&opts.tick, "tick", time.Second/60, "tick interval")
	flag.BoolVar(&opts.accelerated, "accelerated", false, "run as fast as possible instead of real time")
	flag.StringVar(&opts.listenAddr, "listen", ":9090", "address serving /metrics and /ws (empty disables)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, opts); err != nil {
		log.Error(ctx, "simulator failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, log logging.Logger, opts options) error {
	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	collector, err := observability.NewSimCollector(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	engine, err := buildEngine(ctx, log, collector, opts.scenarioPath)
	if err != nil {
		return err
	}

	srv := stream.NewServer(log)
	if opts.listenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		mux.Handle("/ws", srv)

		httpSrv := &http.Server{Addr: opts.listenAddr, Handler: mux}
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error(ctx, "http server failed", logging.String("error", err.Error()))
			}
		}()
		defer httpSrv.Close()

		log.Info(ctx, "serving metrics and stream", logging.String("addr", opts.listenAddr))
	}

	mode := timectrl.RealTime
	if opts.accelerated {
		mode = timectrl.Accelerated
	}
	driver := timectrl.NewDriver(opts.tick, mode)

	tracer := otel.Tracer("orbital-simulator")
	driver.AddListener(func(dt float64) {
		tickCtx, span := tracer.Start(ctx, "sim.tick")
		defer span.End()

		for _, pos := range srv.DrainSpawns() {
			engine.Spawn(tickCtx, pos)
		}
		res := engine.Tick(tickCtx, dt)
		srv.Broadcast(res, engine.PredictedPath())
	})

	log.Info(ctx, "simulation started",
		logging.Int("bodies", engine.ActiveBodies()),
		logging.Float64("tick_seconds", opts.tick.Seconds()),
		logging.Any("accelerated", opts.accelerated),
	)

	<-driver.Start(ctx, opts.duration)

	log.Info(ctx, "simulation finished",
		logging.Float64("sim_seconds", driver.Elapsed().Seconds()),
		logging.Int("bodies", engine.ActiveBodies()),
	)
	return nil
}

// buildEngine constructs the engine from a scenario file, or with the
// default parameter set and a single starter satellite when no scenario is
// given.
func buildEngine(ctx context.Context, log logging.Logger, collector *observability.SimCollector, path string) (*core.Engine, error) {
	if path == "" {
		engine := core.NewEngine(model.DefaultParams(), log)
		engine.SetMetricsRecorder(collector)
		engine.Spawn(ctx, model.Vec2{X: 350, Y: 0})
		return engine, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario %q: %w", path, err)
	}
	defer f.Close()

	sc, err := core.LoadScenario(f)
	if err != nil {
		return nil, err
	}

	engine := core.NewEngine(sc.Params, log)
	engine.SetMetricsRecorder(collector)
	seeded := sc.Seed(ctx, engine)
	log.Info(ctx, "scenario loaded",
		logging.String("name", sc.Name),
		logging.Int("bodies_seeded", seeded),
		logging.Int("bodies_requested", len(sc.Bodies)),
	)
	return engine, nil
}
