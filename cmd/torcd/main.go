// Command torcd is the composition root: it loads a device graph from a
// YAML config file, assembles and runs it, and tears it down cleanly on
// SIGINT/SIGTERM. Grounded on the teacher's cmd/pico-hal-main (same
// flag-parse -> build collaborators -> run -> wait-for-signal -> shut-down
// shape), generalized from one fixed board setup to Torc's config-driven
// graph.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"torc/bus"
	"torc/config"
	"torc/graph"
	"torc/lifecycle"
	"torc/notify"
	"torc/services/heartbeat"
	"torc/telemetry"
)

func main() {
	configPath := flag.String("config", "torc.yaml", "path to the device graph config")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	heartbeatEvery := flag.Duration("heartbeat", time.Minute, "liveness log interval")
	shutdownDelay := flag.Duration("shutdown-delay", 5*time.Second, "grace period between WillStop and Stop")
	flag.Parse()

	log := telemetry.New(os.Stderr, parseLevel(*logLevel))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("load config: %v", err)
		os.Exit(1)
	}

	b := bus.NewBus(8)
	conn := b.NewConnection("torcd")

	engine := graph.New(conn, log)
	graph.RegisterDefaultFactories()
	if errs := engine.Build(cfg); len(errs) > 0 {
		log.Warnf("graph assembled with %d error(s), see above", len(errs))
	}

	notifier := notify.NewLogNotifier(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	life := lifecycle.New(conn, *shutdownDelay)
	lifeDone := make(chan struct{})
	go func() {
		life.Run(ctx)
		close(lifeDone)
	}()

	hb := heartbeat.New(conn, log, engine.Counts)
	go hb.Run(ctx, *heartbeatEvery)

	engine.Start(ctx)
	notifier.Notify(notify.Notification{Title: "torcd", Body: fmt.Sprintf("started, config=%s", *configPath)})
	log.Infof("torcd running (config=%s)", *configPath)

	<-ctx.Done()
	log.Infof("torcd stopping")
	<-lifeDone // WillStop, the shutdown delay, then Stop
	engine.Stop()
	notifier.Notify(notify.Notification{Title: "torcd", Body: "stopped"})
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
