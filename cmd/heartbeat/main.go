package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grafana/dskit/services"
	"github.com/nm-morais/go-babel-timer/configs"
	"github.com/nm-morais/go-babel-timer/examples/heartbeat"
	"github.com/nm-morais/go-babel-timer/pkg/analytics"
	"github.com/nm-morais/go-babel-timer/pkg/clock"
	"github.com/nm-morais/go-babel-timer/pkg/logs"
	"github.com/nm-morais/go-babel-timer/pkg/loop"
	"github.com/nm-morais/go-babel-timer/pkg/timer"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	name      = "heartbeat"
	lagWeight = 0.2
	lagWindow = 50
)

func main() {
	app := cli.App{
		Name:     name,
		HelpName: name,
		Usage:    "runs a heartbeat failure detector over the logical timer service",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "config, c", Usage: "JSON config file"},
			cli.DurationFlag{Name: "interval, i", Usage: "heartbeat interval"},
			cli.DurationFlag{Name: "tick, t", Usage: "how often the loop drains due timers"},
			cli.DurationFlag{Name: "timeout", Value: 5 * time.Second, Usage: "silence before a peer is declared down"},
			cli.DurationFlag{Name: "duration, d", Usage: "stop after this long (0 runs until interrupted)"},
			cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			cli.IntFlag{Name: "peers", Value: 3, Usage: "number of simulated peers"},
			cli.Float64Flag{Name: "drop", Value: 0.2, Usage: "probability a simulated peer drops a heartbeat"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (configs.TimerConfig, error) {
	config := configs.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if config, err = configs.ReadConfigFromFile(path); err != nil {
			return config, err
		}
	}
	if c.IsSet("interval") {
		config.HeartbeatInterval = c.Duration("interval")
	}
	if c.IsSet("tick") {
		config.TickDuration = c.Duration("tick")
	}
	if c.IsSet("log-level") {
		config.LogLevel = c.String("log-level")
	}
	return config, nil
}

func run(c *cli.Context) error {
	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := logs.NewLogger(name)
	if err := logs.SetLevel(logger, config.LogLevel); err != nil {
		return err
	}

	lag := analytics.NewLagTracker(lagWeight, lagWindow)
	svc := timer.NewTimerService(
		timer.WithClock(clock.SystemClock()),
		timer.WithLogger(logger),
		timer.WithDrainObserver(func(s timer.DrainStats) {
			lag.Observe(s)
			if s.Failed > 0 {
				logger.WithFields(logrus.Fields{"fired": s.Fired, "failed": s.Failed, "pending": s.Pending}).Warn("drain had failures")
			}
			if s.MaxLag > config.TickDuration {
				logger.Warnf("timer fired %s late, tick is %s", s.MaxLag, config.TickDuration)
			}
		}),
	)
	l, lerr := loop.New(svc, config.TickDuration, logger)
	if lerr != nil {
		return lerr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d := c.Duration("duration"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	if err := services.StartAndAwaitRunning(context.Background(), l); err != nil {
		return err
	}
	defer func() {
		if err := services.StopAndAwaitTerminated(context.Background(), l); err != nil {
			logger.Errorf("stopping loop: %s", err)
		}
		if avg, ok := lag.Average(); ok {
			logger.Infof("timer lag: average %s, worst recent %s over %d drains", avg, lag.RecentMax(), lag.NrMeasurements())
		}
	}()

	drop := c.Float64("drop")
	var hb *heartbeat.Heartbeat
	var setupErr error
	err = l.SubmitSync(ctx, func() {
		var herr error
		hb, herr = heartbeat.New(svc, config.HeartbeatInterval, c.Duration("timeout"),
			func(p string) error {
				// simulated peers answer on the spot unless they drop the heartbeat
				if rand.Float64() >= drop {
					hb.HeartbeatReceived(p)
				}
				return nil
			},
			func(p string) {
				logger.Warnf("peer %s declared down", p)
			})
		if herr != nil {
			setupErr = herr
			return
		}
		hb.Logger().SetLevel(logger.GetLevel())
		for i := 0; i < c.Int("peers"); i++ {
			hb.AddPeer(fmt.Sprintf("peer-%d", i))
		}
	})
	if err != nil {
		return err
	}
	if setupErr != nil {
		return setupErr
	}

	logger.Infof("running with interval %s, tick %s", config.HeartbeatInterval, config.TickDuration)
	<-ctx.Done()
	return nil
}
