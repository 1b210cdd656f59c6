package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/zeusync/arkanoid/internal/config"
	"github.com/zeusync/arkanoid/internal/core/observability/log"
	"github.com/zeusync/arkanoid/internal/game"
	"github.com/zeusync/arkanoid/internal/injector"
	"github.com/zeusync/arkanoid/internal/level"
)

type options struct {
	configPath string
	startLevel string
	realtime   bool
	maxTicks   uint64
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "configs/arkanoid.yaml", "path to the runner config")
	flag.StringVar(&opts.startLevel, "level", "", "level to start from (default: the first one)")
	flag.BoolVar(&opts.realtime, "realtime", true, "pace ticks at physics.fixed_delta_time")
	flag.Uint64Var(&opts.maxTicks, "max-ticks", 0, "give up a round after this many ticks (0: no limit)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, "arkanoid:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	// level paths are relative to the config file
	paths := make([]string, len(cfg.Levels))
	for i, p := range cfg.Levels {
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(opts.configPath), p)
		}
		paths[i] = p
	}
	levels, err := level.LoadCollection(ctx, paths)
	if err != nil {
		return err
	}

	rt, cleanup, err := injector.InitializeRuntime(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := rt.Logger.Named("runner")

	if cfg.Server.Enabled {
		if err = rt.Server.Start(ctx); err != nil {
			return err
		}
	}

	lvl, err := levels.First()
	if opts.startLevel != "" {
		lvl, err = levels.Get(opts.startLevel)
	}
	if err != nil {
		return err
	}

	for {
		state, err := playLevel(ctx, rt, lvl, opts)
		if err != nil {
			return err
		}
		logger.Info("level finished",
			log.String("level", lvl.Name),
			log.Stringer("state", state),
			log.Int("score", rt.Session.Score()),
		)
		if state != game.StateWon {
			return nil
		}
		if !levels.HasNext(lvl.Name) {
			logger.Info("all levels cleared", log.Int("score", rt.Session.Score()))
			return nil
		}
		if lvl, err = levels.Next(lvl.Name); err != nil {
			return err
		}
	}
}

// playLevel runs one round until it is decided, the tick budget runs out or
// ctx is cancelled.
func playLevel(ctx context.Context, rt *injector.Runtime, lvl *level.Level, opts options) (game.State, error) {
	session := rt.Session
	if err := session.LoadLevel(lvl); err != nil {
		return game.StateIdle, err
	}
	if err := session.LaunchRandom(); err != nil {
		return game.StateIdle, err
	}

	var pace <-chan time.Time
	if opts.realtime {
		ticker := time.NewTicker(rt.Config.Physics.FixedDeltaTime)
		defer ticker.Stop()
		pace = ticker.C
	}

	start := session.Ticks()
	for !session.State().Done() {
		if opts.maxTicks > 0 && session.Ticks()-start >= opts.maxTicks {
			break
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				return session.State(), nil
			case <-pace:
			}
		} else if ctx.Err() != nil {
			return session.State(), nil
		}

		if err := session.Autopilot(); err != nil {
			return session.State(), err
		}
		session.Tick()

		if rt.Config.Server.Enabled {
			if err := rt.Server.Broadcast(session.Snapshot()); err != nil {
				rt.Logger.Warn("snapshot broadcast failed", log.Error(err))
			}
		}
	}
	return session.State(), nil
}
