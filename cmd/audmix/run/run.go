// SPDX-License-Identifier: EPL-2.0

// Package run implements "audmix run": replay a session script against a
// mixer, on simulated voices or through a real audio backend.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/ik5/audmix"
	"github.com/ik5/audmix/backend/beepaudio"
	"github.com/ik5/audmix/backend/ebitenaudio"
	"github.com/ik5/audmix/cmd/audmix/common"
	"github.com/ik5/audmix/internal/script"
	"github.com/ik5/audmix/voice"
	"github.com/ik5/audmix/voice/sim"
	"github.com/spf13/cobra"
)

const (
	BackendSim    = "sim"
	BackendEbiten = "ebiten"
	BackendBeep   = "beep"
)

type Params struct {
	Config     string `short:"c" required:"true" help:"Mixer config (YAML)."`
	Script     string `short:"s" required:"true" help:"Session script (YAML)."`
	Backend    string `short:"b" optional:"true" help:"Voice backend." default:"sim" alts:"sim,ebiten,beep"`
	Tick       string `short:"t" optional:"true" help:"Frame length." default:"16ms"`
	SampleRate int    `optional:"true" help:"Output sample rate for real backends." default:"44100"`
	Watch      bool   `short:"w" optional:"true" help:"Replay the script whenever it changes." default:"false"`
	Trace      bool   `optional:"true" help:"Print a table of state changes." default:"false"`
	Verbose    bool   `short:"v" optional:"true" help:"Log state transitions." default:"false"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "run",
		Short: "Replay a session script against the mixer",
		Long: `Build a mixer from a config file and replay a session script against it.
With the sim backend the script runs as fast as possible; real backends play
it in real time.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			log := common.NewLogger(os.Stderr, params.Verbose)
			if err := Run(ctx, os.Stdout, log, params); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("run failed", "error", err)
				stop()
				common.Fail("run", err)
			}
		},
	}.ToCobra()
}

// Run replays params.Script once, or on every change when params.Watch is
// set, until ctx is done.
func Run(ctx context.Context, out io.Writer, log *slog.Logger, params *Params) error {
	tick, err := time.ParseDuration(params.Tick)
	if err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	cfg, err := audmix.LoadConfig(params.Config)
	if err != nil {
		return err
	}
	lib, err := audmix.LoadLibrary(nil, cfg)
	if err != nil {
		return err
	}
	log.Info("library loaded", "effects", len(lib.Effects), "music", len(lib.Music))

	b, err := newBackend(params, log)
	if err != nil {
		return err
	}

	if !params.Watch {
		return session(ctx, out, log, params, cfg, lib, b, tick)
	}

	w, err := script.Watch(params.Script)
	if err != nil {
		return err
	}
	defer w.Close()

	for {
		if err := session(ctx, out, log, params, cfg, lib, b, tick); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Error("session failed", "error", err)
		}

		log.Info("waiting for changes", "script", params.Script)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-w.Events:
			if !ok {
				return nil
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		}
	}
}

// backend hands out voice factories, one per session.
type backend struct {
	realtime bool
	// voices returns the factory for a new session and, for simulated
	// voices, the clock the session has to drive.
	voices func() (voice.Factory, *sim.Clock)
}

func newBackend(params *Params, log *slog.Logger) (backend, error) {
	switch params.Backend {
	case BackendSim:
		return backend{voices: func() (voice.Factory, *sim.Clock) {
			clock := sim.NewClock()
			return sim.NewBank(clock).Factory, clock
		}}, nil

	case BackendEbiten:
		if !ebitenaudio.Available {
			return backend{}, ebitenaudio.ErrUnavailable
		}
		b := ebitenaudio.NewBackend(params.SampleRate, log)
		return backend{realtime: true, voices: func() (voice.Factory, *sim.Clock) {
			return b.Factory, nil
		}}, nil

	case BackendBeep:
		b, err := beepaudio.NewBackend(params.SampleRate, log)
		if err != nil {
			return backend{}, err
		}
		return backend{realtime: true, voices: func() (voice.Factory, *sim.Clock) {
			return b.Factory, nil
		}}, nil

	default:
		return backend{}, fmt.Errorf("%w %q", ErrUnknownBackend, params.Backend)
	}
}

func session(ctx context.Context, out io.Writer, log *slog.Logger, params *Params,
	cfg audmix.Config, lib audmix.Library, b backend, tick time.Duration,
) error {
	s, err := script.Load(params.Script)
	if err != nil {
		return err
	}

	factory, clock := b.voices()
	opts := []audmix.Option{audmix.WithLogger(log)}
	runOpts := []script.RunOption{script.WithTick(tick), script.WithRealtime(b.realtime)}
	if clock != nil {
		opts = append(opts, audmix.WithClock(clock.Time))
		runOpts = append(runOpts, script.WithAdvance(clock.Advance))
	}

	m, err := audmix.New(cfg, lib, factory, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("mixer close", "error", err)
		}
	}()

	var tr *tracer
	if params.Trace {
		tr = newTracer(out)
		runOpts = append(runOpts, script.WithFrame(func(f script.Frame) {
			tr.add(f, m.Snapshot())
		}))
	}

	log.Info("session start", "script", s.Name, "steps", len(s.Steps), "length", s.End())
	err = script.Run(ctx, m, s, runOpts...)
	if tr != nil {
		tr.render()
	}
	if err != nil {
		return err
	}

	log.Info("session done", "music", m.CurrentMusic(), "effects", m.ActiveEffects())
	return nil
}
