// Command formflow runs a wizard definition interactively in the terminal.
//
//	formflow -definition wizard.yaml -journal sqlite://wizard.db
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/petrijr/formflow"
)

type config struct {
	definition  string
	journal     string
	logLevel    string
	submitDelay time.Duration
	failFirst   bool
	history     bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.definition, "definition", "", "wizard definition YAML file (required)")
	flag.StringVar(&cfg.journal, "journal", "memory", "journal URL: memory, sqlite://path, postgres://..., redis://..., mongodb://...")
	flag.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flag.DurationVar(&cfg.submitDelay, "submit-delay", 2*time.Second, "simulated duration of the final submission")
	flag.BoolVar(&cfg.failFirst, "fail-first", false, "fail the first submission attempt to exercise retry")
	flag.BoolVar(&cfg.history, "history", false, "print the journaled transitions on exit")
	flag.Parse()

	if cfg.definition == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, newSurveyDriver(os.Stdout), os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "formflow:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, driver PromptDriver, stdout, stderr io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		return fmt.Errorf("invalid -log-level %q: %w", cfg.logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	journal, err := formflow.OpenJournal(ctx, cfg.journal)
	if err != nil {
		return err
	}
	defer func() {
		if err := journal.Close(); err != nil {
			logger.Warn("journal_close", slog.Any("error", err))
		}
	}()

	metrics := &formflow.BasicMetrics{}
	w, err := formflow.LoadWizard(cfg.definition,
		formflow.WithJournal(journal),
		formflow.WithObserver(formflow.NewCompositeObserver(formflow.NewLoggingObserver(logger), metrics)),
		formflow.WithFinalize(submitter(stdout, cfg.submitDelay, cfg.failFirst)),
	)
	if err != nil {
		return err
	}
	logger.Info("journal_open", slog.String("backend", journal.Backend), slog.String("wizard_id", w.ID()))

	runErr := newShell(w, driver).run(ctx)

	snap := metrics.Snapshot()
	logger.Info("wizard_metrics",
		slog.Int64("advances", snap.Advances),
		slog.Int64("retreats", snap.Retreats),
		slog.Int64("validation_failures", snap.ValidationFailures),
		slog.Int64("submits_succeeded", snap.SubmitsSucceeded),
		slog.Int64("submits_failed", snap.SubmitsFailed),
		slog.Duration("avg_submit", snap.AvgSubmitDuration),
	)

	if cfg.history {
		if err := printHistory(ctx, stdout, w); err != nil {
			return err
		}
	}
	return runErr
}

// submitter returns the finalize action: it waits for delay, then prints the
// submitted values as JSON.
func submitter(out io.Writer, delay time.Duration, failFirst bool) formflow.FinalizeFunc {
	var attempts atomic.Int64
	return func(ctx context.Context, values *formflow.FormValues) error {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if attempts.Add(1) == 1 && failFirst {
			return errors.New("simulated outage")
		}
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Submitted:\n%s\n", data)
		return err
	}
}

func printHistory(ctx context.Context, out io.Writer, w formflow.Wizard) error {
	events, err := w.History(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	fmt.Fprintf(out, "History of %s (%d events):\n", w.ID(), len(events))
	for i, ev := range events {
		line := fmt.Sprintf("%3d  %s  %-24s step=%d %q", i+1, ev.At.Format(time.RFC3339), ev.Type, ev.Step, ev.Label)
		if ev.Detail != "" {
			line += "  " + ev.Detail
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
