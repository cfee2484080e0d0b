package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/operator-framework/sweeper/pkg/agent"
	"github.com/operator-framework/sweeper/pkg/board"
	"github.com/operator-framework/sweeper/pkg/metrics"
	"github.com/operator-framework/sweeper/pkg/solver"
	"github.com/operator-framework/sweeper/pkg/version"
)

const (
	defaultSize    = 10
	defaultBombs   = 15
	defaultTimeout = 9 * time.Second
)

type options struct {
	generate      bool
	size          int
	bombs         int
	seed          int64
	layout        string
	oracle        string
	solverCommand []string
	satCode       int
	unsatCode     int
	workers       int
	timeout       time.Duration
	debug         bool
	trace         bool
	metricsAddr   string
	version       bool
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "sweeper",
		Short: "Play minesweeper by satisfiability",
		Long: `sweeper plays a minesweeper board. Every opened tile becomes a cardinality
constraint over its unknown neighbors, and a tile is only marked or probed once
a SAT solver proves that the accumulated constraints force it.

By default the board is read from a judge on stdin and moves are written to
stdout. Use --generate or --layout to play a board held by the process itself.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	o.addFlags(cmd.Flags())
	return cmd
}

func (o *options) addFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&o.generate, "generate", "g", false, "play a randomly generated board instead of reading one from stdin")
	flags.IntVarP(&o.size, "size", "s", defaultSize, "side length of a generated board")
	flags.IntVarP(&o.bombs, "bombs", "b", defaultBombs, "number of bombs on a generated board")
	flags.Int64Var(&o.seed, "seed", 0, "random seed for a generated board, 0 picks one from the clock")
	flags.StringVar(&o.layout, "layout", "", "play the board described by a YAML layout file")
	flags.StringVar(&o.oracle, "oracle", solver.BackendGini, fmt.Sprintf("satisfiability backend, one of %v", solver.Backends()))
	flags.StringSliceVar(&o.solverCommand, "solver-command", []string{solver.DefaultCommand}, "external solver and its arguments for the exec backend")
	flags.IntVar(&o.satCode, "sat-code", solver.ExitSatisfiable, "exit status the external solver uses for SAT")
	flags.IntVar(&o.unsatCode, "unsat-code", solver.ExitUnsatisfiable, "exit status the external solver uses for UNSAT")
	flags.IntVar(&o.workers, "workers", 1, "number of frontier tiles classified concurrently")
	flags.DurationVar(&o.timeout, "timeout", defaultTimeout, "wall-clock limit for the whole session, 0 disables it")
	flags.BoolVar(&o.debug, "debug", false, "use debug log level")
	flags.BoolVar(&o.trace, "trace", false, "log every oracle query, implies --debug")
	flags.StringVar(&o.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :8081")
	flags.BoolVar(&o.version, "version", false, "displays sweeper version")
}

func (o *options) run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	if o.version {
		fmt.Fprint(stdout, version.String())
		return nil
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	if o.debug || o.trace {
		logger.SetLevel(logrus.DebugLevel)
	}

	if o.metricsAddr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(o.metricsAddr, metricsMux); err != nil {
				logger.Errorf("Metrics (http) serving failed: %v", err)
			}
		}()
	}

	oracle, err := o.newOracle(logger)
	if err != nil {
		logger.WithError(err).Error("error configuring oracle")
		return err
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	var judge *board.Judge
	var level agent.Level
	switch {
	case o.layout != "":
		l, err := board.LoadLayout(o.layout)
		if err != nil {
			logger.WithError(err).Error("error loading layout")
			return err
		}
		if level, err = board.NewFromLayout(*l); err != nil {
			return err
		}
	case o.generate:
		seed := o.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		logger.WithField("seed", seed).Debug("generating board")
		if level, err = board.NewGenerated(o.size, o.bombs, rand.New(rand.NewSource(seed))); err != nil {
			logger.WithError(err).Error("error generating board")
			return err
		}
	default:
		if judge, err = board.NewJudge(stdin, stdout); err != nil {
			logger.WithError(err).Error("error reading board from judge")
			return err
		}
		level = judge
	}

	agentOptions := []agent.Option{
		agent.WithLogger(logger),
		agent.WithWorkers(o.workers),
	}
	if o.trace {
		agentOptions = append(agentOptions, agent.WithTracer(solver.LogrusTracer{Logger: logger}))
	}

	type outcome struct {
		summary agent.Summary
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		summary, err := agent.Run(ctx, level, oracle, agentOptions...)
		done <- outcome{summary: summary, err: err}
	}()

	var result outcome
	select {
	case result = <-done:
	case <-ctx.Done():
		logger.WithError(ctx.Err()).Warn("session interrupted")
		if judge != nil {
			// the session may be blocked reading from the judge, so it
			// is abandoned and ends with the process
			return resign(judge)
		}
		// boards held by the process stop at the next turn boundary
		result = <-done
		logger.WithField("turns", result.summary.Turns).Debug("session stopped")
		return nil
	}

	if result.err != nil {
		if !agent.IsFatal(result.err) {
			logger.WithError(result.err).Warn("session interrupted")
			return resign(judge)
		}
		logger.WithError(result.err).Error("session failed")
		return result.err
	}

	log := logger.WithFields(logrus.Fields{
		"outcome": result.summary.Outcome,
		"turns":   result.summary.Turns,
		"marked":  result.summary.Marked,
		"probed":  result.summary.Probed,
	})
	if g, ok := level.(*board.Generated); ok {
		log = log.WithField("solved", g.Solved())
	}
	log.Info("done")

	if result.summary.Outcome != agent.Completed {
		return resign(judge)
	}
	return nil
}

func (o *options) newOracle(logger logrus.FieldLogger) (solver.Oracle, error) {
	if len(o.solverCommand) == 0 {
		return nil, errors.New("--solver-command must not be empty")
	}
	oracle, err := solver.NewOracle(o.oracle,
		solver.WithCommand(o.solverCommand[0], o.solverCommand[1:]...),
		solver.WithExitCodes(o.satCode, o.unsatCode),
		solver.WithOracleLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return solver.NewInstrumentedOracle(oracle,
		metrics.OracleQuerySuccess(o.oracle),
		metrics.OracleQueryFailure(o.oracle),
	), nil
}

// resign tells a judge that no more moves are coming. Boards held by
// the process need no notice.
func resign(judge *board.Judge) error {
	if judge == nil {
		return nil
	}
	return judge.Resign()
}
