package solver

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -o solverfakes/fake_oracle.go . Oracle

// Oracle decides satisfiability of a knowledge base under additional
// unit assumptions. A call blocks until a verdict is available or ctx
// is done. Implementations report a missing verdict as *OracleError;
// there is no retry.
type Oracle interface {
	IsSatisfiable(ctx context.Context, kb *KnowledgeBase, assumptions ...Literal) (bool, error)
}

const (
	BackendGini      = "gini"
	BackendGophersat = "gophersat"
	BackendExec      = "exec"
)

const (
	// DefaultCommand is the external solver used by the exec backend.
	DefaultCommand = "minisat"
	// ExitSatisfiable and ExitUnsatisfiable are the conventional
	// solver exit statuses.
	ExitSatisfiable   = 10
	ExitUnsatisfiable = 20
)

type oracleConfig struct {
	command   string
	args      []string
	satCode   int
	unsatCode int
	log       logrus.FieldLogger
}

// OracleOption configures a backend constructed with NewOracle.
type OracleOption func(c *oracleConfig) error

// WithCommand sets the external solver executable and its arguments
// for the exec backend. The formula is always written to stdin.
func WithCommand(command string, args ...string) OracleOption {
	return func(c *oracleConfig) error {
		if command == "" {
			return errors.New("empty solver command")
		}
		c.command = command
		c.args = args
		return nil
	}
}

// WithExitCodes overrides the exit statuses the exec backend reads as
// SAT and UNSAT.
func WithExitCodes(sat, unsat int) OracleOption {
	return func(c *oracleConfig) error {
		if sat == unsat {
			return errors.Errorf("sat and unsat exit codes must differ, both are %d", sat)
		}
		c.satCode = sat
		c.unsatCode = unsat
		return nil
	}
}

// WithOracleLogger sets the logger used by a backend.
func WithOracleLogger(log logrus.FieldLogger) OracleOption {
	return func(c *oracleConfig) error {
		c.log = log
		return nil
	}
}

var oracleDefaults = []OracleOption{
	func(c *oracleConfig) error {
		if c.command == "" {
			c.command = DefaultCommand
		}
		return nil
	},
	func(c *oracleConfig) error {
		if c.satCode == 0 && c.unsatCode == 0 {
			c.satCode = ExitSatisfiable
			c.unsatCode = ExitUnsatisfiable
		}
		return nil
	},
	func(c *oracleConfig) error {
		if c.log == nil {
			c.log = discardLogger()
		}
		return nil
	},
}

var backends = map[string]func(c *oracleConfig) (Oracle, error){
	BackendGini: func(c *oracleConfig) (Oracle, error) {
		return Synchronized(newGiniOracle(c.log)), nil
	},
	BackendGophersat: func(c *oracleConfig) (Oracle, error) {
		return Synchronized(newGophersatOracle(c.log)), nil
	},
	BackendExec: func(c *oracleConfig) (Oracle, error) {
		o := newExecOracle(c)
		if err := o.Check(); err != nil {
			return nil, err
		}
		return o, nil
	},
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Backends lists the names accepted by NewOracle.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewOracle constructs the named backend. Backends that depend on
// something outside the process are checked once here and fail with
// *OracleUnavailable.
func NewOracle(backend string, options ...OracleOption) (Oracle, error) {
	build, ok := backends[backend]
	if !ok {
		return nil, errors.Errorf("unknown oracle backend %q, expected one of %s", backend, strings.Join(Backends(), ", "))
	}
	var c oracleConfig
	for _, option := range append(options, oracleDefaults...) {
		if err := option(&c); err != nil {
			return nil, err
		}
	}
	return build(&c)
}

// Synchronized wraps o so that at most one call is in flight at a
// time. Backends holding solver state between calls must be wrapped
// before they are shared between goroutines.
func Synchronized(o Oracle) Oracle {
	if _, ok := o.(*synchronized); ok {
		return o
	}
	return &synchronized{oracle: o}
}

type synchronized struct {
	mu     sync.Mutex
	oracle Oracle
}

func (s *synchronized) IsSatisfiable(ctx context.Context, kb *KnowledgeBase, assumptions ...Literal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.oracle.IsSatisfiable(ctx, kb, assumptions...)
}
