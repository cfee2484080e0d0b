package solver

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
)

// execOracle runs an external solver once per query. The whole
// formula, followed by one unit clause per assumption, is written to
// the solver's stdin in DIMACS form and the verdict is read from its
// exit status.
type execOracle struct {
	command   string
	args      []string
	satCode   int
	unsatCode int
	log       logrus.FieldLogger
}

var _ Oracle = &execOracle{}

func newExecOracle(c *oracleConfig) *execOracle {
	return &execOracle{
		command:   c.command,
		args:      c.args,
		satCode:   c.satCode,
		unsatCode: c.unsatCode,
		log:       c.log.WithField("backend", BackendExec),
	}
}

// Check verifies that the solver executable can be found.
func (o *execOracle) Check() error {
	if _, err := exec.LookPath(o.command); err != nil {
		return &OracleUnavailable{Backend: BackendExec, Err: err}
	}
	return nil
}

func (o *execOracle) IsSatisfiable(ctx context.Context, kb *KnowledgeBase, assumptions ...Literal) (bool, error) {
	var in bytes.Buffer
	if err := kb.WriteDIMACS(&in, assumptions...); err != nil {
		return false, err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, o.command, o.args...)
	cmd.Stdin = &in
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log := o.log.WithFields(logrus.Fields{
		"clauses":  kb.Len() + len(assumptions),
		"duration": time.Since(start),
	})

	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if cmd.ProcessState == nil {
		return false, &OracleError{Backend: BackendExec, Reason: fmt.Sprintf("failed to run %s: %v", o.command, err)}
	}

	switch code := cmd.ProcessState.ExitCode(); code {
	case o.satCode:
		log.Debug("sat")
		return true, nil
	case o.unsatCode:
		log.Debug("unsat")
		return false, nil
	default:
		log.WithField("stderr", stderr.String()).Warnf("unexpected exit status %d", code)
		return false, &OracleError{Backend: BackendExec, Reason: fmt.Sprintf("%s exited with unexpected status %d", o.command, code)}
	}
}
