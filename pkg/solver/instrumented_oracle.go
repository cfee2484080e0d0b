package solver

import (
	"context"
	"time"
)

type InstrumentedOracle struct {
	oracle                Oracle
	successMetricsEmitter func(time.Duration)
	failureMetricsEmitter func(time.Duration)
}

var _ Oracle = &InstrumentedOracle{}

func NewInstrumentedOracle(oracle Oracle, successMetricsEmitter, failureMetricsEmitter func(time.Duration)) *InstrumentedOracle {
	return &InstrumentedOracle{
		oracle:                oracle,
		successMetricsEmitter: successMetricsEmitter,
		failureMetricsEmitter: failureMetricsEmitter,
	}
}

func (io *InstrumentedOracle) IsSatisfiable(ctx context.Context, kb *KnowledgeBase, assumptions ...Literal) (bool, error) {
	start := time.Now()
	sat, err := io.oracle.IsSatisfiable(ctx, kb, assumptions...)
	if err != nil {
		io.failureMetricsEmitter(time.Since(start))
	} else {
		io.successMetricsEmitter(time.Since(start))
	}
	return sat, err
}
