package main

import (
	"os"

	"github.com/operator-framework/sweeper/pkg/lib/signals"
	"github.com/operator-framework/sweeper/pkg/metrics"
)

func init() {
	metrics.Register()
}

func main() {
	if err := newRootCmd().ExecuteContext(signals.Context()); err != nil {
		os.Exit(1)
	}
}
