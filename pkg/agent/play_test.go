package agent_test

import (
	"context"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/ptr"

	"github.com/operator-framework/sweeper/pkg/agent"
	"github.com/operator-framework/sweeper/pkg/board"
	"github.com/operator-framework/sweeper/pkg/grid"
	"github.com/operator-framework/sweeper/pkg/solver"
)

var _ = Describe("Playing a generated board", func() {
	var (
		ctx    context.Context
		oracle solver.Oracle
		logger *logrus.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		oracle, err = solver.NewOracle(solver.BackendGini)
		Expect(err).ToNot(HaveOccurred())
		logger = logrus.New()
		logger.SetOutput(GinkgoWriter)
		logger.SetLevel(logrus.DebugLevel)
	})

	play := func(l board.Layout, options ...agent.Option) (*board.Generated, agent.Summary) {
		g, err := board.NewFromLayout(l)
		Expect(err).ToNot(HaveOccurred())
		summary, err := agent.Run(ctx, g, oracle, append(options, agent.WithLogger(logger))...)
		Expect(err).ToNot(HaveOccurred())
		return g, summary
	}

	When("a single bomb sits in a corner", func() {
		layout := board.Layout{
			Size:  4,
			Mines: []grid.Position{{Row: 3, Col: 3}},
			Start: ptr.To(grid.Position{Row: 0, Col: 0}),
		}

		It("marks the bomb and completes", func() {
			g, summary := play(layout)
			Expect(summary.Outcome).To(Equal(agent.Completed))
			Expect(summary.Marked).To(Equal(1))
			Expect(g.IsMarked(grid.Position{Row: 3, Col: 3})).To(BeTrue())
			Expect(g.Solved()).To(BeTrue())
		})

		It("stalls once nothing is left to deduce if the bomb total is hidden", func() {
			hidden := layout
			hidden.HideBombCount = true
			g, summary := play(hidden)
			Expect(summary.Outcome).To(Equal(agent.Stalled))
			Expect(summary.Marked).To(Equal(1))
			Expect(g.Solved()).To(BeTrue())
		})
	})

	When("the safe tile is only found by comparing neighbors", func() {
		// * ? *
		// 1 2 1
		// . . .
		layout := board.Layout{
			Size:  3,
			Mines: []grid.Position{{Row: 0, Col: 0}, {Row: 0, Col: 2}},
			Start: ptr.To(grid.Position{Row: 2, Col: 1}),
		}

		DescribeTable("solves the board",
			func(workers int) {
				g, summary := play(layout, agent.WithWorkers(workers))
				Expect(summary.Outcome).To(Equal(agent.Completed))
				Expect(summary.Marked).To(Equal(2))
				Expect(summary.Probed).To(Equal(1))
				Expect(g.Solved()).To(BeTrue())
			},
			Entry("sequentially", 1),
			Entry("concurrently", 4),
		)
	})

	When("the board is random", func() {
		It("never probes a bomb and only marks bombs", func() {
			for seed := int64(0); seed < 10; seed++ {
				g, err := board.NewGenerated(8, 10, rand.New(rand.NewSource(seed)))
				Expect(err).ToNot(HaveOccurred())

				summary, err := agent.Run(ctx, g, oracle)
				Expect(err).ToNot(HaveOccurred(), "seed %d", seed)
				Expect(summary.Outcome).To(BeElementOf(agent.Completed, agent.Stalled))

				for row := 0; row < 8; row++ {
					for col := 0; col < 8; col++ {
						p := grid.Position{Row: row, Col: col}
						if g.IsMarked(p) {
							Expect(g.Count(p)).To(Equal(-1), "seed %d marked safe tile %s", seed, p)
						}
					}
				}
				if summary.Outcome == agent.Completed {
					Expect(g.Solved()).To(BeTrue())
				}
			}
		})
	})
})
