package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/gorustyt/navcore/common"
	"github.com/gorustyt/navcore/config"
	"github.com/gorustyt/navcore/grid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func GridCmd() *cobra.Command {
	var configFile string
	c := &cobra.Command{
		Use:   "grid",
		Short: "plan across a random obstacle grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(configFile)
			if err != nil {
				return err
			}
			defer log.Sync()
			_, err = runGrid(cmd.Context(), cfg, log)
			return err
		},
	}
	c.Flags().StringVar(&configFile, "config", "", "config file")
	return c
}

// tally counts query outcomes.
type tally struct {
	Queries  int
	Outcomes [common.Canceled + 1]int
	Points   int
}

func (t *tally) add(o common.Outcome, points int) {
	t.Queries++
	t.Outcomes[o]++
	t.Points += points
}

func (t *tally) merge(o tally) {
	t.Queries += o.Queries
	for i, n := range o.Outcomes {
		t.Outcomes[i] += n
	}
	t.Points += o.Points
}

func (t *tally) fields() []zap.Field {
	return []zap.Field{
		zap.Int("queries", t.Queries),
		zap.Int("complete", t.Outcomes[common.Complete]),
		zap.Int("partial", t.Outcomes[common.Partial]),
		zap.Int("unreachable", t.Outcomes[common.Unreachable]),
		zap.Int("invalid", t.Outcomes[common.InvalidInput]),
		zap.Int("points", t.Points),
	}
}

// obstacleWorld marks cells solid at the given density. Cell (0,0) always stays open.
func obstacleWorld(rng *rand.Rand, side int, density float64) []bool {
	solid := make([]bool, side*side)
	for i := range solid {
		if i == 0 {
			continue
		}
		solid[i] = rng.Float64() < density
	}
	return solid
}

func randomOpenCell(rng *rand.Rand, solid []bool, side int) grid.Cell {
	for {
		i := rng.Intn(len(solid))
		if !solid[i] {
			return grid.Cell{X: i % side, Y: i / side}
		}
	}
}

// runGrid plans Bench.Queries random routes per agent. Every agent owns its planner;
// the obstacle world is shared read-only.
func runGrid(ctx context.Context, cfg config.Config, log *zap.Logger) (tally, error) {
	alg, err := grid.ParseAlgorithm(cfg.Grid.Algorithm)
	if err != nil {
		return tally{}, err
	}
	opts, err := cfg.GridOptions()
	if err != nil {
		return tally{}, err
	}
	side := cfg.Grid.Side
	solid := obstacleWorld(newRand(cfg), side, cfg.Grid.ObstacleDensity)
	isSolid := func(c grid.Cell) bool { return solid[c.Y*side+c.X] }
	opts = append(opts, grid.WithIsSolid(isSolid), grid.WithLogger(log))

	log.Info("grid bench start",
		zap.Stringer("algorithm", alg), zap.Int("side", side), zap.Int("agents", cfg.Bench.Agents))
	begin := time.Now()
	tallies := make([]tally, cfg.Bench.Agents)
	g, ctx := errgroup.WithContext(ctx)
	for agent := range tallies {
		agent := agent
		g.Go(func() error {
			planner, err := grid.NewPlanner(alg, side, opts...)
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(cfg.Bench.Seed + int64(agent) + 1))
			var path []grid.Cell
			for q := 0; q < cfg.Bench.Queries; q++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				start := randomOpenCell(rng, solid, side)
				goal := randomOpenCell(rng, solid, side)
				status := planner.ComputePath(start, goal, &path)
				simplified := grid.SimplifyPath(path, cfg.Grid.SimplifyTolerance)
				tallies[agent].add(status.Outcome(), len(simplified))
				log.Debug("grid query",
					zap.Int("agent", agent), zap.Stringer("start", start), zap.Stringer("goal", goal),
					zap.Stringer("status", status), zap.Int("cells", len(path)), zap.Int("points", len(simplified)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return tally{}, err
	}
	var total tally
	for _, t := range tallies {
		total.merge(t)
	}
	log.Info("grid bench done", append(total.fields(), zap.Duration("elapsed", time.Since(begin)))...)
	return total, nil
}
