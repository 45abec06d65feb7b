package main

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/gorustyt/navcore/common"
	"github.com/gorustyt/navcore/config"
	"github.com/gorustyt/navcore/navmesh"
	"github.com/gorustyt/navcore/navquery"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func MeshCmd() *cobra.Command {
	var configFile string
	c := &cobra.Command{
		Use:   "mesh",
		Short: "build, edit and query a heightmap navmesh",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(configFile)
			if err != nil {
				return err
			}
			defer log.Sync()
			_, err = runMesh(cmd.Context(), cfg, log)
			return err
		},
	}
	c.Flags().StringVar(&configFile, "config", "", "config file")
	return c
}

// buildMesh triangulates rolling terrain, punches random holes into it and carves the
// configured number of obstacles. The mesh comes back with fresh BVH and heatmap.
func buildMesh(cfg config.Config, rng *rand.Rand, log *zap.Logger) (*navmesh.Mesh, error) {
	nm := cfg.NavMesh
	hm, err := navmesh.NewHeightmap(nm.Width, nm.Depth, nm.CellSize, common.Vec3{})
	if err != nil {
		return nil, err
	}
	hm.Fill(func(x, z int) float32 {
		return nm.Amplitude * float32(math.Sin(float64(x)*0.2)*math.Cos(float64(z)*0.2))
	})
	opts, err := cfg.MeshOptions()
	if err != nil {
		return nil, err
	}
	mesh, err := navmesh.Build(hm, append(opts, navmesh.WithLogger(log))...)
	if err != nil {
		return nil, err
	}
	built := mesh.TriangleCount()

	removed := mesh.RemoveRandomClusters(rng, nm.Clusters, nm.ClusterSize)
	bmin, bmax := mesh.Bounds()
	for i := 0; i < nm.Obstacles; i++ {
		x := bmin[0] + rng.Float32()*(bmax[0]-bmin[0])
		z := bmin[2] + rng.Float32()*(bmax[2]-bmin[2])
		size := nm.CellSize * (1 + rng.Float32()*2)
		if i%2 == 0 {
			mesh.AddObstacle(&navmesh.AABBObstacle{
				Min: common.Vec3{x - size, bmin[1] - 1, z - size},
				Max: common.Vec3{x + size, bmax[1] + 1, z + size},
			})
		} else {
			mesh.AddObstacle(&navmesh.CylinderObstacle{
				Base:   common.Vec3{x, bmin[1] - 1, z},
				Radius: size,
				Height: bmax[1] - bmin[1] + 2,
			})
		}
	}
	carved := mesh.CarveObstacles()

	mesh.BuildBVH()
	mesh.ComputeHeatmap()
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	log.Info("navmesh ready",
		zap.Int("built", built), zap.Int("removed", removed), zap.Int("carved", carved),
		zap.Int("triangles", mesh.TriangleCount()), zap.Int("bvh_nodes", len(mesh.BVH().Nodes)))
	return mesh, nil
}

func newRand(cfg config.Config) *rand.Rand {
	return rand.New(rand.NewSource(cfg.Bench.Seed))
}

// runMesh runs Bench.Queries centroid-to-centroid queries per agent, one Query each.
func runMesh(ctx context.Context, cfg config.Config, log *zap.Logger) (tally, error) {
	mesh, err := buildMesh(cfg, newRand(cfg), log)
	if err != nil {
		return tally{}, err
	}
	n := int32(mesh.TriangleCount())
	if n == 0 {
		log.Warn("navmesh is empty, nothing to query")
		return tally{}, nil
	}

	begin := time.Now()
	tallies := make([]tally, cfg.Bench.Agents)
	g, ctx := errgroup.WithContext(ctx)
	for agent := range tallies {
		agent := agent
		g.Go(func() error {
			q := navquery.NewQuery(mesh, append(cfg.QueryOptions(), navquery.WithLogger(log))...)
			rng := rand.New(rand.NewSource(cfg.Bench.Seed + int64(agent) + 1))
			for i := 0; i < cfg.Bench.Queries; i++ {
				start := mesh.Centroid(rng.Int31n(n))
				goal := mesh.Centroid(rng.Int31n(n))
				res := q.FindPathContext(ctx, start, goal)
				if res.Outcome() == common.Canceled {
					return ctx.Err()
				}
				tallies[agent].add(res.Outcome(), len(res.Path))
				log.Debug("mesh query",
					zap.Int("agent", agent), zap.Stringer("status", res.Status),
					zap.Int("corridor", len(res.Corridor)), zap.Int("points", len(res.Path)))
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
	log.Info("mesh bench done", append(total.fields(), zap.Duration("elapsed", time.Since(begin)))...)
	return total, nil
}
