package main

import (
	"context"
	"errors"
	"testing"

	"github.com/gorustyt/navcore/common"
	"github.com/gorustyt/navcore/config"
	"go.uber.org/zap"
)

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Grid.Side = 16
	cfg.Grid.ObstacleDensity = 0.1
	cfg.NavMesh.Width = 16
	cfg.NavMesh.Depth = 16
	cfg.NavMesh.Clusters = 2
	cfg.NavMesh.ClusterSize = 4
	cfg.NavMesh.Obstacles = 2
	cfg.Bench.Agents = 2
	cfg.Bench.Queries = 4
	return cfg
}

func TestRunGridEveryAlgorithm(t *testing.T) {
	for _, alg := range []string{"dijkstra", "astar", "dstarlite", "bfs", "flowfield", "distancefield"} {
		cfg := smallConfig()
		cfg.Grid.Algorithm = alg
		total, err := runGrid(context.Background(), cfg, zap.NewNop())
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if total.Queries != 8 || total.Outcomes[common.InvalidInput] != 0 {
			t.Errorf("%s: unexpected tally %+v", alg, total)
		}
	}
}

func TestRunGridCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runGrid(ctx, smallConfig(), zap.NewNop()); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v", err)
	}
}

func TestRunMesh(t *testing.T) {
	cfg := smallConfig()
	total, err := runMesh(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if total.Queries != 8 || total.Outcomes[common.InvalidInput] != 0 {
		t.Errorf("unexpected tally %+v", total)
	}
}

func TestBuildMeshDeterministic(t *testing.T) {
	cfg := smallConfig()
	cfg.NavMesh.Adjacency = "bruteforce"
	a, err := buildMesh(cfg, newRand(cfg), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	b, err := buildMesh(cfg, newRand(cfg), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if a.TriangleCount() != b.TriangleCount() || a.TriangleCount() == 0 {
		t.Errorf("triangle counts %d %d", a.TriangleCount(), b.TriangleCount())
	}
	if a.ObstacleCount() != 2 {
		t.Errorf("obstacles %d", a.ObstacleCount())
	}
}
