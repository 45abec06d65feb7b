// Package config loads the YAML settings of the navbench harness.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gorustyt/navcore/common/logger"
	"github.com/gorustyt/navcore/grid"
	"github.com/gorustyt/navcore/navmesh"
	"github.com/gorustyt/navcore/navquery"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Grid struct {
	Side          int    `yaml:"side"`
	Connectivity  string `yaml:"connectivity"`
	CostModel     string `yaml:"cost_model"`
	AbortDistance int    `yaml:"abort_distance"`
	MaxIterations int    `yaml:"max_iterations"`
	Algorithm     string `yaml:"algorithm"`
	// ObstacleDensity is the fraction of cells made solid by the bench world.
	ObstacleDensity   float64 `yaml:"obstacle_density"`
	SimplifyTolerance float64 `yaml:"simplify_tolerance"`
}

type NavMesh struct {
	Width     int     `yaml:"width"`
	Depth     int     `yaml:"depth"`
	CellSize  float32 `yaml:"cell_size"`
	LeafSize  int     `yaml:"leaf_size"`
	MaxDepth  int     `yaml:"max_depth"`
	Adjacency string  `yaml:"adjacency"`
	// Amplitude scales the generated terrain heights.
	Amplitude   float32 `yaml:"amplitude"`
	Clusters    int     `yaml:"clusters"`
	ClusterSize int     `yaml:"cluster_size"`
	Obstacles   int     `yaml:"obstacles"`
}

type Query struct {
	ResampleSpacing float32 `yaml:"resample_spacing"`
	LineOfSightStep float32 `yaml:"line_of_sight_step"`
}

type Bench struct {
	Agents  int   `yaml:"agents"`
	Queries int   `yaml:"queries"`
	Seed    int64 `yaml:"seed"`
}

type Config struct {
	Log     logger.Config `yaml:"log"`
	Grid    Grid          `yaml:"grid"`
	NavMesh NavMesh       `yaml:"navmesh"`
	Query   Query         `yaml:"query"`
	Bench   Bench         `yaml:"bench"`
}

func Default() Config {
	return Config{
		Log: logger.DefaultConfig(),
		Grid: Grid{
			Side:              64,
			Connectivity:      "8",
			CostModel:         "squared",
			AbortDistance:     32,
			MaxIterations:     20,
			Algorithm:         "astar",
			ObstacleDensity:   0.2,
			SimplifyTolerance: 0.5,
		},
		NavMesh: NavMesh{
			Width:       64,
			Depth:       64,
			CellSize:    1,
			LeafSize:    256,
			MaxDepth:    20,
			Adjacency:   "hashed",
			Amplitude:   2,
			Clusters:    8,
			ClusterSize: 12,
			Obstacles:   4,
		},
		Query: Query{
			ResampleSpacing: 1,
			LineOfSightStep: 0.25,
		},
		Bench: Bench{
			Agents:  4,
			Queries: 32,
			Seed:    1,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}
	switch {
	case c.Grid.Side <= 0:
		return bad("grid.side %d", c.Grid.Side)
	case c.Grid.AbortDistance < 0:
		return bad("grid.abort_distance %d", c.Grid.AbortDistance)
	case c.Grid.MaxIterations < 0:
		return bad("grid.max_iterations %d", c.Grid.MaxIterations)
	case c.Grid.ObstacleDensity < 0 || c.Grid.ObstacleDensity >= 1:
		return bad("grid.obstacle_density %v", c.Grid.ObstacleDensity)
	case c.NavMesh.Width < 2 || c.NavMesh.Depth < 2:
		return bad("navmesh size %dx%d", c.NavMesh.Width, c.NavMesh.Depth)
	case c.NavMesh.CellSize <= 0:
		return bad("navmesh.cell_size %v", c.NavMesh.CellSize)
	case c.NavMesh.LeafSize <= 0:
		return bad("navmesh.leaf_size %d", c.NavMesh.LeafSize)
	case c.NavMesh.MaxDepth < 0:
		return bad("navmesh.max_depth %d", c.NavMesh.MaxDepth)
	case c.Query.ResampleSpacing < 0:
		return bad("query.resample_spacing %v", c.Query.ResampleSpacing)
	case c.Query.LineOfSightStep <= 0:
		return bad("query.line_of_sight_step %v", c.Query.LineOfSightStep)
	case c.Bench.Agents <= 0 || c.Bench.Queries < 0:
		return bad("bench agents %d queries %d", c.Bench.Agents, c.Bench.Queries)
	}
	if _, err := grid.ParseConnectivity(c.Grid.Connectivity); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := grid.ParseCostModel(c.Grid.CostModel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := grid.ParseAlgorithm(c.Grid.Algorithm); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := navmesh.ParseAdjacencyMode(c.NavMesh.Adjacency); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// GridOptions translates the grid section into planner options.
func (c *Config) GridOptions() ([]grid.Option, error) {
	conn, err := grid.ParseConnectivity(c.Grid.Connectivity)
	if err != nil {
		return nil, err
	}
	cost, err := grid.ParseCostModel(c.Grid.CostModel)
	if err != nil {
		return nil, err
	}
	return []grid.Option{
		grid.WithConnectivity(conn),
		grid.WithCostModel(cost),
		grid.WithAbortDistance(c.Grid.AbortDistance),
		grid.WithMaxIterations(c.Grid.MaxIterations),
	}, nil
}

func (c *Config) MeshOptions() ([]navmesh.Option, error) {
	mode, err := navmesh.ParseAdjacencyMode(c.NavMesh.Adjacency)
	if err != nil {
		return nil, err
	}
	return []navmesh.Option{
		navmesh.WithLeafSize(c.NavMesh.LeafSize),
		navmesh.WithMaxDepth(c.NavMesh.MaxDepth),
		navmesh.WithAdjacency(mode),
	}, nil
}

func (c *Config) QueryOptions() []navquery.Option {
	return []navquery.Option{
		navquery.WithResampleSpacing(c.Query.ResampleSpacing),
		navquery.WithLineOfSightStep(c.Query.LineOfSightStep),
	}
}
