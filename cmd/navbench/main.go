package main

import (
	"fmt"
	"os"

	"github.com/gorustyt/navcore/common/logger"
	"github.com/gorustyt/navcore/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root := &cobra.Command{
		Use:          "navbench",
		Short:        "grid and navmesh pathfinding benchmarks",
		SilenceUsage: true,
	}
	root.AddCommand(GridCmd(), MeshCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(configFile string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}
