package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lioia/corpus-pagerank/pkg/pagerank"
	"github.com/lioia/corpus-pagerank/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var config utils.Config

var rootCmd = &cobra.Command{
	Use:               "pagerank",
	Short:             "Estimate the PageRank of a corpus",
	Long:              "Estimate the PageRank of a linked corpus with a random-walk sampler and with power iteration.",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	utils.SyncLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.Float64("damping", pagerank.DefaultDamping, "damping factor")
	flags.Int("samples", pagerank.DefaultSamples, "number of random walk steps")
	flags.Uint64("seed", 0, "random walk seed (0: random)")
	flags.Float64("threshold", pagerank.DefaultThreshold, "per-page convergence threshold")
	flags.Int("max-iterations", pagerank.DefaultMaxIterations, "maximum number of iteration passes")
	flags.Bool("node-log", false, "log estimator progress")
	flags.Bool("server-log", false, "log server and queue activity")

	_ = viper.BindPFlag("damping", flags.Lookup("damping"))
	_ = viper.BindPFlag("samples", flags.Lookup("samples"))
	_ = viper.BindPFlag("seed", flags.Lookup("seed"))
	_ = viper.BindPFlag("threshold", flags.Lookup("threshold"))
	_ = viper.BindPFlag("max_iterations", flags.Lookup("max-iterations"))
	_ = viper.BindPFlag("node_log", flags.Lookup("node-log"))
	_ = viper.BindPFlag("server_log", flags.Lookup("server-log"))
}

func initConfig(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("config")
	c, err := utils.LoadConfiguration(viper.GetViper(), file)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	config = c
	utils.InitLog(c.NodeLog, c.ServerLog)
	return nil
}

func options() pagerank.Options {
	return pagerank.Options{
		Damping:       config.Damping,
		Samples:       config.Samples,
		Seed:          config.Seed,
		Threshold:     config.Threshold,
		MaxIterations: config.MaxIterations,
	}
}
