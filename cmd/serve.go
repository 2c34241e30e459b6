package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/lioia/corpus-pagerank/pkg/node"
	"github.com/lioia/corpus-pagerank/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rank jobs over HTTP and gRPC",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("api-port", 8080, "HTTP API port")
	serveCmd.Flags().Int("rpc-port", 50051, "gRPC port")
	_ = viper.BindPFlag("api_port", serveCmd.Flags().Lookup("api-port"))
	_ = viper.BindPFlag("rpc_port", serveCmd.Flags().Lookup("rpc-port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ranker := &node.Ranker{Defaults: options(), Metrics: node.NewMetrics(reg)}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", config.RpcPort))
	if err != nil {
		return fmt.Errorf("could not listen on rpc port %d: %w", config.RpcPort, err)
	}
	server := grpc.NewServer()
	node.RegisterRankerServer(server, &node.RankerServerImpl{Ranker: ranker})
	api := node.NewApiServer(ranker, reg)

	errs := make(chan error, 2)
	go func() {
		utils.ServerLog("Starting gRPC server on port %d", config.RpcPort)
		errs <- server.Serve(lis)
	}()
	go func() {
		utils.ServerLog("Starting HTTP API on port %d", config.ApiPort)
		err := api.Start(fmt.Sprintf(":%d", config.ApiPort))
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errs <- err
	}()

	select {
	case <-cmd.Context().Done():
		err = nil
	case err = <-errs:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := api.Shutdown(ctx); shutdownErr != nil {
		utils.WarnLog("server", "Could not shut down HTTP API: %v", shutdownErr)
	}
	server.GracefulStop()
	return err
}
