package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/lioia/corpus-pagerank/pkg/graph"
	"github.com/lioia/corpus-pagerank/pkg/node"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <corpus>",
	Short: "Send a corpus to a running server or to the worker queue",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().String("rpc", "", "gRPC server address (host:port); the work queue is used when empty")
	submitCmd.Flags().Duration("timeout", time.Minute, "how long to wait for the result")
	rootCmd.AddCommand(submitCmd)
}

func newJob(g *graph.Graph) node.Job {
	opts := options()
	return node.Job{
		Pages:         g.AdjacencyList(),
		Damping:       &opts.Damping,
		Samples:       &opts.Samples,
		Seed:          &opts.Seed,
		Threshold:     &opts.Threshold,
		MaxIterations: &opts.MaxIterations,
	}
}

func runSubmit(cmd *cobra.Command, args []string) error {
	g, err := graph.LoadResource(args[0])
	if err != nil {
		return err
	}
	job := newJob(g)
	timeout, _ := cmd.Flags().GetDuration("timeout")
	rpc, _ := cmd.Flags().GetString("rpc")

	var result node.Result
	if rpc != "" {
		client, err := node.RankerCall(rpc, timeout)
		if err != nil {
			return err
		}
		defer client.Close()
		if result, err = client.Rank(job); err != nil {
			return err
		}
	} else {
		if result, err = submitToQueue(cmd.Context(), job, timeout); err != nil {
			return err
		}
	}

	return graph.Encode(cmd.OutOrStdout(), "text",
		graph.Ranking{
			Name:  "sampling",
			Title: fmt.Sprintf("PageRank Results from Sampling (n = %d)", *job.Samples),
			Ranks: result.Sampling,
		},
		graph.Ranking{
			Name:  "iteration",
			Title: fmt.Sprintf("PageRank Results from Iteration (%d passes)", result.Passes),
			Ranks: result.Iteration,
		},
	)
}

func submitToQueue(ctx context.Context, job node.Job, timeout time.Duration) (node.Result, error) {
	conn, ch, err := openChannel()
	if err != nil {
		return node.Result{}, err
	}
	defer conn.Close()
	defer ch.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	p := &node.Publisher{Channel: ch, WorkQueue: config.WorkQueue}
	id, err := p.Submit(ctx, job)
	if err != nil {
		return node.Result{}, err
	}
	return p.Await(ctx, id)
}
