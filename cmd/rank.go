package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lioia/corpus-pagerank/pkg/graph"
	"github.com/lioia/corpus-pagerank/pkg/pagerank"
	"github.com/lioia/corpus-pagerank/pkg/utils"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank <corpus>",
	Short: "Rank a corpus directory, edge list file or URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().StringP("output", "o", "", "also write the results to this file")
	rankCmd.Flags().String("format", "text", "output file format: text, json or toml")
	rankCmd.Flags().String("render", "", "render the ranked graph to this file")
	rankCmd.Flags().String("render-format", "", "render format: dot, svg or png (default: from the file extension)")
	rankCmd.Flags().Bool("compare", false, "also compute the gonum reference and L1 distances")
	rankCmd.Flags().BoolP("watch", "w", false, "rank again whenever the corpus directory changes")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	corpus := args[0]
	if err := rankCorpus(cmd, corpus); err != nil {
		return err
	}
	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchCorpus(cmd, corpus)
	}
	return nil
}

func rankCorpus(cmd *cobra.Command, corpus string) error {
	g, err := graph.LoadResource(corpus)
	if err != nil {
		return err
	}
	opts := options()
	report, err := pagerank.Run(cmd.Context(), g, opts)
	if err != nil {
		return err
	}

	rankings := []graph.Ranking{
		{
			Name:  "sampling",
			Title: fmt.Sprintf("PageRank Results from Sampling (n = %d)", opts.Samples),
			Ranks: report.Sampling,
		},
		{
			Name:  "iteration",
			Title: "PageRank Results from Iteration",
			Ranks: report.Iteration.Ranks,
		},
	}
	compare, _ := cmd.Flags().GetBool("compare")
	var reference pagerank.Distribution
	if compare {
		reference, err = pagerank.Reference(g, opts.Damping, 1e-9)
		if err != nil {
			return err
		}
		rankings = append(rankings, graph.Ranking{
			Name:  "reference",
			Title: "PageRank Results from gonum",
			Ranks: reference,
		})
	}

	out := cmd.OutOrStdout()
	if err := graph.Encode(out, "text", rankings...); err != nil {
		return err
	}
	if compare {
		fmt.Fprintf(out, "L1 distance sampling/iteration: %.4f\n", report.Sampling.Distance(report.Iteration.Ranks))
		fmt.Fprintf(out, "L1 distance iteration/reference: %.4f\n", report.Iteration.Ranks.Distance(reference))
	}
	if !report.Iteration.Converged {
		fmt.Fprintf(out, "Iteration stopped after %d passes without converging\n", report.Iteration.Passes)
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		format, _ := cmd.Flags().GetString("format")
		if err := graph.Write(output, format, rankings...); err != nil {
			return err
		}
	}
	if render, _ := cmd.Flags().GetString("render"); render != "" {
		format, _ := cmd.Flags().GetString("render-format")
		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(render), ".")
		}
		f, err := os.Create(render)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := graph.Render(f, g, report.Iteration.Ranks, format); err != nil {
			return err
		}
	}
	return nil
}

func watchCorpus(cmd *cobra.Command, corpus string) error {
	info, err := os.Stat(corpus)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("--watch requires a corpus directory, got %s", corpus)
	}
	w, err := graph.NewWatcher(corpus)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes\n", corpus)
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-w.Changes:
			if err := rankCorpus(cmd, corpus); err != nil {
				utils.WarnLog("rank", "Could not rank %s: %v", corpus, err)
			}
		}
	}
}
