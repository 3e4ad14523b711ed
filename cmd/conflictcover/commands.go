package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/conflictcover/predicate"
)

const (
	algorithmColoring = "coloring"
	algorithmTriangle = "triangle"
)

func newCoverCmd(a *app) *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Compute a vertex cover of the conflict graph (rows to drop)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, release, err := a.graph()
			if err != nil {
				return err
			}
			defer release()

			var cover []int
			switch strings.ToLower(algorithm) {
			case algorithmColoring:
				cover, err = g.VertexCoverByColoringLP()
			case algorithmTriangle:
				cover, err = g.VertexCoverByTriangleEliminationLP()
			default:
				return errors.Errorf("unknown algorithm %q (want %s or %s)", algorithm, algorithmColoring, algorithmTriangle)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cover size: %d\n", len(cover))
			for _, id := range cover {
				fmt.Fprintln(out, id)
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", algorithmColoring, "coloring or triangle")

	return cmd
}

func newDegreeCmd(a *app) *cobra.Command {
	var (
		epsilon float64
		expr    string
	)
	cmd := &cobra.Command{
		Use:   "degree",
		Short: "Estimate the inconsistency degree of the rows selected by a predicate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("epsilon") {
				epsilon = a.cfg.Epsilon
			}
			g, release, err := a.graph()
			if err != nil {
				return err
			}
			defer release()

			degree, err := g.InconsistencyDegree(epsilon, expr)
			if err != nil {
				return err
			}
			st := g.LastStats()
			fmt.Fprintf(cmd.OutOrStdout(), "inconsistency degree: %.4f (rows %d, samples %d, hits %d)\n",
				degree, st.SubgraphSize, st.Samples, st.Hits)

			return nil
		},
	}
	cmd.Flags().Float64VarP(&epsilon, "epsilon", "e", 0, "additive tolerance in (0, 1]; defaults to the configured epsilon")
	cmd.Flags().StringVarP(&expr, "predicate", "p", "", "row selection predicate; empty selects every row")

	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var expr string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile a predicate and count the rows it selects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := predicate.Compile(expr)
			if err != nil {
				return err
			}
			src, err := a.cfg.OpenSource()
			if err != nil {
				return err
			}
			defer src.Close()

			ids, err := src.Search(p)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "predicate: %s\n", p)
			fmt.Fprintf(out, "matching rows: %d\n", len(ids))

			return nil
		},
	}
	cmd.Flags().StringVarP(&expr, "predicate", "p", "", "row selection predicate")

	return cmd
}
