package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/wastegrid/dijkstra"
	"github.com/katalvlaran/wastegrid/network"
)

func newRouteCmd(a *app) *cobra.Command {
	var strategyName string
	strategy := func() (dijkstra.Strategy, error) {
		s, err := dijkstra.ParseStrategy(strategyName)
		if err != nil {
			return s, fmt.Errorf("%w: %w", network.ErrInvalidArgument, err)
		}

		return s, nil
	}

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Shortest route between two locations or facilities",
		Long: "Shortest route between two locations or facilities.\n\n" +
			"A location named all, nearest or hops is read as the subcommand of that\n" +
			"name; put -- before the locations to route from it: route -- all Depot.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := strategy()
			if err != nil {
				return err
			}
			p, err := a.svc.Route(args[0], args[1], s)
			if err != nil {
				return err
			}
			printPath(cmd.OutOrStdout(), p)

			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&strategyName, "strategy", "heap", "heap or relax")

	all := &cobra.Command{
		Use:   "all <from>",
		Short: "Shortest routes to every reachable location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := strategy()
			if err != nil {
				return err
			}
			dests, err := a.svc.RouteAll(args[0], s)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TO\tDISTANCE\tROUTE")
			for _, d := range dests {
				fmt.Fprintf(tw, "%s\t%g\t%s\n", d.Node, d.Distance, strings.Join(d.Path, " -> "))
			}

			return tw.Flush()
		},
	}

	nearest := &cobra.Command{
		Use:   "nearest <from>",
		Short: "Route to the closest reachable location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.svc.Nearest(args[0])
			if err != nil {
				return err
			}
			printPath(cmd.OutOrStdout(), p)

			return nil
		},
	}

	hops := &cobra.Command{
		Use:   "hops <from> <to>",
		Short: "Route with the fewest legs, ignoring distance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.svc.HopPath(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d legs)\n", strings.Join(path, " -> "), len(path)-1)

			return nil
		},
	}

	cmd.AddCommand(all, nearest, hops)

	return cmd
}

func newReachCmd(a *app) *cobra.Command {
	var maxHops int
	cmd := &cobra.Command{
		Use:   "reach <from>",
		Short: "Locations reachable within a number of route legs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := a.svc.Reachable(cmd.Context(), args[0], maxHops)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}

			return nil
		},
	}
	cmd.Flags().IntVar(&maxHops, "max-hops", 0, "maximum number of route legs, 0 for no limit")

	return cmd
}

func printPath(w io.Writer, p dijkstra.Path) {
	fmt.Fprintf(w, "%s\ndistance: %g\n", strings.Join(p.Nodes, " -> "), p.Distance)
}
