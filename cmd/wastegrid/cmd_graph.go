package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newNodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "node",
		Aliases: []string{"n"},
		Short:   "Manage map locations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a location",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.mutate(cmd, "node.add", func() error {
					return a.svc.AddNode(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "rename <old> <new>",
			Short: "Rename a location; facilities there follow",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.mutate(cmd, "node.rename", func() error {
					moved, err := a.svc.RenameNode(args[0], args[1])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %s, %d facilities moved\n", args[0], args[1], moved)

					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove a location and every road touching it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.mutate(cmd, "node.remove", func() error {
					return a.svc.RemoveNode(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List locations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				for _, n := range a.svc.Nodes() {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}

				return nil
			},
		},
		&cobra.Command{
			Use:   "neighbors <name>",
			Short: "List the roads leaving a location",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				nb, err := a.svc.Neighbors(args[0])
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TO\tDISTANCE\tEDGE")
				for _, n := range nb {
					fmt.Fprintf(tw, "%s\t%g\t%s\n", n.Name, n.Weight, n.EdgeID)
				}

				return tw.Flush()
			},
		},
	)

	return cmd
}

func newEdgeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edge",
		Aliases: []string{"e", "road"},
		Short:   "Manage roads between locations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <u> <v> <distance>",
			Short: "Connect two locations",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				w, err := parseFloat("distance", args[2])
				if err != nil {
					return err
				}

				return a.mutate(cmd, "edge.add", func() error {
					id, err := a.svc.AddEdge(args[0], args[1], w)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), id)

					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "update <u> <v> <distance>",
			Short: "Change the distance of every road between two locations",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				w, err := parseFloat("distance", args[2])
				if err != nil {
					return err
				}

				return a.mutate(cmd, "edge.update", func() error {
					return a.svc.UpdateEdge(args[0], args[1], w)
				})
			},
		},
		&cobra.Command{
			Use:   "remove <u> <v>",
			Short: "Remove every road between two locations",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.mutate(cmd, "edge.remove", func() error {
					return a.svc.RemoveEdge(args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List roads in creation order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tFROM\tTO\tDISTANCE")
				for _, e := range a.svc.Edges() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%g\n", e.ID, e.From, e.To, e.Weight)
				}

				return tw.Flush()
			},
		},
	)

	return cmd
}
