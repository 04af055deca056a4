package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/wastegrid/facility"
	"github.com/katalvlaran/wastegrid/network"
)

func newFacilityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "facility",
		Aliases: []string{"f"},
		Short:   "Manage collection facilities",
	}

	add := &cobra.Command{
		Use:   "add <id> <location> <quantity>",
		Short: "Register a facility, or add quantity to an existing one",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseFloat("quantity", args[2])
			if err != nil {
				return err
			}

			return a.mutate(cmd, "facility.add", func() error {
				merged, err := a.svc.RegisterFacility(facility.Record{ID: args[0], Location: args[1], Quantity: q})
				if err != nil {
					return err
				}
				rec, _ := a.svc.Facility(args[0])
				if merged {
					fmt.Fprintf(cmd.OutOrStdout(), "merged %s: quantity now %g\n", rec.ID, rec.Quantity)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "registered %s at %s\n", rec.ID, rec.Location)
				}

				return nil
			})
		},
	}

	update := &cobra.Command{
		Use:   "update <id> <location> <quantity>",
		Short: "Replace location and quantity of a facility",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseFloat("quantity", args[2])
			if err != nil {
				return err
			}

			return a.mutate(cmd, "facility.update", func() error {
				return a.svc.UpdateFacility(args[0], args[1], q)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a facility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, "facility.remove", func() error {
				return a.svc.RemoveFacility(args[0])
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one facility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, ok := a.svc.Facility(args[0])
			if !ok {
				return fmt.Errorf("%w: %w: %q", network.ErrNotFound, facility.ErrNotFound, args[0])
			}

			return printFacilities(cmd.OutOrStdout(), []facility.Record{rec})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List facilities by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs := a.svc.Facilities()
			if err := printFacilities(cmd.OutOrStdout(), recs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d facilities, total quantity %g\n", len(recs), a.svc.TotalQuantity())

			return nil
		},
	}

	var maxHops int
	near := &cobra.Command{
		Use:   "near <node|facility>",
		Short: "List facilities within a number of route legs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.svc.FacilitiesWithin(cmd.Context(), args[0], maxHops)
			if err != nil {
				return err
			}

			return printFacilities(cmd.OutOrStdout(), recs)
		},
	}
	near.Flags().IntVar(&maxHops, "max-hops", 1, "maximum number of route legs, 0 for no limit")

	isolated := &cobra.Command{
		Use:   "isolated",
		Short: "List facilities no route can reach",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, err := a.svc.IsolatedFacilities(cmd.Context())
			if err != nil {
				return err
			}

			return printFacilities(cmd.OutOrStdout(), recs)
		},
	}

	cmd.AddCommand(add, update, remove, get, list, near, isolated)

	return cmd
}

func printFacilities(w io.Writer, recs []facility.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLOCATION\tQUANTITY")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%g\n", r.ID, r.Location, r.Quantity)
	}

	return tw.Flush()
}
