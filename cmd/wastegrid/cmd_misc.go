package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/wastegrid/config"
	"github.com/katalvlaran/wastegrid/emission"
	"github.com/katalvlaran/wastegrid/network"
	"github.com/katalvlaran/wastegrid/session"
)

func newEmissionCmd(a *app) *cobra.Command {
	var wasteType string
	cmd := &cobra.Command{
		Use:   "emission <from> <to>",
		Short: "Estimate the CO2 cost of moving waste along the shortest route",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			trip, err := a.svc.RecordTrip(args[0], args[1], wasteType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: distance %g, %s, %.2f kg CO2\n",
				trip.From, trip.To, trip.Distance, trip.WasteType, trip.Emission)

			return nil
		},
	}
	cmd.Flags().StringVar(&wasteType, "waste-type", string(emission.General), "Plastic, Metal, Organic, Electronic or General")

	var trips []string
	ranking := &cobra.Command{
		Use:   "ranking",
		Short: "Rank locations by the emissions of a set of trips",
		Long: "Records every --trip (from,to[,waste type]) and prints the locations\n" +
			"by descending accumulated emission. Each trip counts for both ends.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range trips {
				parts := strings.Split(t, ",")
				if len(parts) < 2 || len(parts) > 3 {
					return fmt.Errorf("%w: trip %q: want from,to[,type]", network.ErrInvalidArgument, t)
				}
				wt := string(emission.General)
				if len(parts) == 3 {
					wt = parts[2]
				}
				if _, err := a.svc.RecordTrip(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), wt); err != nil {
					return err
				}
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tLOCATION\tKG CO2")
			for i, e := range a.svc.EmissionRanking() {
				fmt.Fprintf(tw, "%d\t%s\t%.2f\n", i+1, e.Node, e.Emission)
			}

			return tw.Flush()
		},
	}
	ranking.Flags().StringArrayVar(&trips, "trip", nil, "trip as from,to[,waste type]; repeatable")
	cmd.AddCommand(ranking)

	return cmd
}

func newMetricsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print this process's metrics in Prometheus text format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.svc.Metrics().WriteText(cmd.OutOrStdout())
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:         "init <path>",
		Short:       "Write the default configuration to path",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", args[0])

			return nil
		},
	})

	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "hash-password <password>",
		Short:       "Print a bcrypt hash for an admins[].password_hash entry",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := session.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)

			return nil
		},
	}
}
