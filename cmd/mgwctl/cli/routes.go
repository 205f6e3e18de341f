package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edgefn/model-gateway/cmd/mgwctl/tui"
)

func newRoutesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List, inspect and watch gateway routes",
	}
	cmd.AddCommand(newRoutesListCmd(opts), newRoutesGetCmd(opts), newRoutesWatchCmd(opts))
	return cmd
}

func newRoutesListCmd(opts *rootOptions) *cobra.Command {
	var filter string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			act := opts.client().ListRoutesAction(ctx, filter)
			routes, err := act.Await(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, routes)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tTYPE\tPROVIDER\tMODEL")
			for _, r := range routes {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.RouteType, r.Model.Provider, r.Model.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "narrow the listing by route name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func newRoutesGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Fetch one route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			act := opts.client().GetRouteAction(ctx, args[0])
			route, err := act.Await(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, route)
		},
	}
}

func newRoutesWatchCmd(opts *rootOptions) *cobra.Command {
	var filter string
	var interval int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the route list in an interactive view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunRoutesWatch(opts.client(), filter, interval)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "narrow the listing by route name")
	cmd.Flags().IntVar(&interval, "interval", 3, "poll interval in seconds")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(b))
	return nil
}
