package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/folio/internal/build"
	"github.com/vango-dev/folio/pkg/router"
)

func routesCmd(a *app) *cobra.Command {
	var static bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long: `Print every route in matching order with its page, layouts and
generator.

With --static, also run every generator and print the static path tree
a build would render.

Examples:
  folio routes
  folio routes --static`,
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := build.New(a.cfg, build.Options{Logger: a.logger})
			if !static {
				reg, err := builder.Registry(cmd.Context())
				if err != nil {
					return err
				}
				return printRoutes(a, reg)
			}

			reg, routes, err := builder.Routes(cmd.Context())
			if err != nil {
				return err
			}
			if err := printRoutes(a, reg); err != nil {
				return err
			}
			fmt.Fprintln(a.out)
			return routes.WriteReport(a.out)
		},
	}

	cmd.Flags().BoolVar(&static, "static", false, "Enumerate static paths")

	return cmd
}

func printRoutes(a *app, reg *router.Registry) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tPAGE\tLAYOUTS\tGENERATOR")
	for _, e := range reg.Entries() {
		layouts := make([]string, len(e.Layouts))
		for i, l := range e.Layouts {
			layouts[i] = l.ID
		}
		generator := "-"
		switch {
		case e.Module.StaticParams != nil:
			generator = "yes"
		case e.Dynamic():
			generator = "missing"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Route, e.PagePath, strings.Join(layouts, " > "), generator)
	}
	return tw.Flush()
}
