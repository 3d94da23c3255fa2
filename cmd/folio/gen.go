package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/folio/internal/build"
	"github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/pkg/router"
)

func genCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <type>",
		Short: "Generate code",
		Long: `Generate code from the pages directory.

Types:
  types       Generate route constants and typed parameter structs

Examples:
  folio gen types
  folio gen types --package=site --output=internal/site/routes_gen.go`,
	}

	cmd.AddCommand(genTypesCmd(a))

	return cmd
}

func genTypesCmd(a *app) *cobra.Command {
	var (
		pkg    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "types",
		Short: "Generate typed route parameters",
		Long: `Discover the routes and generate a Go file holding a constant per
route and a parameter struct per dynamic route. Each struct decodes with
router.Decode and converts back with its Params method.

The output is deterministic: running it twice produces identical files
unless the routes change. Without --output the file goes to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := build.New(a.cfg, build.Options{Logger: a.logger}).Registry(cmd.Context())
			if err != nil {
				return err
			}

			code, err := router.NewGeneratorFromRegistry(reg, pkg).Generate()
			if err != nil {
				return errors.New("E151").Wrap(err)
			}

			if output == "" {
				_, err := a.out.Write(code)
				return err
			}
			if err := os.WriteFile(output, code, 0o644); err != nil {
				return errors.New("E151").WithFile(output).Wrap(err)
			}
			a.success("Generated %s (%d routes)", output, reg.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&pkg, "package", "routes", "Package name of the generated file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
