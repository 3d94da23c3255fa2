package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/vango-dev/folio/internal/build"
	"github.com/vango-dev/folio/internal/config"
	"github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/pkg/ssg"
)

func buildCmd(a *app) *cobra.Command {
	var (
		output string
		minify bool
		clean  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Prerender the site",
		Long: `Prerender every page of the site into static files.

This command:
  • Bundles the client assets
  • Enumerates every static path, running each dynamic page's generator
  • Renders an HTML document and a component stream per path
  • Copies public files
  • Writes manifest.json

When s3.bucket is configured the output is uploaded instead of written
to disk.

Examples:
  folio build
  folio build --output=public_html --clean
  FOLIO_S3_BUCKET=my-site folio build`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				a.cfg.Build.Output = output
			}
			return runBuild(cmd.Context(), a, build.Options{
				Clean:  clean,
				Minify: minify,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from folio.json)")
	cmd.Flags().BoolVar(&minify, "minify", false, "Minify assets and documents")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clean output directory before build")

	return cmd
}

func runBuild(ctx context.Context, a *app, opts build.Options) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts.Logger = a.logger
	opts.OnProgress = func(step string) { a.info(step) }
	if a.cfg.UseS3() {
		sink, err := newS3Sink(ctx, a.cfg)
		if err != nil {
			return err
		}
		opts.Sink = sink
	}

	fmt.Fprintln(a.out, "  Building...")
	fmt.Fprintln(a.out)

	result, err := build.New(a.cfg, opts).Build(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out)
	a.success("Built %d pages in %s", result.Pages, result.Duration.Round(1000000))
	a.info("%d files → %s", result.Files, result.Output)
	fmt.Fprintln(a.out)
	return nil
}

// newS3Sink resolves AWS credentials the usual way: environment,
// shared config files, then instance roles.
func newS3Sink(ctx context.Context, cfg *config.Config) (*ssg.S3Sink, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.S3.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.S3.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.New("E140").WithDetail("Could not load AWS configuration.").Wrap(err)
	}

	sink := ssg.NewS3Sink(s3.NewFromConfig(awsCfg), cfg.S3.Bucket, cfg.S3.Prefix)
	if cfg.S3.CacheControl != "" {
		sink = sink.WithCacheControl(cfg.S3.CacheControl)
	}
	return sink, nil
}
