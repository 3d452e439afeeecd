package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/TomasB/rirroutes/internal/aggregate"
	"github.com/TomasB/rirroutes/internal/config"
	"github.com/TomasB/rirroutes/internal/registry"
	"github.com/TomasB/rirroutes/internal/routes"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	countries string
	registry  string
	family    string
	input     string
}

func newGenerateCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the route table for a set of countries",
		Example: `  rirroutes generate --countries CN,HK --registry apnic
  rirroutes generate --countries '!US' --family ipv6 --input delegated-arin-extended-latest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			setupLogging(cmd.ErrOrStderr(), cfg.LogLevel)

			text, err := runGenerate(cmd.Context(), cfg, opts, cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.countries, "countries", "c", "", "country codes, comma separated; a leading ! excludes them")
	cmd.Flags().StringVarP(&opts.registry, "registry", "r", "All", "registry to fetch: AFRINIC, APNIC, ARIN, LACNIC, RIPE or All")
	cmd.Flags().StringVarP(&opts.family, "family", "f", "ipv4", "address family: ipv4 or ipv6")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read stats from this file instead of fetching them (- for stdin)")
	_ = cmd.MarkFlagRequired("countries")

	return cmd
}

func runGenerate(ctx context.Context, cfg config.Config, opts generateOptions, stdin io.Reader) (string, error) {
	req := routes.Request{
		Countries: opts.countries,
		Registry:  opts.registry,
		Family:    opts.family,
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.input == "" {
		var src registry.Source = registry.NewHTTPSource(nil, cfg.FetchTimeout)
		if cfg.StatsDir != "" {
			dir, err := registry.NewDirSource(cfg.StatsDir)
			if err != nil {
				return "", err
			}
			defer dir.Close()
			src = dir
		}
		return routes.NewGenerator(src, nil).GenerateText(ctx, req)
	}

	q, err := req.Resolve()
	if err != nil {
		return "", err
	}

	var raw []byte
	if opts.input == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(opts.input)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read stats: %w", err)
	}

	return aggregate.Aggregate(string(raw), q.Family, q.Filter)
}
