package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/planner"
)

type healthChecker interface {
	IsHealthy(ctx context.Context, providerName string) bool
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health [provider...]",
		Short: "Check provider health",
		Long: "Check provider health from a fresh process. Breaker state and cache\n" +
			"statistics live in the serving process; read them from GET /v1/providers\n" +
			"and GET /v1/cache/stats.",
		RunE: func(cmd *cobra.Command, args []string) error {
			container := buildContainer()

			return container.Invoke(func(p *planner.Planner, reg domain.ProviderRegistry) error {
				ctx := cmd.Context()

				names := args
				if len(names) == 0 {
					ids, err := reg.List(ctx)
					if err != nil {
						return err
					}
					names = ids
				}

				return writeHealth(ctx, cmd.OutOrStdout(), p, names)
			})
		},
	}
}

func writeHealth(ctx context.Context, out io.Writer, checker healthChecker, names []string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tHEALTHY")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%t\n", name, checker.IsHealthy(ctx, name))
	}
	return w.Flush()
}
