package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/planner"
)

var errNoPlan = errors.New("no provider produced a plan")

func newPlanCmd() *cobra.Command {
	var (
		providerName string
		sync         bool
		asJSON       bool
		temperature  float64
		params       domain.ModelParams
	)

	cmd := &cobra.Command{
		Use:   "plan <prompt>",
		Short: "Request a plan for a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if cmd.Flags().Changed("temperature") {
				params.Temperature = domain.Float(temperature)
			}
			container := buildContainer()

			return container.Invoke(func(p *planner.Planner) error {
				ctx := cmd.Context()

				var (
					result *planner.PlanResult
					err    error
				)
				if sync {
					result, err = p.Plan(ctx, prompt, providerName, params)
				} else {
					result, err = p.PlanAsync(ctx, prompt, providerName, params).Await(ctx)
				}
				if err != nil {
					return err
				}
				if result == nil {
					return errNoPlan
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(result)
				}

				fmt.Fprintln(out, result.Plan)
				fmt.Fprintf(cmd.ErrOrStderr(), "provider=%s model=%s tokens=%d cached=%t\n",
					result.ProviderID, result.Model, result.TokensUsed, result.FromCache)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "preferred provider (defaults to AI_PROVIDER)")
	cmd.Flags().BoolVar(&sync, "sync", false, "call the provider, then the default provider once, instead of the fallback chain")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&params.SystemPrompt, "system", "", "system prompt")
	cmd.Flags().StringVar(&params.Model, "model", "", "model override")
	cmd.Flags().IntVar(&params.MaxTokens, "max-tokens", 0, "max tokens override")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "temperature override, 0 included")

	return cmd
}
