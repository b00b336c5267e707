package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linskybing/nominate-go/internal/ai"
	"github.com/linskybing/nominate-go/internal/config"
	"github.com/linskybing/nominate-go/internal/domain/form"
	"github.com/spf13/cobra"
)

func newGenerateFormCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-form [description]",
		Short: "Generate a candidate form configuration and print it as JSON",
		Long: "Generates a form configuration from a natural-language description. " +
			"The result is printed, not saved; upload it with POST /admin/forms.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadConfig()
			client, err := ai.NewGenAIClient(cmd.Context(), config.GenAIAPIKey, config.GenAIModel)
			if err != nil {
				return err
			}

			cfg, err := ai.NewSchemaGenerator(client).Generate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			cfg.ID = form.Slugify(cfg.CategoryName)

			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
