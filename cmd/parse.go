package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bensuskins/meal-planner/internal/services"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [line...]",
	Short: "Parse ingredient lines and print them as JSON",
	Long:  "Parses each argument as one ingredient line. Without arguments, lines are read from stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var parsed []services.ParsedIngredient
		if len(args) == 0 {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading ingredient lines: %w", err)
			}
			parsed = services.ParseIngredientText(string(input))
		} else {
			for _, line := range args {
				parsed = append(parsed, services.ParseIngredientLine(line))
			}
		}
		if parsed == nil {
			parsed = []services.ParsedIngredient{}
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(parsed)
	},
}
