package cmd

import (
	"errors"
	"fmt"

	colorize "github.com/fatih/color"

	"github.com/arcanaland/unfoldfate/internal/validator"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a tarot deck file or directory",
	Long: `Validate loads a deck the way serve and read do and reports what is wrong
with it: errors keep the deck from loading at all, warnings point at cards that
will show up without an explanation or an image.

Pass --img-dir to also check that every /img/ reference resolves to a file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckPath := args[0]
		out := cmd.OutOrStdout()

		v := validator.NewValidator(deckPath)
		if imgDir, _ := cmd.Flags().GetString("img-dir"); imgDir != "" {
			v.WithImageDir(imgDir)
		}
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		fmt.Fprintln(out, "Validation Results:")
		fmt.Fprintln(out, "-------------------")

		if len(results.Errors) == 0 {
			fmt.Fprintf(out, "%s Deck '%s' is valid.\n", colorize.GreenString("✅"), deckPath)
		} else {
			fmt.Fprintf(out, "%s Deck '%s' has %d validation errors:\n", colorize.RedString("❌"), deckPath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Fprintf(out, "%d. %s\n", i+1, err)
			}
			return errValidationFailed
		}

		if len(results.Warnings) > 0 {
			fmt.Fprintln(out, colorize.YellowString("\nWarnings:"))
			for i, warn := range results.Warnings {
				fmt.Fprintf(out, "%d. %s\n", i+1, warn)
			}
		}

		return nil
	},
}

func init() {
	validateCmd.Flags().String("img-dir", "", "Check image references against this directory")
}
