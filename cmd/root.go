package cmd

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "unfoldfate",
	Short: "Shuffle a tarot deck and reveal one card",
	Long: `UnfoldFate shuffles a tarot deck, lays it out face-down and lets you reveal a
single card per reading, in the browser (serve) or in the terminal (read).

Decks are YAML or TOML documents listing a back_ground image and the
major_arcana cards. Use --deck to pick one from your deck library
(XDG_DATA_HOME/tarot/decks) or by path; otherwise the default deck from your
config is used.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringP("deck", "d", "", "Specify a deck from your deck library or a path to a deck")

	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
