package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	colorize "github.com/fatih/color"

	"github.com/arcanaland/unfoldfate/internal/config"
	"github.com/arcanaland/unfoldfate/internal/deck"
	"github.com/spf13/cobra"
)

// builtinDeckName is the library entry deck init installs
const builtinDeckName = "rider-waite"

// deckCmd represents the deck command group
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage tarot decks in your deck library",
	Long:  `Commands for managing tarot decks in your deck library.`,
}

// deckListCmd represents the deck list command
var deckListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List available decks in your deck library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		libraryPath := config.GetDeckLibraryPath()

		if _, err := os.Stat(libraryPath); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(out, "Deck library at %s does not exist.\n", libraryPath)
			fmt.Fprintln(out, "Run 'unfoldfate deck init' to create it.")
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		entries, err := os.ReadDir(libraryPath)
		if err != nil {
			return fmt.Errorf("error reading deck library: %w", err)
		}

		found := 0
		for _, entry := range entries {
			entryPath := filepath.Join(libraryPath, entry.Name())
			// Entries may be symlinks to decks kept elsewhere
			if _, err := os.Stat(entryPath); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error resolving entry %s: %v\n", entry.Name(), err)
				continue
			}

			d, err := deck.LoadDeck(entryPath)
			if err != nil {
				// Not a deck, skip
				continue
			}
			found++

			if entry.Name() == cfg.DefaultDeck {
				fmt.Fprintf(out, "%s %s (%s, %d cards) %s\n", colorize.GreenString("*"), entry.Name(), d.Name, len(d.Cards), colorize.GreenString("[DEFAULT]"))
			} else {
				fmt.Fprintf(out, "  %s (%s, %d cards)\n", entry.Name(), d.Name, len(d.Cards))
			}
		}

		if found == 0 {
			fmt.Fprintln(out, "No decks found in your deck library.")
			fmt.Fprintln(out, "You can add decks by copying them to:", libraryPath)
		}
		return nil
	},
}

// deckSetDefaultCmd represents the deck set-default command
var deckSetDefaultCmd = &cobra.Command{
	Use:   "set-default [deck_name]",
	Short: "Set the default deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckName := args[0]

		deckPath, err := config.GetDeckPath(deckName)
		if err != nil {
			return err
		}

		// Refuse to point the config at something that will not load
		if _, err := deck.LoadDeck(deckPath); err != nil {
			return fmt.Errorf("not a valid deck: %w", err)
		}

		if err := config.SetDefaultDeck(deckName); err != nil {
			return fmt.Errorf("error setting default deck: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Default deck set to: %s\n", deckName)
		return nil
	},
}

// deckInitCmd represents the deck init command
var deckInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the deck library and install the Rider-Waite deck",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		libraryPath := config.GetDeckLibraryPath()

		if err := os.MkdirAll(libraryPath, 0755); err != nil {
			return fmt.Errorf("error creating deck library: %w", err)
		}
		fmt.Fprintln(out, "Deck library initialized at:", libraryPath)

		installed, err := installBuiltinDeck(libraryPath)
		if err != nil {
			return err
		}
		if installed != "" {
			fmt.Fprintln(out, "Installed the Rider-Waite deck at:", installed)
		}

		// LoadConfig writes the defaults when there is no config file yet
		if _, err := config.LoadConfig(); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}
		fmt.Fprintln(out, "Config file initialized at:", config.GetConfigFilePath())
		return nil
	},
}

// installBuiltinDeck writes the bundled deck into the library unless a deck of
// that name is already there. It returns the written path, or "" when skipped.
func installBuiltinDeck(libraryPath string) (string, error) {
	deckDir := filepath.Join(libraryPath, builtinDeckName)
	if _, err := os.Stat(deckDir); err == nil {
		return "", nil
	}

	if err := os.MkdirAll(deckDir, 0755); err != nil {
		return "", fmt.Errorf("error creating deck directory: %w", err)
	}
	deckPath := filepath.Join(deckDir, "deck.yaml")
	if err := os.WriteFile(deckPath, deck.RiderWaite, 0644); err != nil {
		return "", fmt.Errorf("error writing deck: %w", err)
	}
	return deckPath, nil
}

func init() {
	RootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckSetDefaultCmd)
	deckCmd.AddCommand(deckInitCmd)
}
