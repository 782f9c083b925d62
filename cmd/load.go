package cmd

import (
	"fmt"
	"os"

	"github.com/arcanaland/unfoldfate/internal/config"
	"github.com/arcanaland/unfoldfate/internal/deck"
	"github.com/spf13/cobra"
)

// loadSettings resolves the configuration and the deck a command reads from.
// Flags win over the environment, which wins over the config file.
func loadSettings(cmd *cobra.Command) (*config.Config, *deck.Deck, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("img-dir") {
		cfg.ImageDir, _ = cmd.Flags().GetString("img-dir")
	}

	deckFlag, _ := cmd.Flags().GetString("deck")
	d, err := resolveDeck(deckFlag, cfg.DefaultDeck)
	if err != nil {
		return nil, nil, err
	}

	return cfg, d, nil
}

// resolveDeck loads the named deck, or the default one. The bundled deck
// stands in only when the default deck has never been installed.
func resolveDeck(deckFlag, defaultDeck string) (*deck.Deck, error) {
	name := deckFlag
	if name == "" {
		name = defaultDeck
	}

	deckPath, err := config.GetDeckPath(name)
	if err != nil {
		if deckFlag == "" {
			fmt.Fprintf(os.Stderr, "Default deck %q not found, using the bundled Rider-Waite deck.\n", name)
			fmt.Fprintln(os.Stderr, "Run 'unfoldfate deck init' to install it in your deck library.")
			return deck.Builtin()
		}
		return nil, err
	}

	d, err := deck.LoadDeck(deckPath)
	if err != nil {
		return nil, fmt.Errorf("error loading deck: %w", err)
	}
	return d, nil
}
