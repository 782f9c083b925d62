package cmd

import (
	"errors"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/arcanaland/unfoldfate/internal/config"
	"github.com/arcanaland/unfoldfate/internal/reading"
	"github.com/arcanaland/unfoldfate/internal/tui"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Do a reading in the terminal",
	Long: `Read lays the shuffled deck out face-down in the terminal. Move with the arrow
keys, reveal a card with enter, start a new reading with n and quit with q.

When the card images are available locally the revealed card is drawn as
ANSI art; use --no-art to turn that off.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("read needs an interactive terminal, try 'unfoldfate draw'")
		}

		cfg, d, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		s, err := reading.New(d)
		if err != nil {
			return err
		}

		opts := tui.Options{
			DeckName: d.Name,
			CacheDir: filepath.Join(config.GetCacheDir(), "ansi_cache"),
		}
		if noArt, _ := cmd.Flags().GetBool("no-art"); !noArt {
			opts.ImageDir = cfg.ImageDir
		}

		_, err = tea.NewProgram(tui.NewApp(s, opts), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	RootCmd.AddCommand(readCmd)

	readCmd.Flags().String("img-dir", "", "Directory holding the card images (default from config, img)")
	readCmd.Flags().Bool("no-art", false, "Do not draw the revealed card as ANSI art")
}
