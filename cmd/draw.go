package cmd

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	colorize "github.com/fatih/color"
	"golang.org/x/term"

	"github.com/arcanaland/unfoldfate/internal/ansiart"
	"github.com/arcanaland/unfoldfate/internal/card"
	"github.com/arcanaland/unfoldfate/internal/config"
	"github.com/arcanaland/unfoldfate/internal/deck"
	"github.com/arcanaland/unfoldfate/internal/reading"
	"github.com/spf13/cobra"
)

const (
	drawArtWidth  = 40
	drawArtHeight = 32
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Shuffle the deck and reveal one card",
	Long: `Draw shuffles the deck, picks one face-down card and prints it.

By default a random position of the spread is revealed. Use --index to pick a
position yourself, or --name to pull a specific card out of the deck. With --art
the card image is printed next to the text as ANSI art.

Examples:
  unfoldfate draw
  unfoldfate draw --index 3
  unfoldfate draw --deck ./my-deck.yaml --name "The Star" --art`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, d, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		s, err := reading.New(d)
		if err != nil {
			return err
		}

		index, _ := cmd.Flags().GetInt("index")
		name, _ := cmd.Flags().GetString("name")
		switch {
		case name != "":
			_, err = s.SelectByName(name)
		case index >= 0:
			_, err = s.Select(index)
		default:
			_, err = s.Select(rand.IntN(s.Len()))
		}
		if errors.Is(err, reading.ErrCardNotFound) {
			if name != "" {
				return fmt.Errorf("no card named %q in deck %q", name, d.Name)
			}
			return fmt.Errorf("index %d is outside the spread of %d cards", index, s.Len())
		}
		if err != nil {
			return err
		}

		c, _ := s.Selected()

		var art string
		if withArt, _ := cmd.Flags().GetBool("art"); withArt {
			art, err = cardArt(cfg.ImageDir, c)
			if err != nil {
				fmt.Fprintf(os.Stderr, "No art for %s: %v\n", c.Name, err)
			}
		}

		displayCard(cmd.OutOrStdout(), c, art, d.Name, terminalWidth())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(drawCmd)

	drawCmd.Flags().IntP("index", "i", -1, "Position in the shuffled spread to reveal (random when negative)")
	drawCmd.Flags().StringP("name", "n", "", "Reveal the card with this name")
	drawCmd.Flags().Bool("art", false, "Print the card image as ANSI art")
	drawCmd.Flags().String("img-dir", "", "Directory holding the card images (default from config, img)")
	drawCmd.MarkFlagsMutuallyExclusive("index", "name")
}

// cardArt renders the face of c, caching the result under the user cache dir.
func cardArt(imageDir string, c card.Card) (string, error) {
	path, ok := deck.LocalImagePath(imageDir, c.Image)
	if !ok {
		return "", fmt.Errorf("image %q is not a local file", c.Image)
	}
	cacheDir := filepath.Join(config.GetCacheDir(), "ansi_cache")
	return ansiart.Cached(cacheDir, path, drawArtWidth, drawArtHeight)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var result []string
	var currentLine string
	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= width:
			currentLine += " " + word
		default:
			result = append(result, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}

// displayCard prints the card information, with the ANSI art on the left when there is any
func displayCard(w io.Writer, c card.Card, ansiArt, deckName string, width int) {
	var ansiLines []string
	maxAnsiWidth := 0
	if ansiArt != "" {
		ansiLines = strings.Split(strings.TrimRight(ansiArt, "\n"), "\n")
		for _, line := range ansiLines {
			maxAnsiWidth = max(maxAnsiWidth, len([]rune(ansiart.StripAnsi(line))))
		}
	}

	infoLines := []string{
		colorize.CyanString("Card: ") + colorize.HiWhiteString("%s", c.Name),
		colorize.CyanString("Deck: ") + colorize.HiWhiteString("%s", deckName),
	}

	spacing := 0
	if maxAnsiWidth > 0 {
		spacing = 4
	}
	infoStartCol := maxAnsiWidth + spacing
	infoWidth := max(width-infoStartCol-2, 20)

	if c.Description != "" {
		infoLines = append(infoLines, "", colorize.CyanString("Explanation:"))
		infoLines = append(infoLines, wrapText(c.Description, infoWidth)...)
	}

	fmt.Fprintln(w)
	for i := 0; i < max(len(ansiLines), len(infoLines)); i++ {
		fmt.Fprint(w, "  ")
		if i < len(ansiLines) {
			fmt.Fprint(w, ansiLines[i])
			visibleWidth := len([]rune(ansiart.StripAnsi(ansiLines[i])))
			fmt.Fprint(w, strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			fmt.Fprint(w, strings.Repeat(" ", infoStartCol))
		}
		if i < len(infoLines) {
			fmt.Fprint(w, infoLines[i])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}
