// Package tui is the terminal presentation of a reading, a Bubbletea model
// that translates key presses into Session calls and re-renders after each.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arcanaland/unfoldfate/internal/ansiart"
	"github.com/arcanaland/unfoldfate/internal/deck"
	"github.com/arcanaland/unfoldfate/internal/reading"
)

const (
	artWidth  = 24
	artHeight = 16

	defaultColumns = 6
)

var errNoLocalImage = errors.New("card image is not a local file")

// Options tune what the model shows beyond the reading itself.
type Options struct {
	DeckName string
	ImageDir string // where /img/ references resolve; art is off when empty
	CacheDir string
}

// artLoadedMsg carries the rendered art for the card picked in reading gen.
type artLoadedMsg struct {
	gen int
	art string
	err error
}

type copyResultMsg struct {
	err error
}

// App is the root Bubbletea model.
type App struct {
	session *reading.Session
	opts    Options

	cursor int
	gen    int // bumped on every new reading
	art    string
	status string
	width  int
	height int
}

// NewApp creates a model driving s.
func NewApp(s *reading.Session, opts Options) App {
	return App{session: s, opts: opts}
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case artLoadedMsg:
		if msg.gen == a.gen && msg.err == nil {
			a.art = msg.art
		}
		return a, nil

	case copyResultMsg:
		if msg.err != nil {
			a.status = "Could not copy: " + msg.err.Error()
		} else {
			a.status = "Copied to clipboard."
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := a.columns()
	last := a.session.Len() - 1

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return a, tea.Quit
	case "left", "h":
		a.cursor = max(a.cursor-1, 0)
	case "right", "l":
		a.cursor = min(a.cursor+1, last)
	case "up", "k":
		if a.cursor-cols >= 0 {
			a.cursor -= cols
		}
	case "down", "j":
		if a.cursor+cols <= last {
			a.cursor += cols
		}
	case "home", "g":
		a.cursor = 0
	case "end", "G":
		a.cursor = last
	case "enter", " ":
		return a.selectCard()
	case "n":
		a.session.Reset()
		a.gen++
		a.cursor = 0
		a.art = ""
		a.status = "The cards are shuffled. Pick one."
	case "c":
		sel, ok := a.session.Selected()
		if !ok {
			a.status = "Nothing to copy yet."
			return a, nil
		}
		text := sel.Name
		if sel.Description != "" {
			text += ": " + sel.Description
		}
		return a, func() tea.Msg {
			return copyResultMsg{err: clipboard.WriteAll(text)}
		}
	}
	return a, nil
}

func (a App) selectCard() (tea.Model, tea.Cmd) {
	applied, err := a.session.Select(a.cursor)
	switch {
	case err != nil:
		a.status = "That card is no longer on the table."
		return a, nil
	case !applied:
		a.status = "Your card is already drawn. Press n for a new reading."
		return a, nil
	}

	a.status = ""
	sel, _ := a.session.Selected()
	if a.opts.ImageDir == "" {
		return a, nil
	}

	gen, imageDir, cacheDir := a.gen, a.opts.ImageDir, a.opts.CacheDir
	return a, func() tea.Msg {
		path, ok := deck.LocalImagePath(imageDir, sel.Image)
		if !ok {
			return artLoadedMsg{gen: gen, err: errNoLocalImage}
		}
		art, err := ansiart.Cached(cacheDir, path, artWidth, artHeight)
		return artLoadedMsg{gen: gen, art: art, err: err}
	}
}

// columns is how many cards fit on one grid row.
func (a App) columns() int {
	cols := defaultColumns
	if a.width > 0 {
		// Rounded border adds two cells
		cols = a.width / (cardWidth + 2 + cardGap)
	}
	return max(1, min(cols, a.session.Len()))
}

func (a App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("UnfoldFate: Your Tarot Reading"))
	if a.opts.DeckName != "" {
		b.WriteString("  " + deckStyle.Render(a.opts.DeckName))
	}
	b.WriteString("\n\n")

	b.WriteString(a.renderGrid())
	b.WriteString("\n\n")

	if info := a.renderInfo(); info != "" {
		b.WriteString(info)
		b.WriteString("\n\n")
	}
	if a.status != "" {
		b.WriteString(statusStyle.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(a.renderHelp())

	return b.String()
}

func (a App) renderGrid() string {
	cols := a.columns()
	cards := a.session.Cards()
	selected := a.session.SelectedIndex()

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			style, content := backStyle, backPattern
			if i == selected {
				style, content = faceStyle, cards[i].Name
			}
			if i == a.cursor {
				style = style.BorderForeground(cursorBorder)
			}
			cells = append(cells, style.MarginRight(cardGap).Render(content))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a App) renderInfo() string {
	sel, ok := a.session.Selected()
	if !ok {
		return ""
	}

	width := 60
	if a.width > 0 {
		width = max(20, a.width-artWidth-4)
	}
	text := lipgloss.JoinVertical(lipgloss.Left,
		nameStyle.Render(fmt.Sprintf("Name: %s", sel.Name)),
		descStyle.Width(width).Render(fmt.Sprintf("Explanation: %s", sel.Description)),
	)
	if a.art == "" {
		return text
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.TrimRight(a.art, "\n"), "  ", text)
}

func (a App) renderHelp() string {
	pairs := [][2]string{
		{"←↑↓→", "move"},
		{"enter", "reveal"},
		{"n", "new reading"},
		{"c", "copy"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, helpKeyStyle.Render(p[0])+" "+helpLabelStyle.Render(p[1]))
	}
	return strings.Join(parts, "  ")
}
