package deck

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/arcanaland/unfoldfate/internal/card"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a deck document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// deckFiles are the file names looked up, in order, when a deck path is a directory
var deckFiles = []string{"deck.toml", "deck.yaml", "deck.yml"}

// Deck represents a loaded tarot deck
type Deck struct {
	Name       string
	Path       string
	Background string      // Shared back face image for all unrevealed cards
	Cards      []card.Card // Source order, none revealed

	// Keys present in the source document that the loader did not use
	Undecoded []string
}

// ConfigurationError reports a deck source that cannot be turned into a deck
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid deck configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid deck configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

var (
	ErrNoBackground  = errors.New("back_ground must contain at least one image_filename")
	ErrNoCards       = errors.New("major_arcana must contain at least one card")
	ErrMissingName   = errors.New("card name is required")
	ErrDuplicateName = errors.New("duplicate card name")
	ErrUnknownFormat = errors.New("unknown deck format")
)

// LoadDeck loads a deck from a file, or from a directory holding deck.toml or deck.yaml
func LoadDeck(deckPath string) (*Deck, error) {
	filePath, err := resolveDeckFile(deckPath)
	if err != nil {
		return nil, &ConfigurationError{Path: deckPath, Err: err}
	}

	format, err := FormatFromPath(filePath)
	if err != nil {
		return nil, &ConfigurationError{Path: filePath, Err: err}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &ConfigurationError{Path: filePath, Err: err}
	}

	d, err := Parse(data, format)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = filePath
		}
		return nil, err
	}
	d.Path = filePath

	return d, nil
}

// resolveDeckFile returns the deck document for a file or deck directory
func resolveDeckFile(deckPath string) (string, error) {
	info, err := os.Stat(deckPath)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return deckPath, nil
	}

	for _, name := range deckFiles {
		candidate := filepath.Join(deckPath, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no %s found in %s", strings.Join(deckFiles, " or "), deckPath)
}

// FormatFromPath picks the deck format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
}

// Parse decodes a deck document and checks it can back a reading
func Parse(data []byte, format Format) (*Deck, error) {
	var cfg DeckConfig
	var undecoded []string

	switch format {
	case FormatYAML:
		var root yaml.Node
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
			return nil, &ConfigurationError{Err: fmt.Errorf("error parsing yaml: %w", err)}
		}
		if err := root.Decode(&cfg); err != nil {
			return nil, &ConfigurationError{Err: fmt.Errorf("error parsing yaml: %w", err)}
		}
		undecoded = unknownYAMLKeys(&root)
	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, &ConfigurationError{Err: fmt.Errorf("error parsing toml: %w", err)}
		}
		for _, key := range md.Undecoded() {
			undecoded = append(undecoded, key.String())
		}
	default:
		return nil, &ConfigurationError{Err: fmt.Errorf("%w: %q", ErrUnknownFormat, format)}
	}

	d, err := cfg.build()
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	d.Undecoded = undecoded

	return d, nil
}

// Keys a deck document may carry, per section
var (
	deckKeys    = map[string]bool{"name": true, "back_ground": true, "major_arcana": true}
	sectionKeys = map[string]map[string]bool{
		"back_ground":  {"image_filename": true},
		"major_arcana": {"name": true, "description": true, "image_filename": true},
	}
)

// unknownYAMLKeys lists keys the decoder ignored, named like TOML's
// undecoded keys (major_arcana.suit).
func unknownYAMLKeys(root *yaml.Node) []string {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}

	var unknown []string
	seen := make(map[string]bool)
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			unknown = append(unknown, key)
		}
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i].Value, doc.Content[i+1]
		if !deckKeys[key] {
			add(key)
			continue
		}
		known, ok := sectionKeys[key]
		if !ok || value.Kind != yaml.SequenceNode {
			continue
		}
		for _, item := range value.Content {
			if item.Kind != yaml.MappingNode {
				continue
			}
			for j := 0; j+1 < len(item.Content); j += 2 {
				if field := item.Content[j].Value; !known[field] {
					add(key + "." + field)
				}
			}
		}
	}
	return unknown
}

// build turns a decoded document into a deck
func (cfg DeckConfig) build() (*Deck, error) {
	if len(cfg.BackGround) == 0 || cfg.BackGround[0].ImageFilename == "" {
		return nil, ErrNoBackground
	}
	if len(cfg.MajorArcana) == 0 {
		return nil, ErrNoCards
	}

	seen := make(map[string]int, len(cfg.MajorArcana))
	cards := make([]card.Card, 0, len(cfg.MajorArcana))
	for i, entry := range cfg.MajorArcana {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("major_arcana[%d]: %w", i, ErrMissingName)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("major_arcana[%d]: %w %q (first at %d)", i, ErrDuplicateName, name, prev)
		}
		seen[name] = i

		cards = append(cards, card.Card{
			Name:        name,
			Description: entry.Description,
			Image:       entry.ImageFilename,
		})
	}

	return &Deck{
		Name:       cfg.Name,
		Background: cfg.BackGround[0].ImageFilename,
		Cards:      cards,
	}, nil
}

// Deck configuration structures
type DeckConfig struct {
	Name        string        `toml:"name" yaml:"name"`
	BackGround  []ImageEntry  `toml:"back_ground" yaml:"back_ground"`
	MajorArcana []CardSection `toml:"major_arcana" yaml:"major_arcana"`
}

type ImageEntry struct {
	ImageFilename string `toml:"image_filename" yaml:"image_filename"`
}

type CardSection struct {
	Name          string `toml:"name" yaml:"name"`
	Description   string `toml:"description" yaml:"description"`
	ImageFilename string `toml:"image_filename" yaml:"image_filename"`
}
