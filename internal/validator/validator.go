package validator

import (
	"errors"
	"fmt"
	"os"

	"github.com/arcanaland/unfoldfate/internal/deck"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

type Validator struct {
	DeckPath string
	ImageDir string
	Results  ValidationResults

	deck *deck.Deck
}

func NewValidator(deckPath string) *Validator {
	return &Validator{
		DeckPath: deckPath,
		Results:  ValidationResults{},
	}
}

// WithImageDir enables checking that image references resolve to files
func (v *Validator) WithImageDir(dir string) *Validator {
	v.ImageDir = dir
	return v
}

func (v *Validator) Validate() (ValidationResults, error) {
	if _, err := os.Stat(v.DeckPath); err != nil {
		return v.Results, fmt.Errorf("deck not readable: %w", err)
	}

	v.validateDeckFile()
	if v.deck == nil {
		return v.Results, nil
	}

	v.validateUnknownKeys()
	v.validateCards()
	v.validateImages()

	return v.Results, nil
}

// validateDeckFile loads the deck; any configuration error is fatal to the deck
func (v *Validator) validateDeckFile() {
	d, err := deck.LoadDeck(v.DeckPath)
	if err != nil {
		var cfgErr *deck.ConfigurationError
		if errors.As(err, &cfgErr) {
			v.Results.Errors = append(v.Results.Errors, cfgErr.Err.Error())
		} else {
			v.Results.Errors = append(v.Results.Errors, err.Error())
		}
		return
	}
	v.deck = d

	if d.Name == "" {
		v.Results.Warnings = append(v.Results.Warnings, "deck name is not set")
	}
}

// validateUnknownKeys flags keys the loader ignored, usually typos
func (v *Validator) validateUnknownKeys() {
	for _, key := range v.deck.Undecoded {
		v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf("unknown key: %s", key))
	}
}

// validateCards checks the optional card fields
func (v *Validator) validateCards() {
	for _, c := range v.deck.Cards {
		if c.Description == "" {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("card %q has no description", c.Name))
		}
		if c.Image == "" {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("card %q has no image_filename", c.Name))
		}
	}
}

// validateImages checks that local image references exist under the image directory
func (v *Validator) validateImages() {
	if v.ImageDir == "" {
		return
	}
	if _, err := os.Stat(v.ImageDir); os.IsNotExist(err) {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("image directory not found: %s", v.ImageDir))
		return
	}

	check := func(owner, ref string) {
		path, ok := deck.LocalImagePath(v.ImageDir, ref)
		if !ok {
			return
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("%s image not found: %s", owner, ref))
		}
	}

	check("background", v.deck.Background)
	for _, c := range v.deck.Cards {
		check(fmt.Sprintf("card %q", c.Name), c.Image)
	}
}
