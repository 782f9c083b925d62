package deck

import (
	_ "embed"
)

// RiderWaite is the bundled Rider-Waite major arcana deck document
//
//go:embed builtin/rider-waite.yaml
var RiderWaite []byte

// Builtin returns a freshly parsed copy of the bundled deck
func Builtin() (*Deck, error) {
	d, err := Parse(RiderWaite, FormatYAML)
	if err != nil {
		return nil, err
	}
	d.Path = "builtin:rider-waite"
	return d, nil
}
