package reading

import "errors"

var (
	// ErrCardNotFound is returned when a selection does not match a card in the current order.
	ErrCardNotFound = errors.New("card not found")
	// ErrEmptyDeck is returned when a session is built from a deck with no cards.
	ErrEmptyDeck = errors.New("deck has no cards")
)
