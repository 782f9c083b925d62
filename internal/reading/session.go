// Package reading holds the card reading state machine and the per-visitor
// session registry that the presentation adapters drive.
package reading

import (
	"math/rand/v2"

	"github.com/arcanaland/unfoldfate/internal/card"
	"github.com/arcanaland/unfoldfate/internal/deck"
)

// noSelection marks a session with no card selected.
const noSelection = -1

// Session is one reading over a shuffled copy of a deck.
//
// A session is Open while selection is enabled and no card is revealed, and
// Locked after exactly one card has been selected. Only Reset unlocks it.
// Session is not safe for concurrent use.
type Session struct {
	cards      []card.Card
	background string
	selected   int
	shuffle    func(n int, swap func(i, j int))
}

// Option configures a Session.
type Option func(*Session)

// WithRand makes the session shuffle with r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		s.shuffle = r.Shuffle
	}
}

// New starts an Open session over a private copy of the deck's cards.
func New(d *deck.Deck, opts ...Option) (*Session, error) {
	if d == nil || len(d.Cards) == 0 {
		return nil, ErrEmptyDeck
	}

	s := &Session{
		cards:      make([]card.Card, len(d.Cards)),
		background: d.Background,
		shuffle:    rand.Shuffle,
	}
	copy(s.cards, d.Cards)
	for _, opt := range opts {
		opt(s)
	}

	s.Reset()
	return s, nil
}

// Reset starts a new reading: every card face-down, nothing selected and the
// order reshuffled uniformly at random.
func (s *Session) Reset() {
	for i := range s.cards {
		s.cards[i].Revealed = false
	}
	s.selected = noSelection
	s.shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Select reveals the card at index in the current order and locks the
// session. It reports whether the selection was applied: a Locked session
// ignores the call and returns false with no error. On an Open session an
// index outside the current order returns ErrCardNotFound and leaves the
// session untouched.
func (s *Session) Select(index int) (bool, error) {
	if !s.SelectionEnabled() {
		return false, nil
	}
	if index < 0 || index >= len(s.cards) {
		return false, ErrCardNotFound
	}

	s.cards[index].Revealed = true
	s.selected = index
	return true, nil
}

// SelectByName selects the card with the given name, wherever the shuffle put it.
func (s *Session) SelectByName(name string) (bool, error) {
	index, ok := s.IndexOf(name)
	if !ok {
		return false, ErrCardNotFound
	}
	return s.Select(index)
}

// IndexOf returns the current position of the named card.
func (s *Session) IndexOf(name string) (int, bool) {
	for i, c := range s.cards {
		if c.Name == name {
			return i, true
		}
	}
	return noSelection, false
}

// Cards returns a copy of the cards in their current order.
func (s *Session) Cards() []card.Card {
	out := make([]card.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Card returns the card at index in the current order.
func (s *Session) Card(index int) (card.Card, bool) {
	if index < 0 || index >= len(s.cards) {
		return card.Card{}, false
	}
	return s.cards[index], true
}

// Selected returns the card chosen in this reading, if any.
func (s *Session) Selected() (card.Card, bool) {
	if s.selected == noSelection {
		return card.Card{}, false
	}
	return s.cards[s.selected], true
}

// SelectedIndex returns the position of the selected card, or -1.
func (s *Session) SelectedIndex() int {
	return s.selected
}

// SelectionEnabled reports whether the session is Open.
func (s *Session) SelectionEnabled() bool {
	return s.selected == noSelection
}

// Background returns the image shown on every face-down card.
func (s *Session) Background() string {
	return s.background
}

// Len returns the number of cards in the reading.
func (s *Session) Len() int {
	return len(s.cards)
}
