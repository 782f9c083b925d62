package card

// Card represents a tarot card in a reading
type Card struct {
	Name        string // Unique within a deck, also the display title
	Description string // Meaning shown once the card is revealed
	Image       string // Opaque face image reference (path or URL)
	Revealed    bool   // Face-up in the current reading
}

// FaceImage returns the image to display for the card, given the shared back image
func (c Card) FaceImage(background string) string {
	if c.Revealed {
		return c.Image
	}
	return background
}
