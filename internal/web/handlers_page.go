package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/arcanaland/unfoldfate/internal/card"
	"github.com/arcanaland/unfoldfate/internal/reading"
)

const (
	pageTemplate     = "index.html"
	fragmentTemplate = "update_fragment.html"
)

type cardView struct {
	Index    int
	Name     string
	Image    string
	Revealed bool
}

type pageData struct {
	DeckName         string
	Cards            []cardView
	Selected         *card.Card
	SelectionEnabled bool
}

func (s *Server) snapshot(sess *reading.Session) pageData {
	data := pageData{
		DeckName:         s.deckName,
		SelectionEnabled: sess.SelectionEnabled(),
	}
	for i, c := range sess.Cards() {
		v := cardView{Index: i, Image: c.FaceImage(sess.Background()), Revealed: c.Revealed}
		if c.Revealed {
			v.Name = c.Name
		}
		data.Cards = append(data.Cards, v)
	}
	if sel, ok := sess.Selected(); ok {
		data.Selected = &sel
	}
	return data
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	templ.Handler(templ.FromGoHTML(s.templates.Lookup(name), data)).ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var data pageData
	if err := s.withSession(w, r, func(sess *reading.Session) error {
		data = s.snapshot(sess)
		return nil
	}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.render(w, r, pageTemplate, data)
}

func (s *Server) handleNewReading(w http.ResponseWriter, r *http.Request) {
	var data pageData
	if err := s.withSession(w, r, func(sess *reading.Session) error {
		sess.Reset()
		data = s.snapshot(sess)
		return nil
	}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.respondFragment(w, r, data)
}

// handleSelectCard reveals the clicked card. A stale or malformed index, or a
// click on a locked reading, re-renders the current state unchanged.
func (s *Server) handleSelectCard(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("card_index")

	var data pageData
	err := s.withSession(w, r, func(sess *reading.Session) error {
		defer func() { data = s.snapshot(sess) }()

		idx, err := strconv.Atoi(raw)
		if err != nil {
			return reading.ErrCardNotFound
		}
		_, err = sess.Select(idx)
		return err
	})
	if err != nil && !errors.Is(err, reading.ErrCardNotFound) {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err != nil {
		log.Printf("ignoring selection card_index=%q: %v", raw, err)
	}
	s.respondFragment(w, r, data)
}

// respondFragment answers htmx with out-of-band swaps and plain form posts
// with a redirect back to the page.
func (s *Server) respondFragment(w http.ResponseWriter, r *http.Request, data pageData) {
	if !isHTMXRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, fragmentTemplate, data)
}
