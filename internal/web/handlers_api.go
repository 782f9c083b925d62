package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arcanaland/unfoldfate/internal/reading"
)

var errAlreadySelected = errors.New("card already selected")

// apiCard hides everything but the position of a face-down card.
type apiCard struct {
	Index       int    `json:"index"`
	Revealed    bool   `json:"revealed"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type apiReading struct {
	Deck             string    `json:"deck,omitempty"`
	Background       string    `json:"background"`
	SelectionEnabled bool      `json:"selectionEnabled"`
	Selected         *apiCard  `json:"selected"`
	Cards            []apiCard `json:"cards"`
}

func (s *Server) apiSnapshot(sess *reading.Session) apiReading {
	out := apiReading{
		Deck:             s.deckName,
		Background:       sess.Background(),
		SelectionEnabled: sess.SelectionEnabled(),
		Cards:            make([]apiCard, 0, sess.Len()),
	}
	for i, c := range sess.Cards() {
		ac := apiCard{Index: i, Revealed: c.Revealed}
		if c.Revealed {
			ac.Name, ac.Description, ac.Image = c.Name, c.Description, c.Image
			sel := ac
			out.Selected = &sel
		}
		out.Cards = append(out.Cards, ac)
	}
	return out
}

func (s *Server) handleAPIReading(w http.ResponseWriter, r *http.Request) {
	var out apiReading
	if err := s.withSession(w, r, func(sess *reading.Session) error {
		out = s.apiSnapshot(sess)
		return nil
	}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIReset(w http.ResponseWriter, r *http.Request) {
	var out apiReading
	if err := s.withSession(w, r, func(sess *reading.Session) error {
		sess.Reset()
		out = s.apiSnapshot(sess)
		return nil
	}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// apiConflict is the answer to a select on a locked reading, which leaves
// the reading as it was.
type apiConflict struct {
	Error   string     `json:"error"`
	Reading apiReading `json:"reading"`
}

func (s *Server) handleAPISelect(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("index must be an integer"))
		return
	}

	var (
		picked apiCard
		out    apiReading
	)
	err = s.withSession(w, r, func(sess *reading.Session) error {
		applied, err := sess.Select(idx)
		if err != nil {
			return err
		}
		if !applied {
			out = s.apiSnapshot(sess)
			return errAlreadySelected
		}
		c, _ := sess.Card(idx)
		picked = apiCard{Index: idx, Revealed: true, Name: c.Name, Description: c.Description, Image: c.Image}
		return nil
	})

	switch {
	case errors.Is(err, reading.ErrCardNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, errAlreadySelected):
		writeJSON(w, http.StatusConflict, apiConflict{Error: err.Error(), Reading: out})
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, picked)
	}
}
