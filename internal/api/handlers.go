package api

import (
	"net/http"
	"strconv"

	"github.com/theirongolddev/savearn/internal/model"

	"github.com/gorilla/mux"
)

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeEntry(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	user := userFrom(r.Context())
	e, err := s.ledger.Create(r.Context(), user, in)
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.events.publish(entryEvent(eventCreated, user, e))
	writeJSON(w, http.StatusCreated, envelope{Message: "Entry created successfully", Data: e})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid limit: must be a positive integer")
			return
		}
		limit = n
	}

	page, err := s.ledger.List(r.Context(), userFrom(r.Context()), limit, q.Get("lastKey"))
	if err != nil {
		writeFailure(w, err)
		return
	}

	body := listBody{Data: page.Entries, Count: len(page.Entries)}
	if page.Next != "" {
		body.LastKey = &page.Next
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.ledger.Get(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: e})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeEntry(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	user := userFrom(r.Context())
	e, err := s.ledger.Update(r.Context(), user, mux.Vars(r)["id"], in)
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.events.publish(entryEvent(eventUpdated, user, e))
	writeJSON(w, http.StatusOK, envelope{Message: "Entry updated successfully", Data: e})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id := mux.Vars(r)["id"]
	if err := s.ledger.Delete(r.Context(), user, id); err != nil {
		writeFailure(w, err)
		return
	}
	s.events.publish(entryEvent(eventDeleted, user, model.SavingEntry{ID: id}))
	writeJSON(w, http.StatusOK, envelope{Message: "Entry deleted successfully"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.ledger.Stats(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: st})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.ledger.Dashboard(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: d})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.ledger.Profile(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.log.Warn("profile lookup failed", "user", userFrom(r.Context()), "error", err)
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: p})
}
