package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/auth"
	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/service"
)

const maxBodyBytes = 1 << 20

// AuthRequest is the body of signup and login.
type AuthRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// AuthResponse carries the bearer token for later requests.
type AuthResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func owner(r *http.Request) string {
	return auth.FromContext(r.Context()).UserID
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("url", r.URL.Path), zap.Error(err))
	}
	writeError(w, err)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		s.fail(w, r, fmt.Errorf("%w: email is required", service.ErrValidation))
		return
	}
	tok, u, err := s.auth.Signup(r.Context(), req.Name, req.Email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthResponse{Token: tok, User: u})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	tok, u, err := s.auth.Login(r.Context(), req.Email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Token: tok, User: u})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), r.Header.Get("Authorization")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	// a nil session encodes as null
	writeJSON(w, http.StatusOK, auth.FromContext(r.Context()))
}

func (s *Server) catalog(w http.ResponseWriter, r *http.Request) {
	cat, err := s.svc.Catalog(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var in model.ItemInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	it, err := s.svc.CreateItem(r.Context(), owner(r), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.svc.GetItem(r.Context(), owner(r), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteItem(r.Context(), owner(r), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.CreateCategory(r.Context(), owner(r), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) activeList(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.ActiveList(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) saveList(w http.ResponseWriter, r *http.Request) {
	var l model.ShoppingList
	if err := decode(r, &l); err != nil {
		s.fail(w, r, err)
		return
	}
	saved, err := s.svc.SaveList(r.Context(), owner(r), &l)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) getList(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.GetList(r.Context(), owner(r), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) patchList(w http.ResponseWriter, r *http.Request) {
	var p service.ListPatch
	if err := decode(r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.svc.UpdateList(r.Context(), owner(r), mux.Vars(r)["id"], p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	q, err := parseHistoryQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.svc.History(r.Context(), owner(r), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func parseHistoryQuery(r *http.Request) (model.HistoryQuery, error) {
	var q model.HistoryQuery
	v := r.URL.Query()
	for name, dst := range map[string]*int{"page": &q.Page, "perPage": &q.PerPage} {
		if raw := v.Get(name); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return q, fmt.Errorf("%w: %s=%q", errBadRequest, name, raw)
			}
			*dst = n
		}
	}
	if raw := v.Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, fmt.Errorf("%w: since=%q", errBadRequest, raw)
		}
		q.Since = t
	}
	return q, nil
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
