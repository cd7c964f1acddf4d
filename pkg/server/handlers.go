package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
	"github.com/KailasMahavarkar/form-builder/pkg/render"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/state"
)

type createSessionRequest struct {
	Schema string            `json:"schema"`
	Values map[string]string `json:"values"`
}

type sessionResponse struct {
	ID   string    `json:"id"`
	View form.View `json:"view"`
}

// valueEdit carries exactly one of its members.
type valueEdit struct {
	Value  *string  `json:"value"`
	Values []string `json:"values"`
	Toggle *string  `json:"toggle"`
}

type submitResponse struct {
	Submitted bool              `json:"submitted"`
	Values    map[string]string `json:"values,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.SessionCount()})
}

func (s *Server) handleSchemaDocument(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, schema.DocumentSchema())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := decodeJSON(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	text := req.Schema
	if strings.TrimSpace(text) == "" {
		text = s.SchemaText()
	}
	sess, err := newSession(text, state.Values(req.Values), s.parser, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Info("http.session.created", "session", sess.id)

	var view form.View
	sess.do(func() { view = sess.ctrl.View() })
	w.Header().Set("Location", "/api/sessions/"+sess.id)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.id, View: view})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	var view form.View
	sess.do(func() { view = sess.ctrl.View() })
	s.respondView(w, r, sess.id, http.StatusOK, view)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", errSessionNotFound, id))
		return
	}
	s.logger.Info("http.session.deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEditSchema(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var view form.View
	sess.do(func() {
		sess.ctrl.EditSchemaText(string(body))
		view = sess.ctrl.View()
	})
	s.respondView(w, r, sess.id, http.StatusOK, view)
}

func (s *Server) handleEditValue(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	key := r.PathValue("key")

	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var edit valueEdit
	if err := decodeJSON(body, &edit); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var apply func(*form.Controller)
	switch {
	case edit.Toggle != nil:
		apply = func(c *form.Controller) { c.ToggleOption(key, *edit.Toggle) }
	case edit.Values != nil:
		apply = func(c *form.Controller) { c.EditFieldSelection(key, edit.Values) }
	case edit.Value != nil:
		apply = func(c *form.Controller) { c.EditFieldValue(key, *edit.Value) }
	default:
		writeError(w, http.StatusBadRequest, errors.New(`server: body must carry "value", "values" or "toggle"`))
		return
	}

	var view form.View
	sess.do(func() {
		apply(sess.ctrl)
		view = sess.ctrl.View()
	})
	s.respondView(w, r, sess.id, http.StatusOK, view)
}

// handleSubmit submits the session form. Form-encoded bodies, as posted by
// the HTML preview, are applied as field edits first.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var posted map[string][]string
	if isFormPost(r) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("server: parse form: %w", err))
			return
		}
		posted = r.PostForm
	}

	var (
		accepted bool
		view     form.View
		values   map[string]string
	)
	sess.do(func() {
		if posted != nil {
			applyPostedForm(sess.ctrl, posted)
		}
		accepted = sess.ctrl.Submit()
		view = sess.ctrl.View()
		values = sess.submitted
	})

	status := http.StatusOK
	if !accepted {
		status = http.StatusUnprocessableEntity
	}
	s.logger.Info("http.session.submitted", "session", sess.id, "accepted", accepted, "errors", len(view.Errors))

	mediaType, ok := s.negotiate(w, r)
	if !ok {
		return
	}
	if mediaType != mimeOf(jsonMediaType) {
		s.renderView(r.Context(), w, sess.id, status, view, mediaType, r.URL.Query().Has("state"))
		return
	}

	if accepted {
		writeJSON(w, status, submitResponse{Submitted: true, Values: values})
		return
	}
	writeJSON(w, status, submitResponse{Submitted: false, Errors: view.Errors})
}

// applyPostedForm copies posted fields into the controller. Multi-select
// fields absent from the post are cleared since browsers omit unchecked
// boxes; other absent fields are left untouched.
func applyPostedForm(c *form.Controller, posted map[string][]string) {
	for _, field := range c.View().Fields {
		values, present := posted[field.Key]
		if field.Multiple {
			c.EditFieldSelection(field.Key, values)
			continue
		}
		if !present {
			continue
		}
		value := ""
		if len(values) > 0 {
			value = values[0]
		}
		c.EditFieldValue(field.Key, value)
	}
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("server: read body: %w", err)
	}
	return body, nil
}

func isFormPost(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func renderOptions(id string, showState bool) render.RenderOptions {
	return render.RenderOptions{
		Action:       "/api/sessions/" + id + "/submit",
		Method:       http.MethodPost,
		HiddenFields: render.MergeHiddenFields(nil, render.SessionField(id)),
		ShowState:    showState,
	}
}
