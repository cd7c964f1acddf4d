package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/elnormous/contenttype"
	json "github.com/goccy/go-json"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
)

var jsonMediaType = contenttype.NewMediaType("application/json")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(body []byte, target any) error {
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("server: decode body: %w", err)
	}
	return nil
}

// availableMediaTypes lists JSON first so requests without an Accept header
// get JSON, followed by every registered renderer.
func (s *Server) availableMediaTypes() []contenttype.MediaType {
	types := []contenttype.MediaType{jsonMediaType}
	for _, ct := range s.renderers.ContentTypes() {
		types = append(types, contenttype.NewMediaType(ct))
	}
	return types
}

// negotiate picks the response media type from the Accept header, answering
// 406 itself when nothing matches.
func (s *Server) negotiate(w http.ResponseWriter, r *http.Request) (string, bool) {
	mediaType, _, err := contenttype.GetAcceptableMediaType(r, s.availableMediaTypes())
	if err != nil {
		writeError(w, http.StatusNotAcceptable, fmt.Errorf("server: not acceptable: %w", err))
		return "", false
	}
	return mimeOf(mediaType), true
}

func mimeOf(mt contenttype.MediaType) string {
	return mt.Type + "/" + mt.Subtype
}

func (s *Server) respondView(w http.ResponseWriter, r *http.Request, id string, status int, view form.View) {
	mediaType, ok := s.negotiate(w, r)
	if !ok {
		return
	}
	if mediaType == mimeOf(jsonMediaType) {
		writeJSON(w, status, sessionResponse{ID: id, View: view})
		return
	}
	s.renderView(r.Context(), w, id, status, view, mediaType, r.URL.Query().Has("state"))
}

func (s *Server) renderView(ctx context.Context, w http.ResponseWriter, id string, status int, view form.View, mediaType string, showState bool) {
	renderer, ok := s.renderers.ForContentType(mediaType)
	if !ok {
		writeError(w, http.StatusNotAcceptable, fmt.Errorf("server: no renderer for %s", mediaType))
		return
	}
	out, err := renderer.Render(ctx, view, renderOptions(id, showState))
	if err != nil {
		s.logger.Error("http.render.failed", "session", id, "renderer", renderer.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}
