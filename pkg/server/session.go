package server

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/KailasMahavarkar/form-builder/pkg/form"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
	"github.com/KailasMahavarkar/form-builder/pkg/state"
)

type session struct {
	id string

	mu        sync.Mutex
	ctrl      *form.Controller
	submitted map[string]string
}

func newSession(schemaText string, values state.Values, parser *schema.Parser, logger *slog.Logger) (*session, error) {
	sess := &session{id: uuid.NewString()}
	ctrl, err := form.NewFromText(schemaText,
		form.WithParser(parser),
		form.WithLogger(logger.With("session", sess.id)),
		form.WithInitialValues(values),
		form.WithSubmitHandler(func(values map[string]string) {
			sess.submitted = values
		}),
	)
	if err != nil {
		return nil, err
	}
	sess.ctrl = ctrl
	return sess, nil
}

// do runs fn with the session locked.
func (s *session) do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}
