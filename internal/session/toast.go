package session

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	flashCookieName = "nb_flash"
	ToastSuccess    = "success"
	ToastError      = "error"
)

type Toast struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Notifier queues toasts across a redirect using session flashes.
type Notifier struct {
	store  sessions.Store
	logger *zap.Logger
}

func NewNotifier(store sessions.Store, logger *zap.Logger) *Notifier {
	return &Notifier{store: store, logger: logger}
}

func (n *Notifier) Success(w http.ResponseWriter, r *http.Request, message string) {
	n.push(w, r, ToastSuccess, message)
}

func (n *Notifier) Error(w http.ResponseWriter, r *http.Request, message string) {
	n.push(w, r, ToastError, message)
}

func (n *Notifier) push(w http.ResponseWriter, r *http.Request, kind, message string) {
	raw, _ := n.store.Get(r, flashCookieName)
	data, err := json.Marshal(Toast{ID: uuid.NewString(), Kind: kind, Message: message})
	if err != nil {
		return
	}
	raw.AddFlash(string(data))
	if err := raw.Save(r, w); err != nil {
		n.logger.Warn("toast save failed", zap.Error(err))
	}
}

// Drain returns queued toasts and clears them. It must run before the
// response body is written since it sets a cookie.
func (n *Notifier) Drain(w http.ResponseWriter, r *http.Request) []Toast {
	raw, err := n.store.Get(r, flashCookieName)
	if err != nil {
		return nil
	}
	flashes := raw.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	toasts := make([]Toast, 0, len(flashes))
	for _, f := range flashes {
		s, ok := f.(string)
		if !ok {
			continue
		}
		var t Toast
		if err := json.Unmarshal([]byte(s), &t); err == nil {
			toasts = append(toasts, t)
		}
	}
	if err := raw.Save(r, w); err != nil {
		n.logger.Warn("toast drain save failed", zap.Error(err))
	}
	return toasts
}
