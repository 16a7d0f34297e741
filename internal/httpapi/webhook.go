package httpapi

import (
	"net/http"
	"strings"
)

// handleWhatsAppWebhook consumes Twilio's inbound-message form POST. The
// response is an empty TwiML document; replies go out through the gateway,
// not the webhook response.
func (s *Server) handleWhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}

	from := strings.TrimSpace(r.PostFormValue("From"))
	body := r.PostFormValue("Body")
	if from == "" {
		respondError(w, http.StatusBadRequest, "missing_from", "From is required")
		return
	}

	outcome := s.deps.Engine.HandleMessage(r.Context(), from, body)
	s.deps.Logger.Debug().
		Str("from", from).
		Str("outcome", string(outcome)).
		Msg("webhook message handled")

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Response></Response>`))
}
