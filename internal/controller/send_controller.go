// internal/controller/send_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/unclebandit/influencer-outreach/internal/mailer"
)

// SendController is the raw mail send endpoint the dashboard calls per contact.
type SendController struct {
	Mailer mailer.Gateway
	Log    zerolog.Logger
}

type sendRequest struct {
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
}

// Send answers 200 with the provider response or 500 with the reason. A
// missing credential is also a 500 here, never a crash.
func (c *SendController) Send(w http.ResponseWriter, r *http.Request) {
	var body sendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFailure(w, http.StatusBadRequest, "Failed to send email", err)
		return
	}

	res := c.Mailer.Send(r.Context(), mailer.Message{
		To:      body.Email,
		Subject: body.Subject,
		HTML:    body.HTMLContent,
	})
	if !res.OK {
		c.Log.Warn().Str("email", body.Email).Str("reason", res.Reason).Msg("send endpoint failed")
		writeJSON(w, http.StatusInternalServerError, Notification{
			Message: "Failed to send email",
			Error:   res.Reason,
		})
		return
	}

	writeSuccess(w, http.StatusOK, "Email sent successfully", res.Response)
}
