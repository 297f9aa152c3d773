// internal/handler/dashboard_handler.go
package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/unclebandit/influencer-outreach/internal/controller"
	"github.com/unclebandit/influencer-outreach/internal/service"
)

// Settings describes which integrations are wired. It never carries secrets.
type Settings struct {
	Environment    string `json:"environment"`
	Database       bool   `json:"database"`
	MailProvider   string `json:"mail_provider"`
	MailConfigured bool   `json:"mail_configured"`
	MailMissing    string `json:"mail_missing,omitempty"`
	MailFrom       string `json:"mail_from"`
	Queue          string `json:"queue"`
	ProgressStore  string `json:"progress_store"`
	SendDelayMS    int64  `json:"send_delay_ms"`
}

// DashboardHandler serves the read-only dashboard endpoints
type DashboardHandler struct {
	Service  *service.OutreachService
	Settings Settings
	DB       *sql.DB
	Log      zerolog.Logger
}

// StatsHandler returns contact totals per status
func (h *DashboardHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetDashboardStats(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("failed to fetch dashboard stats")
		http.Error(w, "failed to fetch stats: "+err.Error(), controller.StatusCode(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *DashboardHandler) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Settings)
}

// HealthHandler reports 200 while the process is up; the database is pinged
// when one is configured.
func (h *DashboardHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "not configured"}
	code := http.StatusOK

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			h.Log.Warn().Err(err).Msg("health check: database unreachable")
			status["status"] = "degraded"
			status["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		} else {
			status["database"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
