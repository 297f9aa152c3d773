// internal/controller/outreach_controller.go
package controller

import (
	"net/http"

	"github.com/unclebandit/influencer-outreach/internal/service"
	"github.com/unclebandit/influencer-outreach/internal/tracker"
)

type OutreachController struct {
	OutreachService *service.OutreachService
}

// runView adds the display status counts to a run snapshot.
type runView struct {
	*tracker.Run
	Counts map[string]int `json:"counts"`
}

func viewRun(run *tracker.Run) runView {
	counts := map[string]int{}
	for status, n := range run.Counts() {
		counts[status.Wire()] = n
	}
	return runView{Run: run, Counts: counts}
}

func (c *OutreachController) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := c.OutreachService.ListContacts(r.Context())
	if err != nil {
		writeError(w, "Failed to load contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": contacts})
}

func (c *OutreachController) StartRun(w http.ResponseWriter, r *http.Request) {
	var body service.StartRunRequest
	if err := decode(r, &body); err != nil {
		writeError(w, "Failed to start outreach", err)
		return
	}
	run, err := c.OutreachService.StartRun(r.Context(), body)
	if err != nil {
		writeError(w, "Failed to start outreach", err)
		return
	}
	writeSuccess(w, http.StatusAccepted, "Outreach started", viewRun(run))
}

func (c *OutreachController) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, "Invalid run id", err)
		return
	}
	run, err := c.OutreachService.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to load run", err)
		return
	}
	writeJSON(w, http.StatusOK, viewRun(run))
}

func (c *OutreachController) CancelRun(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, "Invalid run id", err)
		return
	}
	run, err := c.OutreachService.CancelRun(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to cancel run", err)
		return
	}
	writeSuccess(w, http.StatusOK, "Outreach will stop after the current contact", viewRun(run))
}
