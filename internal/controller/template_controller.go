// internal/controller/template_controller.go
package controller

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/unclebandit/influencer-outreach/internal/service"
)

type TemplateController struct {
	TemplateService *service.TemplateService
	OutreachService *service.OutreachService
}

func (c *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := c.TemplateService.List(r.Context())
	if err != nil {
		writeError(w, "Failed to load templates", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": templates})
}

func (c *TemplateController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, "Invalid template id", err)
		return
	}
	tpl, err := c.TemplateService.Get(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to load template", err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (c *TemplateController) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var body service.TemplateInput
	if err := decode(r, &body); err != nil {
		writeError(w, "Failed to save template", err)
		return
	}
	tpl, err := c.TemplateService.Create(r.Context(), body)
	if err != nil {
		writeError(w, "Failed to save template", err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Template saved successfully", tpl)
}

func (c *TemplateController) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, "Invalid template id", err)
		return
	}
	var body service.TemplateInput
	if err := decode(r, &body); err != nil {
		writeError(w, "Failed to save template", err)
		return
	}
	tpl, err := c.TemplateService.Update(r.Context(), id, body)
	if err != nil {
		writeError(w, "Failed to save template", err)
		return
	}
	writeSuccess(w, http.StatusOK, "Template updated successfully", tpl)
}

func (c *TemplateController) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, "Invalid template id", err)
		return
	}
	if err := c.TemplateService.Delete(r.Context(), id); err != nil {
		writeError(w, "Failed to delete template", err)
		return
	}
	writeSuccess(w, http.StatusOK, "Template deleted successfully", nil)
}

// TestSend renders the template with sample values and mails it to one address.
func (c *TemplateController) TestSend(w http.ResponseWriter, r *http.Request) {
	var body service.TestSendRequest
	if err := decode(r, &body); err != nil {
		writeError(w, "Failed to send test email", err)
		return
	}
	res, err := c.TemplateService.SendTest(r.Context(), body)
	if err != nil {
		writeError(w, "Failed to send test email", err)
		return
	}
	writeSuccess(w, http.StatusOK, "Test email sent to "+body.Email, res.Response)
}

func (c *TemplateController) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, "Invalid template id", err)
		return
	}
	var body struct {
		ContactID uuid.UUID `json:"contact_id"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, "Failed to render preview", err)
		return
	}
	preview, err := c.OutreachService.PreviewTemplate(r.Context(), id, body.ContactID)
	if err != nil {
		writeError(w, "Failed to render preview", err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}
