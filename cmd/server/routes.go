package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unclebandit/influencer-outreach/internal/app"
	"github.com/unclebandit/influencer-outreach/internal/controller"
	"github.com/unclebandit/influencer-outreach/internal/handler"
	"github.com/unclebandit/influencer-outreach/internal/metrics"
)

func newRouter(a *app.App) http.Handler {
	sendController := &controller.SendController{Mailer: a.Mailer, Log: a.Log}
	templateController := &controller.TemplateController{
		TemplateService: a.Template,
		OutreachService: a.Outreach,
	}
	outreachController := &controller.OutreachController{OutreachService: a.Outreach}
	dashboardHandler := &handler.DashboardHandler{
		Service:  a.Outreach,
		Settings: a.Settings,
		DB:       a.DB,
		Log:      a.Log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.HTTPMiddleware)

	// Mail send boundary
	r.Post("/api/send", sendController.Send)

	// Template routes
	r.Get("/templates", templateController.ListTemplates)
	r.Post("/templates", templateController.CreateTemplate)
	r.Post("/templates/test-send", templateController.TestSend)
	r.Get("/templates/{id}", templateController.GetTemplate)
	r.Put("/templates/{id}", templateController.UpdateTemplate)
	r.Delete("/templates/{id}", templateController.DeleteTemplate)
	r.Post("/templates/{id}/preview", templateController.PreviewTemplate)

	// Contacts and outreach runs
	r.Get("/contacts", outreachController.ListContacts)
	r.Post("/outreach/runs", outreachController.StartRun)
	r.Get("/outreach/runs/{id}", outreachController.GetRun)
	r.Delete("/outreach/runs/{id}", outreachController.CancelRun)

	r.Get("/dashboard/stats", dashboardHandler.StatsHandler)
	r.Get("/settings", dashboardHandler.SettingsHandler)
	r.Get("/healthz", dashboardHandler.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
