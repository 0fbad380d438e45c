package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/wikiboard/internal/auth"
	"github.com/BradenHooton/wikiboard/internal/handlers"
	"github.com/BradenHooton/wikiboard/internal/policy"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Entries    *handlers.EntryHandler
	Profiles   *handlers.ProfileHandler
	Gallery    *handlers.GalleryHandler
	Reports    *handlers.ReportHandler
	Engagement *handlers.EngagementHandler
	Admin      *handlers.AdminHandler
}

// RegisterRoutes registers all application routes. writeLimit wraps report,
// comment and like writes.
func RegisterRoutes(
	router chi.Router,
	h Handlers,
	authn *auth.Middleware,
	writeLimit func(http.Handler) http.Handler,
) {
	// Public and optionally authenticated reads
	router.Group(func(r chi.Router) {
		r.Use(authn.OptionalAuth)

		r.Get("/entries", h.Entries.ListEntries)
		r.Get("/entries/{id}", h.Entries.GetEntry)
		r.Get("/special/{id}", h.Entries.GetEntry)
		r.Get("/entries/{id}/comments", h.Engagement.ListComments)
		r.Get("/users/{id}", h.Profiles.GetProfile)
		r.Get("/users/{id}/entries", h.Entries.ListUserEntries)
		r.Get("/users/{id}/images", h.Gallery.ListImages)
	})

	// Authenticated routes
	router.Group(func(r chi.Router) {
		r.Use(authn.RequireAuth)

		// Reachable while banned
		r.Get("/me", h.Profiles.Me)
		r.Get("/me/ban-status", h.Profiles.BanStatus)
		r.Get("/me/reports", h.Reports.ListMyReports)

		r.Group(func(r chi.Router) {
			r.Use(authn.RequireNotBanned)

			r.Put("/me/profile", h.Profiles.UpdateProfile)
			r.Put("/me/avatar", h.Profiles.SetAvatar)
			r.Put("/me/background", h.Profiles.SetBackground)

			r.Post("/entries", h.Entries.CreateEntry)
			r.Put("/entries/{id}", h.Entries.UpdateEntry)
			r.Delete("/entries/{id}", h.Entries.DeleteEntry)

			r.Post("/images", h.Gallery.AddImage)
			r.Put("/images/{id}", h.Gallery.RenameImage)
			r.Delete("/images/{id}", h.Gallery.DeleteImage)

			r.Delete("/comments/{id}", h.Engagement.DeleteComment)

			r.Group(func(r chi.Router) {
				r.Use(writeLimit)
				r.Post("/entries/{id}/reports", h.Reports.CreateReport)
				r.Post("/entries/{id}/comments", h.Engagement.AddComment)
				r.Post("/entries/{id}/like", h.Engagement.LikeEntry)
				r.Delete("/entries/{id}/like", h.Engagement.UnlikeEntry)
			})

			r.Route("/admin", func(r chi.Router) {
				r.With(auth.RequireCapability(policy.CapModerate)).Get("/entries", h.Entries.ListModerationQueue)
				r.With(auth.RequireCapability(policy.CapModerate)).Put("/entries/{id}/status", h.Entries.ModerateEntry)
				r.With(auth.RequireCapability(policy.CapVerify)).Put("/entries/{id}/verification", h.Entries.SetVerification)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireCapability(policy.CapReviewReports))
					r.Get("/reports", h.Reports.ListReports)
					r.Put("/reports/{id}/status", h.Reports.UpdateReportStatus)
				})

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireCapability(policy.CapManageUsers))
					r.Get("/users", h.Admin.ListUsers)
					r.Post("/users/{id}/ban", h.Admin.BanUser)
					r.Post("/users/{id}/unban", h.Admin.UnbanUser)
					r.Delete("/users/{id}", h.Admin.DeleteUser)
					r.Put("/users/{id}/role", h.Admin.SetRole)
					r.Put("/users/{id}/badge", h.Admin.SetBadge)
					r.Get("/dashboard/stats", h.Admin.DashboardStats)
					r.Get("/audit", h.Admin.ListAuditLogs)
				})
			})
		})
	})
}
