package routes

import (
	"github.com/hanifn/tagihin/internal/router"
)

// RegisterAdminRoutes registers the back-office API. Admin sessions use a
// separate cookie and scope; a user session never satisfies these routes.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	r.Post("/api/admin/login", deps.AuthHandler.Login, deps.LoginLimiter)

	session := r.Group(deps.WithAdmin)
	session.Post("/api/admin/logout", deps.AuthHandler.Logout)
	session.Get("/api/admin/me", deps.AuthHandler.Me)

	authed := session.Group(deps.RequireAdmin)
	authed.Get("/api/admin/users", deps.UserHandler.List)
}
