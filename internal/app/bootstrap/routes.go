// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	booksfeature "github.com/dalemusser/shelfhub/internal/app/features/books"
	borrowsfeature "github.com/dalemusser/shelfhub/internal/app/features/borrows"
	healthfeature "github.com/dalemusser/shelfhub/internal/app/features/health"
	notifyfeature "github.com/dalemusser/shelfhub/internal/app/features/notify"
	usersfeature "github.com/dalemusser/shelfhub/internal/app/features/users"
	userstore "github.com/dalemusser/shelfhub/internal/app/store/users"
	"github.com/dalemusser/shelfhub/internal/app/system/auth"
	"github.com/dalemusser/shelfhub/internal/app/system/authz"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ShelfHub mounts:
//   - /health for load balancers and orchestrators,
//   - /api for the REST surface (books, borrowed books, users),
//   - /ws for the admin notification socket.
//
// Routes that mutate data run behind the Firebase token middleware; the
// full user listing additionally requires the admin role.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	guard := authz.New(userstore.New(deps.MongoDatabase))

	// Token chain for authenticated routes: verify the Firebase ID token,
	// then require an email claim so handlers can attribute the request.
	authed := []func(http.Handler) http.Handler{
		auth.RequireToken(deps.Verifier, logger),
		auth.RequireEmail,
	}
	admin := auth.RequireAdmin(guard, logger)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(appCfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// REST API
	r.Route("/api", func(api chi.Router) {
		booksHandler := booksfeature.NewHandler(deps.MongoDatabase, appCfg.DefaultPageSize, appCfg.TopListLimit, logger)
		booksfeature.Register(api, booksHandler, authed...)

		borrowsHandler := borrowsfeature.NewHandler(deps.MongoDatabase, appCfg.BorrowLimit, logger)
		borrowsfeature.Register(api, borrowsHandler)

		usersHandler := usersfeature.NewHandler(deps.MongoDatabase, logger)
		usersfeature.Register(api, usersHandler, authed, admin)
	})

	// Admin notification socket
	hub := notifyfeature.NewHub(guard, logger)
	notifyHandler := notifyfeature.NewHandler(hub, appCfg.AllowedOrigins, logger)
	r.Mount("/ws", notifyfeature.Routes(notifyHandler))

	return r, nil
}

// corsOrigins maps the configured origin list to the middleware's shape;
// an empty list means allow all.
func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
