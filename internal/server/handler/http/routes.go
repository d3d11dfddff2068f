package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/GophTasks/internal/metrics"
	"github.com/atinyakov/GophTasks/internal/middleware"
)

// Handlers groups the route handlers mounted by NewRouter.
type Handlers struct {
	Auth     *AuthHandler
	Projects *ProjectHandler
	Todos    *TodoHandler
	Tags     *TagHandler
	AI       *AIHandler
	Health   *HealthHandler
}

// NewRouter constructs the HTTP handler of the task API.
//
// Routes:
//
//	POST   /auth/signup, /auth/login              public
//	GET    /health, /metrics                      public
//	GET    /todo/getTodos                         bearer
//	POST   /todo/createTodo                       bearer
//	PUT    /todo/updateTodo/{id}                  bearer
//	DELETE /todo/deleteTodo/{id}                  bearer
//	GET    /project/getProjects, /getAllProjects  bearer
//	POST   /project/create                        bearer
//	GET    PUT DELETE /project/{id}               bearer
//	GET    /tag/getTags                           bearer
//	POST   /tag/create                            bearer
//	DELETE /tag/{id}                              bearer
//	POST   /ai/generate-tasks, /generate-summary  bearer
//
// Middleware chain (applied in order):
//  1. RequestID
//  2. WithRequestLogging(logger)
//  3. WithMetrics(m)
//  4. Recoverer
//  5. AllowContentType("application/json") for requests with a body
func NewRouter(h Handlers, verifier middleware.TokenVerifier, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithMetrics(m))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Auth.Signup)
		r.Post("/login", h.Auth.Login)
	})
	r.Get("/health", h.Health.Check)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(verifier))

		r.Route("/todo", func(r chi.Router) {
			r.Get("/getTodos", h.Todos.List)
			r.Post("/createTodo", h.Todos.Create)
			r.Put("/updateTodo/{id}", h.Todos.Update)
			r.Delete("/deleteTodo/{id}", h.Todos.Delete)
		})

		r.Route("/project", func(r chi.Router) {
			r.Get("/getProjects", h.Projects.Recent)
			r.Get("/getAllProjects", h.Projects.List)
			r.Post("/create", h.Projects.Create)
			r.Get("/{id}", h.Projects.Get)
			r.Put("/{id}", h.Projects.Update)
			r.Delete("/{id}", h.Projects.Delete)
		})

		r.Route("/tag", func(r chi.Router) {
			r.Get("/getTags", h.Tags.List)
			r.Post("/create", h.Tags.Create)
			r.Delete("/{id}", h.Tags.Delete)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/generate-tasks", h.AI.GenerateTasks)
			r.Post("/generate-summary", h.AI.GenerateSummary)
		})
	})

	return r
}
