// Package rest
package rest

import (
	"net/http"

	"casetrack/internal/config"
	"casetrack/internal/domain"
	"casetrack/internal/logger"
	"casetrack/internal/transport/rest/middleware"
)

type RouterDeps struct {
	Auth *AuthHandler
	User *UserHandler
	Case *CaseHandler

	Tokens   domain.TokenService
	UserRepo domain.UserRepository
	Log      logger.Logger
}

func NewRouter(cfg *config.Config, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS(cfg))

	authStack := middleware.New()
	authStack.Use(middleware.Authenticate(deps.Tokens, deps.UserRepo, deps.Log))

	adminStack := middleware.New()
	adminStack.Use(middleware.Authenticate(deps.Tokens, deps.UserRepo, deps.Log))
	adminStack.Use(middleware.RequireAdmin())

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /auth/send-otp", deps.Auth.SendOTP)
	mux.HandleFunc("POST /auth/signup", deps.Auth.Signup)
	mux.HandleFunc("POST /auth/signin", deps.Auth.Signin)
	mux.HandleFunc("PATCH /auth/reset", deps.Auth.ResetPassword)

	mux.Handle("GET /auth/profile", authStack.Then(http.HandlerFunc(deps.Auth.Profile)))

	mux.Handle("GET /users", authStack.Then(http.HandlerFunc(deps.User.Index)))
	mux.Handle("PATCH /users/{id}", authStack.Then(http.HandlerFunc(deps.User.Update)))

	mux.Handle("GET /users/unverified", adminStack.Then(http.HandlerFunc(deps.User.Unverified)))
	mux.Handle("PATCH /users/{id}/verified", adminStack.Then(http.HandlerFunc(deps.User.Verify)))
	mux.Handle("DELETE /users/unverified/{id}", adminStack.Then(http.HandlerFunc(deps.User.Reject)))
	mux.Handle("PATCH /users/{id}/role", adminStack.Then(http.HandlerFunc(deps.User.UpdateRole)))
	mux.Handle("DELETE /users/{id}", adminStack.Then(http.HandlerFunc(deps.User.Destroy)))

	mux.Handle("GET /cases", authStack.Then(http.HandlerFunc(deps.Case.Index)))
	mux.Handle("POST /cases", authStack.Then(http.HandlerFunc(deps.Case.Store)))
	mux.Handle("GET /cases/assigned/{id}/count", authStack.Then(http.HandlerFunc(deps.Case.AssignedCount)))
	mux.Handle("GET /cases/{id}", authStack.Then(http.HandlerFunc(deps.Case.Show)))
	mux.Handle("PATCH /cases/{id}/status", authStack.Then(http.HandlerFunc(deps.Case.UpdateStatus)))
	mux.Handle("PATCH /cases/{id}/assign", authStack.Then(http.HandlerFunc(deps.Case.Assign)))

	return globalMw.Apply(mux)
}
