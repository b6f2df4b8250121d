package app

import (
	"fmt"
	"net/http"

	"phonereset/internal/app/deps"
	"phonereset/internal/app/services"
	resetpassword "phonereset/internal/http/handlers/auth/reset_password"
	sendpasswordresetotp "phonereset/internal/http/handlers/auth/send_password_reset_otp"
	deleteexpiredtokens "phonereset/internal/http/handlers/maintenance/delete_expired_tokens"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	authRouter := chi.NewRouter()
	authRouter.Method(http.MethodPost, "/password_reset/otp", sendpasswordresetotp.New(s.SendPasswordResetOtp))
	authRouter.Method(http.MethodPut, "/password_reset", resetpassword.New(s.ResetPassword))

	maintenanceRouter := chi.NewRouter()
	maintenanceRouter.Method(
		http.MethodDelete,
		"/password_reset_tokens/expired",
		deleteexpiredtokens.New(s.DeleteExpiredTokens),
	)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Mount("/maintenance", maintenanceRouter)

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler: router,
		Addr:    address,
	}
}
