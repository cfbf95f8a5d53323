package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rmarchao/user-manager/internal/api/http/handler"
	"github.com/rmarchao/user-manager/internal/api/http/middleware"
	"github.com/rmarchao/user-manager/internal/logger"
)

// Router wires handlers and middleware into the gin engine. Auth routes are
// public; the user routes sit behind the bearer middleware.
type Router struct {
	auth   *handler.Auth
	users  *handler.Users
	health *handler.Health
	parser middleware.TokenParser
	logger *logger.Logger
}

// New creates a Router over the given handlers.
func New(
	auth *handler.Auth,
	users *handler.Users,
	health *handler.Health,
	parser middleware.TokenParser,
	logger *logger.Logger,
) *Router {
	return &Router{
		auth:   auth,
		users:  users,
		health: health,
		parser: parser,
		logger: logger,
	}
}

// Register builds the gin engine with all routes and middleware attached.
func (r *Router) Register() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.Logging(r.logger))

	engine.GET("/health", r.health.Live)
	engine.GET("/ready", r.health.Ready)

	auth := engine.Group("/api/auth")
	{
		auth.POST("/register", r.auth.Register)
		auth.GET("/register/confirm", r.auth.Confirm)
		auth.POST("/register/resend", r.auth.Resend)
		auth.POST("/login", r.auth.Login)
		auth.POST("/refresh", r.auth.Refresh)
		auth.POST("/logout", r.auth.Logout)
		auth.POST("/password/forget", r.auth.ForgetPassword)
		auth.POST("/password/reset", r.auth.ResetPassword)
	}

	users := engine.Group("/api/users", middleware.Authenticate(r.parser))
	{
		users.GET("", r.users.List)
		users.GET("/:id", r.users.GetByID)
		users.PUT("/update", r.users.Update)
		users.DELETE("/:id", r.users.DeleteByID)
		users.DELETE("", r.users.DeleteByLogin)
	}

	return engine
}
