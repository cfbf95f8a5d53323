package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rmarchao/user-manager/internal/api/http/handler"
	"github.com/rmarchao/user-manager/internal/api/http/router"
	httpServer "github.com/rmarchao/user-manager/internal/api/http/server"
	"github.com/rmarchao/user-manager/internal/config"
	"github.com/rmarchao/user-manager/internal/hash"
	"github.com/rmarchao/user-manager/internal/logger"
	"github.com/rmarchao/user-manager/internal/mail"
	"github.com/rmarchao/user-manager/internal/model"
	"github.com/rmarchao/user-manager/internal/repository/postgres"
	"github.com/rmarchao/user-manager/internal/server"
	"github.com/rmarchao/user-manager/internal/service"
	"github.com/rmarchao/user-manager/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel).With("service", "user-manager")

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	verificationTokenRepo := postgres.NewVerificationTokenRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.Token.RefreshTTL)
	hasher := hash.NewBcrypt(0)

	mailer, err := mail.NewSMTP(cfg.SMTP)
	if err != nil {
		logger.Fatal("failed to create mail client", "error", err)
	}
	mailService := mail.NewService(mailer, cfg.Mail.BaseURL, logger)

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, userRepo, cfg.Token.RefreshTTL, logger)
	authService := service.NewAuth(userRepo, verificationTokenRepo, hasher, tokenService, mailService, cfg.Token.VerificationTTL, logger)
	userService := service.NewUsers(userRepo, hasher, authService, logger)

	srv := registerHTTPServer(logger, db, authService, userService, tokenService, tokenManager, cfg)

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerHTTPServer(
	logger *logger.Logger,
	db *postgres.Connection,
	authService *service.Auth,
	userService *service.Users,
	tokenService *service.TokenService,
	tokenManager model.TokenManager,
	cfg *config.Config,
) *httpServer.HTTPServer {
	authHandler := handler.NewAuth(authService, userService, tokenService.RefreshTTL(), logger)
	userHandler := handler.NewUsers(userService, logger)
	healthHandler := handler.NewHealth(db)

	r := router.New(authHandler, userHandler, healthHandler, tokenManager, logger)

	return httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))
}
