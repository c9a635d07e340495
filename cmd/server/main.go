package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/RS76448/attendencesystem/config"
	"github.com/RS76448/attendencesystem/internal/api/handler"
	"github.com/RS76448/attendencesystem/internal/api/router"
	"github.com/RS76448/attendencesystem/internal/identity"
	"github.com/RS76448/attendencesystem/internal/repository"
	"github.com/RS76448/attendencesystem/internal/repository/firestorerepo"
	"github.com/RS76448/attendencesystem/internal/repository/mongorepo"
	"github.com/RS76448/attendencesystem/internal/service"
	"github.com/RS76448/attendencesystem/pkg/database"
	"github.com/RS76448/attendencesystem/pkg/docstore"
	"github.com/RS76448/attendencesystem/pkg/jwt"
	applogger "github.com/RS76448/attendencesystem/pkg/logger"
	"github.com/RS76448/attendencesystem/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	loc, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("load timezone", zap.Error(err))
	}

	logger.Info("starting absence desk",
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.String("identity", cfg.Identity.Provider),
		zap.String("timezone", loc.String()),
	)

	ctx := context.Background()
	var app *firebase.App
	firebaseApp := func() *firebase.App {
		if app == nil {
			if app, err = docstore.NewFirebaseApp(ctx, &cfg.Firestore); err != nil {
				logger.Fatal("init firebase", zap.Error(err))
			}
		}
		return app
	}

	// 3. store
	repo, err := openStore(ctx, cfg, firebaseApp, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}

	// 4. redis is optional: without it logout and refresh rotation cannot revoke tokens
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token blacklist disabled", zap.Error(err))
		rdb = nil
	}

	// 5. identity provider
	var idp identity.Provider
	switch cfg.Identity.Provider {
	case config.IdentityFirebase:
		authClient, err := firebaseApp().Auth(ctx)
		if err != nil {
			logger.Fatal("init firebase auth", zap.Error(err))
		}
		toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(cfg.Identity.FirebaseAPIKey))
		if err != nil {
			logger.Fatal("init identity toolkit", zap.Error(err))
		}
		idp = identity.NewFirebase(authClient, toolkit, cfg.Identity.MinPasswordLength)
	default:
		idp = identity.NewLocal(repo.Account, cfg.Identity.MinPasswordLength)
	}

	// 6. wiring: repository → service → handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(repo, idp, jwtMgr, rdb, service.SystemClock(loc), logger)

	if created, err := svc.User.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		logger.Fatal("bootstrap admin", zap.Error(err))
	} else if created {
		logger.Warn("bootstrap admin created; unset bootstrap.admin_password", zap.String("email", cfg.Bootstrap.AdminEmail))
	}
	h := handler.NewHandler(svc)
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if repo.Close != nil {
		if err := repo.Close(); err != nil {
			logger.Error("close store", zap.Error(err))
		}
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}

// openStore connects the configured backend and returns its repositories.
func openStore(ctx context.Context, cfg *config.Config, firebaseApp func() *firebase.App, logger *zap.Logger) (*repository.Repository, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverFirestore:
		client, err := docstore.NewFirestore(ctx, firebaseApp(), logger)
		if err != nil {
			return nil, err
		}
		return firestorerepo.NewRepository(client), nil

	case config.StoreDriverMongo:
		db, err := docstore.NewMongo(ctx, &cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return mongorepo.NewRepository(db), nil

	default:
		db, err := database.NewDB(&cfg.Database, applogger.GormLevel(cfg.Log.Level), logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			return nil, err
		}
		logger.Info("postgres connected")
		repo := repository.NewRepository(db)
		repo.Close = sqlDB.Close
		return repo, nil
	}
}
