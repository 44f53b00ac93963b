package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autobooks/src/api"
	apihandlers "autobooks/src/api/handlers"
	"autobooks/src/auth"
	"autobooks/src/config"
	"autobooks/src/database"
	"autobooks/src/repositories"
	"autobooks/src/services"
	"autobooks/src/utils"
	aws_handler "autobooks/src/utils/aws"
	redis_utils "autobooks/src/utils/redis"
	"autobooks/src/utils/requests"
	"autobooks/src/worker"
	"autobooks/src/worker/controllers"
	workerhandlers "autobooks/src/worker/handlers"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		logrus.WithError(err).Fatal("Error while loading config")
	}
	logger := utils.NewLogger(cfg.Log.Level, cfg.Log.ToFile, cfg.Log.FilePath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errC, err := run(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Couldn't run")
	}

	if err := <-errC; err != nil {
		logger.WithError(err).Fatal("Error while running")
	}
}

type app struct {
	categories   *services.CategoryService
	assets       *services.AssetService
	valuation    *services.ValuationService
	depreciation *services.DepreciationService
	close        func()
}

func setup(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*app, error) {
	if cfg.UsesSecretsManager() {
		awsHandler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		if err := cfg.ApplySecrets(awsHandler.SecretManager); err != nil {
			return nil, err
		}
	}

	db, err := database.SetupDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	closers := []func(){db.Close}

	var (
		treeCache services.CategoryTreeCache = services.NewMemoryTreeCache(cfg.Cache.CategoryTTL)
		locker    services.PeriodLocker
	)
	if cfg.Databases.Redis.Enabled() {
		redisHandler, err := redis_utils.NewRedisHandler(ctx, cfg.Databases.Redis, "autobooks:")
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, using in-process cache")
		} else {
			treeCache = services.NewRedisTreeCache(redisHandler, cfg.Cache.CategoryTTL)
			locker = redisHandler
			closers = append(closers, func() { _ = redisHandler.Close() })
		}
	}

	assetRepo := repositories.NewAssetRepository(db)
	transactionRepo := repositories.NewAssetTransactionRepository(db)
	txRunner := repositories.NewTxRunner(db)

	a := &app{
		categories: services.NewCategoryService(
			repositories.NewAssetCategoryRepository(db),
			repositories.NewWorkspaceRepository(db),
			treeCache,
		),
		assets:    services.NewAssetService(assetRepo, transactionRepo, txRunner),
		valuation: services.NewValuationService(assetRepo, transactionRepo, txRunner),
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}
	a.depreciation = services.NewDepreciationService(assetRepo, transactionRepo, a.valuation, locker)
	return a, nil
}

func newVerifier(cfg *config.Config) (auth.Verifier, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeRemote:
		if cfg.Auth.BaseURL == "" {
			return nil, errors.New("auth.baseUrl is required for remote auth")
		}
		return auth.NewRemoteVerifier(requests.NewExternalAPIService(cfg.Service.RequestTimeout), cfg.Auth.BaseURL, cfg.Auth.APIKey), nil
	case config.AuthModeJWT, "":
		if cfg.Auth.JWTSecret == "" {
			return nil, errors.New("auth.jwtSecret is required for jwt auth")
		}
		return auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (<-chan error, error) {
	errC := make(chan error, 1)

	a, err := setup(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		httpServer *http.Server
		onShutdown = a.close
	)
	if cfg.Service.Type == config.WORKER {
		controller := controllers.NewController(a.depreciation, logger)
		if err := controller.ScheduleDepreciation(cfg.Worker.DepreciationCron); err != nil {
			a.close()
			return nil, err
		}
		httpServer = worker.NewHTTPServer(worker.NewServer(workerhandlers.NewHandler(controller)), cfg.Service.Port)
		onShutdown = func() {
			controller.Stop()
			a.close()
		}
	} else {
		verifier, err := newVerifier(cfg)
		if err != nil {
			a.close()
			return nil, err
		}
		handler, err := apihandlers.NewHandler(a.categories, a.assets, a.valuation,
			services.NewRegisterService(a.assets), cfg.Service.RequestTimeout)
		if err != nil {
			a.close()
			return nil, err
		}
		httpServer = api.NewHTTPServer(api.NewServer(handler, verifier, logger, cfg.Service.BasePath), cfg.Service.Port)
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Error while shutting down server")
		}
		onShutdown()
		errC <- nil
	}()

	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Service.Port, "type": cfg.Service.Type}).Info("Starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("An error raised while setting up server")
			errC <- err
		}
	}()
	return errC, nil
}
