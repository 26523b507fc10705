package app

import (
	"candidateTasks/internal/config"
	"candidateTasks/internal/handlers"
	"candidateTasks/internal/logger"
	"candidateTasks/internal/middleware"
	"candidateTasks/internal/repository/task/inmemory"
	"candidateTasks/internal/repository/task/postgres"
	"candidateTasks/internal/service"
	"candidateTasks/internal/worker"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Repository - хранилище, которое нужно и сервису, и фоновой проверке
type Repository interface {
	service.Repository
	worker.OutstandingSource
}

type App struct {
	config     *config.Config
	server     *http.Server
	repository Repository
	service    *service.AssignmentService
	worker     *worker.OverdueWorker
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init собирает зависимости: логгер, репозиторий, сервис, воркер и HTTP сервер
func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	repo, err := a.initRepository(ctx)
	if err != nil {
		a.Shutdown()
		return nil, err
	}
	a.repository = repo
	a.service = service.NewAssignmentService(repo)

	var overdue handlers.OverdueReporter
	if a.config.Worker.Enabled {
		a.worker = worker.NewOverdueWorker(repo, &a.config.Worker.Interval, &a.config.Worker.BatchSize, a.service.Now)
		overdue = a.worker
	}

	router := handlers.NewRouter(handlers.NewHandler(a.service, overdue),
		middleware.RequestID,
		middleware.Recover,
		middleware.Logging,
		middleware.CORS(a.config.CORS.AllowedOrigins),
		middleware.RateLimit(a.config.RateLimit.RPM),
	)

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("App: Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.Bool("worker", a.config.Worker.Enabled),
		zap.String("addr", a.server.Addr))

	return a, nil
}

func (a *App) initRepository(ctx context.Context) (Repository, error) {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		storage, err := OpenPostgres(ctx, a.config.Database)
		if err != nil {
			return nil, err
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Завершение работы с базой данных...")
			storage.Close()
		})

		if err := storage.Migrate(); err != nil {
			return nil, fmt.Errorf("миграции: %w", err)
		}
		return storage, nil

	default:
		storage := inmemory.NewStorage()
		if path := a.config.Repository.SeedFile; path != "" {
			if err := storage.LoadSeedFile(ctx, path); err != nil {
				return nil, fmt.Errorf("загрузка сида: %w", err)
			}
		}
		return storage, nil
	}
}

// OpenPostgres открывает пул соединений по настройкам database
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*postgres.Storage, error) {
	storage, err := postgres.New(ctx, cfg.URL,
		postgres.WithMaxConns(cfg.MaxConnections),
		postgres.WithMinConns(cfg.MinConnections),
		postgres.WithIdleTimeout(cfg.IdleTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("подключение к postgres: %w", err)
	}
	return storage, nil
}

// Run запускает HTTP сервер и фоновую проверку до отмены ctx или первой ошибки
func (a *App) Run(ctx context.Context) error {
	defer a.Shutdown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			return a.worker.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка http сервера: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("App: Приложение остановлено с ошибкой", err)
		return err
	}
	logger.Info("App: Приложение остановлено")
	return nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Shutdown выполняет функции завершения в обратном порядке
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
