package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/campuscrush/app/internal/config"
	"github.com/campuscrush/app/internal/datastore/postgres"
	redisStore "github.com/campuscrush/app/internal/datastore/redis"
	"github.com/campuscrush/app/internal/engine"
	"github.com/campuscrush/app/internal/logger"
	"github.com/campuscrush/app/internal/middleware"
	routesV1 "github.com/campuscrush/app/internal/routes/v1"
	authUseCase "github.com/campuscrush/app/internal/usecase/auth"
	"github.com/labstack/echo"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	writer     io.Writer
	httpServer *http.Server
	database   *gorm.DB
	redis      *redis.Client
	engine     *engine.Engine
}

func NewServer(ctx context.Context, w io.Writer, cfg *config.Config) (*Server, error) {
	e := echo.New()

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	database, err := postgres.InitializeDB(
		cfg.Get("POSTGRES_USER"),
		cfg.Get("POSTGRES_PASSWORD"),
		cfg.Get("POSTGRES_DB_NAME"),
		cfg.Get("POSTGRES_HOST"),
		cfg.Get("POSTGRES_PORT"),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	rdb, err := redisStore.InitializeRedis(ctx, cfg.Get("REDIS_HOST")+":"+cfg.Get("REDIS_PORT"))
	if err != nil {
		return nil, fmt.Errorf("initializing redis: %w", err)
	}

	eng := engine.New(ctx, database, rdb, engine.LogNotifier{})
	authCase := authUseCase.New(eng.Profiles)

	server := &Server{
		writer: w,
		httpServer: &http.Server{
			Addr:    ":" + cfg.Get("PORT"),
			Handler: e,
		},
		database: database,
		redis:    rdb,
		engine:   eng,
	}

	server.RegisterRoutes(e, authCase)
	return server, nil
}

func (s *Server) RegisterRoutes(e *echo.Echo, authCase authUseCase.IAuthUseCase) {
	e.GET("/healthz", s.handleHealthCheck)
	e.Use(middleware.JWTMiddlewareSkipper(s.engine.Profiles))
	routesV1.InitV1Routes(e, s.engine, authCase)
}

func (s *Server) StartServer() error {
	fmt.Fprintf(s.writer, "Server starting on %s\n", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func Run(ctx context.Context, w io.Writer, args []string) error {
	env := "dev"
	if len(args) > 1 {
		env = args[1]
	}

	cfg, err := config.NewConfig(env)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Init(logger.Config{
		Level:  cfg.Get("LOG_LEVEL"),
		Format: cfg.Get("LOG_FORMAT"),
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := NewServer(ctx, w, cfg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.StartServer(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
