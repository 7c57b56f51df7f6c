package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/myprogress/internal/auth"
	"github.com/templui/myprogress/internal/config"
	"github.com/templui/myprogress/internal/db"
	"github.com/templui/myprogress/internal/middleware"
	"github.com/templui/myprogress/internal/repository"
	"github.com/templui/myprogress/internal/service"
	"github.com/templui/myprogress/internal/token"
)

type App struct {
	Cfg         *config.Config
	DB          *sqlx.DB
	Guard       *auth.Guard
	AuthService *service.AuthService
	GoalService *service.GoalService
	RateLimiter *middleware.RateLimiter

	stop chan struct{}
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return WithDB(cfg, database), nil
}

// WithDB wires the app around an open, migrated database.
func WithDB(cfg *config.Config, database *sqlx.DB) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)

	// Services
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	authService := service.NewAuthService(userRepository, issuer)
	goalService := service.NewGoalService(goalRepository)

	a := &App{
		Cfg:         cfg,
		DB:          database,
		Guard:       auth.NewGuard(issuer, userRepository),
		AuthService: authService,
		GoalService: goalService,
		stop:        make(chan struct{}),
	}

	if cfg.RateLimitOn {
		a.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute, cfg.TrustProxy)
		go a.RateLimiter.Run(time.Minute, a.stop)
	}

	return a
}

// Ping checks the database connection.
func (a *App) Ping(ctx context.Context) error {
	return db.Ping(ctx, a.DB)
}

func (a *App) Close() error {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
	return db.Close(a.DB)
}
