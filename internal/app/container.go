package app

import (
	"context"
	"log"
	"os"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/database/migration"
	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/notify"
	"jobboard/internal/ws"
)

// Container holds the process-wide collaborators: one database pool, one
// cache client, one websocket hub, one mailer.
type Container struct {
	Config config.Config
	DB     database.DB
	Redis  *cache.Redis
	Hub    *ws.Hub
	Mailer *notify.Mailer
	Logger *log.Logger
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{Dir: "migrations"}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	dispatcher := notify.NewSMTPDispatcher(cfg.SMTP, logger)
	mailer := notify.NewMailer(dispatcher, cfg.App.BaseURL, logger)

	return &Container{
		Config: cfg,
		DB:     db,
		Redis:  cache.NewRedis(cfg.Redis, logger),
		Hub:    ws.NewHub(logger),
		Mailer: mailer,
		Logger: logger,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Printf("[App] redis close: %v", err)
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
