package routes

import (
	"log"

	"jobboard/internal/config"
	"jobboard/internal/database"
	v1 "jobboard/internal/delivery/http/routes/v1"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/notify"
	"jobboard/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Deps are the process-wide collaborators the route tree wires handlers to.
type Deps struct {
	Config config.Config
	DB     database.DB
	Redis  *cache.Redis
	Hub    *ws.Hub
	Mailer *notify.Mailer
	Logger *log.Logger
}

func RegisterV1(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	v1.Register(r, v1.Deps{
		Config: deps.Config,
		DB:     deps.DB,
		Redis:  deps.Redis,
		Hub:    deps.Hub,
		Mailer: deps.Mailer,
		Logger: deps.Logger,
	})
}
