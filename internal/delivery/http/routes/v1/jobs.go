package v1

import (
	"jobboard/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterJobs(r fiber.Router, jobHandler *handler.JobHandler) {
	if r == nil || jobHandler == nil {
		return
	}

	jobHandler.RegisterProtectedRoutes(r)
}
