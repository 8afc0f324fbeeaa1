package v1

import (
	"log"

	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/notify"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/repository"
	"jobboard/internal/usecase"
	"jobboard/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Config config.Config
	DB     database.DB
	Redis  *cache.Redis
	Hub    *ws.Hub
	Mailer *notify.Mailer
	Logger *log.Logger
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.ActionSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
		cfg.JWT.ActionExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(deps.DB)
	skillRepo := repository.NewPostgresSkillRepository(deps.DB)
	userSkillRepo := repository.NewPostgresUserSkillRepository(deps.DB)
	jobRepo := repository.NewPostgresJobRepository(deps.DB)
	jobSkillRepo := repository.NewPostgresJobSkillRepository(deps.DB)
	applicationRepo := repository.NewPostgresApplicationRepository(deps.DB)

	publisher := ws.NewPublisher(deps.Hub)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc, deps.Mailer, logger)
	userUC := usecase.NewUserUsecase(userRepo, jwtSvc, deps.Mailer, logger)
	skillUC := usecase.NewSkillUsecase(skillRepo, logger)
	userSkillUC := usecase.NewUserSkillUsecase(userSkillRepo, skillRepo, logger)
	jobUC := usecase.NewJobUsecase(jobRepo, jobSkillRepo, skillRepo, userSkillRepo, applicationRepo, userRepo, deps.Redis, logger)
	listingUC := usecase.NewJobListUsecase(jobRepo, userSkillRepo, applicationRepo, jobUC, deps.Redis, cfg.Redis.TTL, logger)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, jobSkillRepo, userSkillRepo, userRepo, deps.Mailer, publisher, deps.Redis, logger)

	authHandler := handler.NewAuthHandler(authUC)
	userHandler := handler.NewUserHandler(userUC)
	skillHandler := handler.NewSkillHandler(skillUC)
	userSkillHandler := handler.NewUserSkillHandler(userSkillUC)
	jobHandler := handler.NewJobHandler(jobUC, listingUC)
	applicationHandler := handler.NewApplicationHandler(applicationUC)
	wsHandler := ws.NewHandler(deps.Hub, logger)

	authHandler.RegisterRoutes(r.Group("/auth"))
	userHandler.RegisterConfirmRoutes(r.Group("/account"))
	skillHandler.RegisterRoutes(r.Group("/skills"))

	protected := r.Group("", authMw.Middleware())
	RegisterUsers(protected.Group("/users"), userHandler, userSkillHandler)
	RegisterJobs(protected.Group("/jobs"), jobHandler)
	applicationHandler.RegisterRoutes(protected.Group("/applications"))

	// Public job routes come after the protected ones so /jobs/mine wins
	// over /jobs/:id. They carry optional auth: the listing and detail
	// pages personalize for a signed-in viewer.
	public := r.Group("/jobs", authMw.Optional())
	jobHandler.RegisterPublicRoutes(public)

	r.Get("/ws/events", wsHandler.HandleEventsWS)
}
