package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/application"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

type applyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type decideRequest struct {
	Status string `json:"status"`
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/mine", h.ListMine)
	r.Get("/received", h.ListReceived)
	r.Post("/jobs/:id", h.Apply)
	r.Put("/:id/status", h.Decide)
	r.Post("/:id/accept", h.AcceptOffer)
	r.Post("/:id/decline", h.DeclineOffer)
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}
	jobID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req applyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Apply(c.Context(), userID, jobID, usecase.ApplyInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewApplicationResponse(created))
}

func (h *ApplicationHandler) Decide(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}
	applicationID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req decideRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.Decide(c.Context(), userID, applicationID, application.Status(req.Status))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(updated))
}

func (h *ApplicationHandler) AcceptOffer(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}
	applicationID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.uc.AcceptOffer(c.Context(), userID, applicationID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := dto.AcceptOfferResponse{
		Application: dto.NewApplicationResponse(result.Application),
		JobClosed:   result.JobClosed,
		Warning:     result.Warning,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ApplicationHandler) DeclineOffer(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}
	applicationID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	updated, err := h.uc.DeclineOffer(c.Context(), userID, applicationID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(updated))
}

func (h *ApplicationHandler) ListMine(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := make([]dto.MyApplicationResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.MyApplicationResponse{
			ApplicationResponse: dto.NewApplicationResponse(it.Application),
			JobTitle:            it.JobTitle,
			JobStatus:           string(it.JobStatus),
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ApplicationHandler) ListReceived(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListReceived(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := make([]dto.ReceivedApplicationResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.ReceivedApplicationResponse{
			ApplicationResponse: dto.NewApplicationResponse(it.Application),
			JobTitle:            it.JobTitle,
			Applicant:           it.Applicant,
			SkillMatch: dto.OverallMatchResponse{
				Status: string(it.SkillMatch.Status),
				Label:  it.SkillMatch.Label,
			},
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
