package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/skill"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserSkillHandler struct {
	uc usecase.UserSkillUsecase
}

// replaceUserSkillsRequest carries the raw skill map as sent by the client:
// skill id keys, years-of-experience values, both as strings.
type replaceUserSkillsRequest struct {
	Skills map[string]string `json:"skills"`
}

func NewUserSkillHandler(uc usecase.UserSkillUsecase) *UserSkillHandler {
	return &UserSkillHandler{uc: uc}
}

func (h *UserSkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/me/skills")
	grp.Get("/", h.List)
	grp.Put("/", h.Replace)
}

func (h *UserSkillHandler) List(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, newUserSkillResponses(items))
}

func (h *UserSkillHandler) Replace(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	var req replaceUserSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.Replace(c.Context(), userID, req.Skills)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, newUserSkillResponses(items))
}

func newUserSkillResponses(items []skill.UserSkill) []dto.UserSkillResponse {
	res := make([]dto.UserSkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.UserSkillResponse{
			SkillID:         it.SkillID,
			Name:            it.Name,
			Category:        it.Category,
			YearsExperience: it.YearsExperience,
		})
	}
	return res
}
