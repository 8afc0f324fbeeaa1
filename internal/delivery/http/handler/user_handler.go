package handler

import (
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type preferencesRequest struct {
	NotifyOwnStatusChange bool `json:"notify_own_status_change"`
	NotifyNewApplicant    bool `json:"notify_new_applicant_for_my_job"`
}

type emailChangeRequest struct {
	NewEmail string `json:"new_email"`
}

type usernameChangeRequest struct {
	NewUsername string `json:"new_username"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.Profile)
	r.Put("/me/password", h.ChangePassword)
	r.Put("/me/preferences", h.UpdatePreferences)

	r.Post("/me/email-change", h.RequestEmailChange)
	r.Post("/me/username-change", h.RequestUsernameChange)
	r.Post("/me/delete", h.RequestAccountDeletion)
}

// RegisterConfirmRoutes mounts the token-redemption endpoints. They sit
// outside the auth group: the link in the email is the credential.
func (h *UserHandler) RegisterConfirmRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/email-change/confirm", h.ConfirmEmailChange)
	r.Post("/username-change/confirm", h.ConfirmUsernameChange)
	r.Post("/account-deletion/confirm", h.ConfirmAccountDeletion)
}

func (h *UserHandler) Profile(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	usr, err := h.uc.Profile(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, newUserResponse(usr))
}

func (h *UserHandler) ChangePassword(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.ChangePassword(c.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Password updated", nil)
}

func (h *UserHandler) UpdatePreferences(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	var req preferencesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, err := h.uc.UpdatePreferences(c.Context(), userID, usecase.PreferencesInput{
		NotifyOwnStatusChange: req.NotifyOwnStatusChange,
		NotifyNewApplicant:    req.NotifyNewApplicant,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, newUserResponse(usr))
}

func (h *UserHandler) RequestEmailChange(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	var req emailChangeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.RequestEmailChange(c.Context(), userID, req.NewEmail); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Confirmation link sent to your current address", nil)
}

func (h *UserHandler) ConfirmEmailChange(c fiber.Ctx) error {
	var req tokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.ConfirmEmailChange(c.Context(), req.Token); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Email address updated", nil)
}

func (h *UserHandler) RequestUsernameChange(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	var req usernameChangeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.RequestUsernameChange(c.Context(), userID, req.NewUsername); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Confirmation link sent", nil)
}

func (h *UserHandler) ConfirmUsernameChange(c fiber.Ctx) error {
	var req tokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.ConfirmUsernameChange(c.Context(), req.Token); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Username updated", nil)
}

func (h *UserHandler) RequestAccountDeletion(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	if err := h.uc.RequestAccountDeletion(c.Context(), userID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Confirmation link sent", nil)
}

func (h *UserHandler) ConfirmAccountDeletion(c fiber.Ctx) error {
	var req tokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.ConfirmAccountDeletion(c.Context(), req.Token); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Account deleted", nil)
}
