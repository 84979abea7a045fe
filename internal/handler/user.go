package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/skillhive/skillhive-go/internal/middleware"
	"github.com/skillhive/skillhive-go/internal/model"
	"github.com/skillhive/skillhive-go/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// SignUp handles POST /user/signup
func (h *UserHandler) SignUp(c fiber.Ctx) error {
	var req model.SignUpRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
	}

	var errMsg string
	if req.Email, errMsg = middleware.ValidateEmail(req.Email); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if req.Password, errMsg = middleware.ValidatePassword(req.Password); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if req.Username, errMsg = middleware.ValidateUsername(req.Username); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Stack = middleware.ValidateStack(req.Stack)

	resp, err := h.svc.SignUp(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists")
		}
		middleware.Logger.Error().Err(err).Msg("signup failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /user/login
func (h *UserHandler) Login(c fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
	}

	var errMsg string
	if req.Email, errMsg = middleware.ValidateEmail(req.Email); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if req.Password == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "password is required")
	}

	resp, err := h.svc.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		}
		middleware.Logger.Error().Err(err).Msg("login failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
	}

	return c.JSON(resp)
}

// GetByUserID handles GET /user/:userId
func (h *UserHandler) GetByUserID(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Lookup(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "User not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup user")
	}

	return c.JSON(resp)
}

// Welcome handles GET / on the API.
func Welcome(c fiber.Ctx) error {
	return c.SendString("Welcome to the Skill Hive server!")
}
