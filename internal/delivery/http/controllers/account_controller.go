package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"
)

// CredentialsRequest is the request body for POST /signup and POST /login.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate implements Validator.
func (c CredentialsRequest) Validate() []string {
	return helpers.ValidateStruct(c)
}

// AccountResponse is the data payload for POST /signup and POST /login.
type AccountResponse struct {
	Email string `json:"email"`
}

// AccountSuccessResponse is the success response envelope for POST /signup (201) and POST /login (200).
type AccountSuccessResponse struct {
	Data    AccountResponse   `json:"data"`
	Message string            `json:"message"`
	Error   *helpers.APIError `json:"error"`
}

// AccountController handles signup and login.
type AccountController struct {
	Logger  *slog.Logger
	Service domain.AccountService
}

// NewAccountController creates an AccountController with the given logger and service.
func NewAccountController(logger *slog.Logger, svc domain.AccountService) *AccountController {
	return &AccountController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUp godoc
// @Summary Sign up
// @Description Register a user with email and password. The password is stored salted and hashed.
// @Tags account
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "Sign-up data"
// @Success 201 {object} controllers.AccountSuccessResponse "message: Signup successful!"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict (user already exists)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /signup [post]
func (c *AccountController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeConflict, "User already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		}
		return
	}

	helpers.WriteJSONMessage(w, http.StatusCreated, "Signup successful!", AccountResponse{Email: user.Email})
}

// Login godoc
// @Summary Log in
// @Description Check email and password. No token or session is issued.
// @Tags account
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "Login credentials"
// @Success 200 {object} controllers.AccountSuccessResponse "message: Login successful!"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /login [post]
func (c *AccountController) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "User not found")
		case errors.Is(err, domain.ErrInvalidCredentials):
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Incorrect password")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		}
		return
	}

	helpers.WriteJSONMessage(w, http.StatusOK, "Login successful!", AccountResponse{Email: user.Email})
}
