package auth

import (
	"errors"
	"net/http"

	"asesoria/internal/middleware"
	"asesoria/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const cookieMaxAge = 24 * 60 * 60

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler with injected service
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/signin", h.SignIn)
		authGroup.POST("/signout", h.SignOut)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PUT("/me", h.UpdateProfile)
	}
}

// SignUp registers a new client account and opens a session.
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register")
		return
	}

	h.setSessionCookies(c, string(result.User.Role))

	response.Success(c, http.StatusCreated, gin.H{
		"user":  toPublic(result),
		"token": result.Token,
	})
}

// SignIn authenticates a user. A wrong email or password yields a structured
// failure body, not an exception-style 500.
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.SignIn(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to sign in")
		return
	}

	h.setSessionCookies(c, string(result.User.Role))

	response.Success(c, http.StatusOK, gin.H{
		"user":  toPublic(result),
		"token": result.Token,
	})
}

// SignOut clears the session cookies. Token invalidation is the client's
// side: the token simply expires.
func (h *Handler) SignOut(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.SetCookie(middleware.RoleCookie, "", -1, "/", "", false, false)

	response.Success(c, http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": UserPublic{
			ID:                user.ID,
			Email:             user.Email,
			Name:              user.Name,
			Role:              string(user.Role),
			Phone:             user.Phone,
			AvatarURL:         user.AvatarURL,
			AssignedAdvisorID: user.AssignedAdvisorID,
		},
		"is_advisor": user.IsAdvisor(),
		"is_client":  user.IsClient(),
	})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Could not update profile")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"phone": user.Phone,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// setSessionCookies mirrors the session into two cookies for route gating:
// a presence flag and the role value.
func (h *Handler) setSessionCookies(c *gin.Context, role string) {
	c.SetCookie(middleware.SessionCookie, "1", cookieMaxAge, "/", "", false, true)
	c.SetCookie(middleware.RoleCookie, role, cookieMaxAge, "/", "", false, false)
}

func toPublic(result *SignInResult) UserPublic {
	u := result.User
	return UserPublic{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Role:              string(u.Role),
		Phone:             u.Phone,
		AvatarURL:         u.AvatarURL,
		AssignedAdvisorID: u.AssignedAdvisorID,
	}
}
