package api

import (
	"errors"
	"fmt"
	"net/http"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type InviteRegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse excludes sensitive info like password hash. Role and athleteId
// are resolved at login time, not stored on the account.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name,omitempty"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role,omitempty"`
	AthleteID string      `json:"athleteId,omitempty"` // Linked profile, students only
	CreatedAt time.Time   `json:"createdAt"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type InviteInfoResponse struct {
	AthleteID   string `json:"athleteId"`
	AthleteName string `json:"athleteName"`
	Linked      bool   `json:"linked"` // True means the invite was already consumed; show sign-in
}

// --- Handler Methods ---

// Register handles POST /auth/register — the plain (trainer) sign-up path.
// Invited athletes register through RegisterWithInvite instead.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// Login handles POST /auth/login. The response carries the resolved role so
// the client can route to the trainer or student surface without guessing.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, identity, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else if errors.Is(err, service.ErrRoleUndetermined) {
			// The account may be fine; the role lookup failed. Refuse rather
			// than default to a role.
			abortWithError(c, http.StatusServiceUnavailable, "Could not determine account role, try again")
		} else if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  mapIdentityToResponse(identity),
	})
}

// Me handles GET /me. The role is re-resolved against the roster rather than
// read back from the token, so a profile linked after token issuance shows up
// without a re-login.
func (h *AuthHandler) Me(c *gin.Context) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return
	}

	role, athleteID, err := h.authService.ResolveRole(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, "Could not determine account role, try again")
		return
	}

	resp := gin.H{"userId": userIDStr, "role": role}
	if athleteID != nil {
		resp["athleteId"] = athleteID.Hex()
	}
	c.JSON(http.StatusOK, resp)
}

// ResolveInvite handles GET /auth/invites/:inviteId — the greeting data the
// registration screen shows before sign-up. Public, no auth.
func (h *AuthHandler) ResolveInvite(c *gin.Context) {
	inviteID, ok := parseObjectIDParam(c, "inviteId")
	if !ok {
		return
	}

	info, err := h.authService.ResolveInvite(c.Request.Context(), inviteID)
	if err != nil {
		if errors.Is(err, service.ErrInviteInvalid) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to resolve invitation")
		}
		return
	}

	c.JSON(http.StatusOK, InviteInfoResponse{
		AthleteID:   info.AthleteID.Hex(),
		AthleteName: info.AthleteName,
		Linked:      info.Linked,
	})
}

// RegisterWithInvite handles POST /auth/invites/:inviteId/register. Creates
// the student login and links it to the invited profile, or signs into an
// existing account when the email is already registered.
func (h *AuthHandler) RegisterWithInvite(c *gin.Context) {
	inviteID, ok := parseObjectIDParam(c, "inviteId")
	if !ok {
		return
	}

	var req InviteRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, identity, err := h.authService.RegisterWithInvite(c.Request.Context(), inviteID, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteInvalid):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInviteUsed):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrAuthenticationFailed):
			abortWithError(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrRoleUndetermined):
			abortWithError(c, http.StatusServiceUnavailable, "Could not determine account role, try again")
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{
		Token: token,
		User:  mapIdentityToResponse(identity),
	})
}

// mapIdentityToResponse converts a resolved identity to a UserResponse DTO.
func mapIdentityToResponse(identity *service.Identity) UserResponse {
	if identity == nil || identity.User == nil {
		return UserResponse{}
	}

	resp := UserResponse{
		ID:        identity.User.ID.Hex(),
		Name:      identity.User.Name,
		Email:     identity.User.Email,
		Role:      identity.Role,
		CreatedAt: identity.User.CreatedAt,
	}
	if identity.AthleteID != nil {
		resp.AthleteID = identity.AthleteID.Hex()
	}
	return resp
}
