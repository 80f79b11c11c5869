// internal/handlers/user/user_handler.go
package user

import (
	"net/http"

	"eventora-service/internal/domain/user"
	"eventora-service/internal/pkg/response"
	service "eventora-service/internal/service/user"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser registers a user or company account
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "Error creating user.", err)
		return
	}

	response.Success(c, http.StatusCreated, "User successfully created.", result)
}

// GetAllUsers lists users with subscriptions expanded
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	result, err := h.userService.GetAll(c.Request.Context())
	if err != nil {
		response.FromError(c, "Error getting users.", err)
		return
	}

	response.Success(c, http.StatusOK, "Users successfully fetched.", result)
}

// GetUserByID fetches an account by id
func (h *UserHandler) GetUserByID(c *gin.Context) {
	result, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "Error getting user.", err)
		return
	}

	response.Success(c, http.StatusOK, "User successfully fetched.", result)
}

// GetCurrentUser fetches an account by login email
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	result, err := h.userService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.FromError(c, "Error getting current user.", err)
		return
	}

	response.Success(c, http.StatusOK, "User successfully fetched.", result)
}

// UpdateUser patches an account, migrating collections on role change
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.userService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "Error updating user.", err)
		return
	}

	response.Success(c, http.StatusOK, "User successfully updated.", result)
}

// UpdateUserSubscription assigns a subscription plan to a company account
func (h *UserHandler) UpdateUserSubscription(c *gin.Context) {
	var req user.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.userService.UpdateSubscription(c.Request.Context(), c.Param("id"), req.SubscriptionID)
	if err != nil {
		response.FromError(c, "Error updating user subscription.", err)
		return
	}

	response.Success(c, http.StatusOK, "User subscription successfully updated.", result)
}

// DeleteUser removes an account
func (h *UserHandler) DeleteUser(c *gin.Context) {
	result, err := h.userService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "Error deleting user.", err)
		return
	}

	response.Success(c, http.StatusOK, "User successfully deleted.", result)
}

// Login verifies credentials and returns an access token
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.userService.Login(c.Request.Context(), c.ClientIP(), &req)
	if err != nil {
		response.FromError(c, "Error logging in.", err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful.", result)
}
