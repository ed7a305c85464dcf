package handlers

import (
	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateUser updates a user's name or phone. Users may only edit
// themselves; admins may edit anyone.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if id != userID && c.GetString("user_role") != string(models.UserRoleAdmin) {
		utils.ForbiddenResponse(c)
		return
	}

	var request services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(&request); err != nil {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), id, &request)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", user)
}

// ListUsers is the admin user directory with search and pagination.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "", users, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetUser returns one user by id. Users may only read themselves; admins
// may read anyone.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if id != userID && c.GetString("user_role") != string(models.UserRoleAdmin) {
		utils.ForbiddenResponse(c)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		utils.NotFoundResponse(c, "User")
		return
	}

	utils.SuccessResponse(c, "", user)
}

// SetUserStatus activates, deactivates or suspends an account.
func (h *UserHandler) SetUserStatus(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Status models.UserStatus `json:"status" validate:"required,oneof=active inactive suspended"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(&request); err != nil {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
		return
	}

	if err := h.userService.SetUserStatus(c.Request.Context(), id, request.Status); err != nil {
		utils.NotFoundResponse(c, "User")
		return
	}

	utils.SuccessResponse(c, "User status updated", gin.H{"status": request.Status})
}

// DeleteUser removes an account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		utils.NotFoundResponse(c, "User")
		return
	}

	utils.SuccessResponse(c, "User deleted successfully", nil)
}
