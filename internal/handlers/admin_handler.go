package handlers

import (
	"net/http"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/middleware"
	"petnest_backend/internal/models"
	"petnest_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	admin *services.AdminService
}

func NewAdminHandler(base *BaseHandler, admin *services.AdminService) *AdminHandler {
	return &AdminHandler{BaseHandler: base, admin: admin}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Moderators handle verification and post review; role and account
	// management stays admin-only.
	staff := r.Group("/admin")
	staff.Use(middleware.AuthMiddleware(), middleware.RequireRoles(
		string(models.UserRoleAdmin), string(models.UserRoleModerator),
	))
	{
		staff.GET("/users", h.ListUsers)
		staff.GET("/users/:userId", h.GetUser)
		staff.PUT("/users/:userId/verification", h.DecideVerification)
		staff.GET("/verification-requests", h.ListVerificationRequests)
		staff.GET("/posts", h.ListPosts)
		staff.GET("/posts/:postId", h.GetPost)
		staff.DELETE("/posts/:postId", h.DeletePost)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(string(models.UserRoleAdmin)))
	{
		admin.PUT("/users/:userId/role", h.UpdateRole)
		admin.DELETE("/users/:userId", h.DeleteUser)
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.AdminUserListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	users, total, err := h.admin.ListUsers(query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	responses := make([]dto.UserProfileResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.NewUserProfileResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": responses, "total": total})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.admin.GetUser(c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserProfileResponse(user))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.admin.DeactivateUser(c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}

func (h *AdminHandler) DecideVerification(c *gin.Context) {
	var req dto.VerificationDecisionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.admin.DecideVerification(c.Param("userId"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserProfileResponse(user))
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req dto.RoleUpdateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.admin.UpdateRole(c.Param("userId"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserProfileResponse(user))
}

func (h *AdminHandler) ListVerificationRequests(c *gin.Context) {
	requests, err := h.admin.ListVerificationRequests(c.Query("status"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	responses := make([]dto.VerificationRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, dto.NewVerificationRequestResponse(&requests[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	posts, err := h.admin.ListPosts(c.Query("pet_type"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, dto.NewPostResponse(&posts[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *AdminHandler) GetPost(c *gin.Context) {
	post, err := h.admin.GetPost(c.Param("postId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPostResponse(post))
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	if err := h.admin.DeletePost(c.Param("postId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
