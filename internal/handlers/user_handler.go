package handlers

import (
	"net/http"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/middleware"
	"petnest_backend/internal/services"
	"petnest_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	users   *services.UserService
	uploads *Uploader
}

func NewUserHandler(base *BaseHandler, users *services.UserService, uploads *Uploader) *UserHandler {
	return &UserHandler{BaseHandler: base, users: users, uploads: uploads}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/users")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/me", h.GetProfile)
		group.PUT("/me", h.UpdateProfile)
		group.POST("/me/picture", h.UploadProfilePicture)
		group.GET("/me/status", h.GetStatus)
		group.POST("/me/verification", h.SubmitVerification)
		group.GET("/me/posts", h.ListMyPosts)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserProfileResponse(user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserProfileResponse(user))
}

func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Multipart form required"))
		return
	}

	file := firstFile(form, "profile_picture", "image")
	if file == nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("No file provided"))
		return
	}

	url, err := h.uploads.Save(c.Request.Context(), "profiles/"+userID, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	user, err := h.users.UpdateProfile(userID, dto.UpdateProfileRequest{ProfilePicture: &url})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserProfileResponse(user))
}

func (h *UserHandler) GetStatus(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	status, err := h.users.GetStatus(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// SubmitVerification takes the multipart identity form. Both NID sides are
// required as files; their stored URLs travel to the service with the text
// fields.
func (h *UserHandler) SubmitVerification(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var sub dto.VerificationSubmission
	if !h.BindAndValidateForm(c, &sub) {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Multipart form required"))
		return
	}

	front := firstFile(form, "nid_front")
	back := firstFile(form, "nid_back")
	if front == nil || back == nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Both nid_front and nid_back files are required"))
		return
	}

	frontURL, err := h.uploads.Save(c.Request.Context(), "nid/"+userID, front)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	backURL, err := h.uploads.Save(c.Request.Context(), "nid/"+userID, back)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	sub.NIDFrontURL = frontURL
	sub.NIDBackURL = backURL

	request, err := h.users.SubmitVerification(userID, sub)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewVerificationRequestResponse(request))
}

func (h *UserHandler) ListMyPosts(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	posts, err := h.users.ListPosts(userID)
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
