package handlers

import (
	"net/http"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/middleware"
	"petnest_backend/internal/services"
	"petnest_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PetHandler struct {
	*BaseHandler
	pets    *services.PetService
	uploads *Uploader
}

func NewPetHandler(base *BaseHandler, pets *services.PetService, uploads *Uploader) *PetHandler {
	return &PetHandler{BaseHandler: base, pets: pets, uploads: uploads}
}

func (h *PetHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/pets")
	{
		public.GET("", h.List)
		public.GET("/:petId", h.Get)
	}

	authed := r.Group("/pets")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("", h.Create)
		authed.PUT("/:petId", h.Update)
		authed.DELETE("/:petId", h.Delete)
		authed.POST("/:petId/images", h.UploadImages)
	}
}

// Create takes the multipart listing form. The photo may arrive under
// either "image" or "images"; only the first file counts here, more go
// through the batch endpoint.
func (h *PetHandler) Create(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePetRequest
	if !h.BindAndValidateForm(c, &req) {
		return
	}

	if form, err := c.MultipartForm(); err == nil {
		if file := firstFile(form, "image", "images"); file != nil {
			url, err := h.uploads.Save(c.Request.Context(), "pets", file)
			if err != nil {
				h.HandleServiceError(c, err)
				return
			}
			req.ImageURL = url
		}
	}

	result, err := h.pets.CreateListing(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if result.RequiresPayment {
		c.JSON(http.StatusAccepted, dto.PaymentInitiatedResponse{
			PaymentURL:    result.PaymentURL,
			TransactionID: result.TransactionID,
			Pet:           dto.NewPetResponse(result.Pet),
		})
		return
	}
	c.JSON(http.StatusCreated, dto.NewPetResponse(result.Pet))
}

func (h *PetHandler) List(c *gin.Context) {
	var query dto.PetListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	pets, err := h.pets.List(query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	responses := make([]dto.PetResponse, 0, len(pets))
	for i := range pets {
		responses = append(responses, dto.NewPetResponse(&pets[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *PetHandler) Get(c *gin.Context) {
	pet, err := h.pets.Get(c.Param("petId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPetResponse(pet))
}

func (h *PetHandler) Update(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePetRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	pet, err := h.pets.Update(userID, c.Param("petId"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPetResponse(pet))
}

func (h *PetHandler) Delete(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.pets.SoftDelete(userID, c.Param("petId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pet removed from listings"})
}

func (h *PetHandler) UploadImages(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Multipart form required"))
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["image"]
	}
	if len(files) == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("No images provided"))
		return
	}
	if len(files) > services.MaxImagesPerUpload {
		apperrors.HandleError(c, apperrors.New(apperrors.CodeLimitExceeded, "pet", "Maximum 5 images allowed", 400))
		return
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := h.uploads.Save(c.Request.Context(), "pets", file)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		urls = append(urls, url)
	}

	if err := h.pets.AddImages(userID, c.Param("petId"), urls); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	pet, err := h.pets.Get(c.Param("petId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewPetResponse(pet))
}
