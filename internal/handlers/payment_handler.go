package handlers

import (
	"net/http"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/middleware"
	"petnest_backend/internal/models"
	"petnest_backend/internal/services"
	"petnest_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	payments *services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, payments: payments}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	// The callback is unauthenticated; the gateway is not a bearer of our
	// tokens. The transaction id plus signature check stand in for auth.
	r.POST("/payments/callback", h.Callback)
	r.GET("/payments/callback", h.Callback)

	authed := r.Group("/payments")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("", h.History)
	}
}

// Callback accepts the gateway notification. Fields may arrive in the query
// string, the form body, or both; the body wins on conflict.
func (h *PaymentHandler) Callback(c *gin.Context) {
	fields := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	if err := c.Request.ParseMultipartForm(1 << 20); err != nil {
		c.Request.ParseForm()
	}
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	cb := dto.PaymentCallback{
		TransactionID: fields["tran_id"],
		Status:        fields["status"],
		ValID:         fields["val_id"],
		Amount:        fields["amount"],
		VerifySign:    fields["verify_sign"],
		VerifyKey:     fields["verify_key"],
	}
	if cb.TransactionID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("tran_id is required"))
		return
	}

	payment, err := h.payments.HandleCallback(cb, fields)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Callback processed",
		"payment": dto.NewPaymentResponse(payment),
	})
}

func (h *PaymentHandler) History(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	role := middleware.GetUserRole(c)
	isStaff := role == string(models.UserRoleAdmin) || role == string(models.UserRoleModerator)

	payments, err := h.payments.History(userID, isStaff)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	responses := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, dto.NewPaymentResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, responses)
}
