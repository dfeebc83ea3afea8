package subscription

import (
	"net/http"

	"servicehub/internal/middleware"
	"servicehub/internal/pkg/response"
	"servicehub/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/subscriptions/plans", h.Plans)
}

// RegisterHostRoutes expects JWTAuth and the host role on rg but not the
// access gate: hosts locked out by it come here to fix their billing.
func (h *Handler) RegisterHostRoutes(rg *gin.RouterGroup) {
	sub := rg.Group("/host/subscription")
	{
		sub.GET("", h.Current)
		sub.POST("", h.SelectPlan)
		sub.POST("/payment", h.SubmitPayment)
		sub.GET("/access", h.Access)
		sub.GET("/usage", h.Usage)
	}
}

// RegisterAdminRoutes expects JWTAuth and AdminOnly on rg.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/subscriptions", h.ListForReview)
	rg.PATCH("/subscriptions/:id/approve", h.Approve)
	rg.PATCH("/subscriptions/:id/reject", h.Reject)
}

func (h *Handler) Plans(c *gin.Context) {
	plans, err := h.service.Plans(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

func (h *Handler) Current(c *gin.Context) {
	out, err := h.service.Current(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) SelectPlan(c *gin.Context) {
	var req SelectPlanRequest
	if !bind(c, &req) {
		return
	}
	sub, err := h.service.SelectPlan(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subscription": sub})
}

func (h *Handler) SubmitPayment(c *gin.Context) {
	var req SubmitPaymentRequest
	if !bind(c, &req) {
		return
	}
	sub, err := h.service.SubmitPayment(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subscription": sub})
}

func (h *Handler) Access(c *gin.Context) {
	actor := middleware.Actor(c)
	if !actor.IsHost() {
		response.FromError(c, ErrHostOnly)
		return
	}
	d, err := h.service.Access(c.Request.Context(), actor.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) Usage(c *gin.Context) {
	u, err := h.service.Usage(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) ListForReview(c *gin.Context) {
	var q ReviewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	subs, err := h.service.ListForReview(c.Request.Context(), middleware.Actor(c), q.PaymentStatus)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subscriptions": subs, "count": len(subs)})
}

func (h *Handler) Approve(c *gin.Context) {
	sub, err := h.service.Approve(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subscription": sub})
}

// Reject reads the reason leniently; a missing reason is reported by the
// service as a validation error.
func (h *Handler) Reject(c *gin.Context) {
	var req RejectRequest
	_ = c.ShouldBindJSON(&req)
	sub, err := h.service.Reject(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subscription": sub})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return false
	}
	return true
}
