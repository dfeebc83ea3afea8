package property

import (
	"net/http"
	"strconv"

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

// RegisterPublicRoutes should run behind OptionalAuth so owners can see their
// own inactive properties.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/properties", h.List)
	rg.GET("/properties/:id", h.Get)
}

// RegisterHostRoutes expects JWTAuth and the host access gate on rg.
func (h *Handler) RegisterHostRoutes(rg *gin.RouterGroup) {
	host := rg.Group("/host/properties")
	{
		host.POST("", h.Create)
		host.GET("", h.ListMine)
		host.PUT("/:id", h.Update)
		host.PATCH("/:id/status", h.SetStatus)
		host.POST("/:id/services", h.AddService)
		host.DELETE("/:id/services/:serviceId", h.RemoveService)
		host.POST("/:id/specialists", h.AddSpecialist)
		host.DELETE("/:id/specialists/:specialistId", h.RemoveSpecialist)
	}
}

// RegisterAdminRoutes expects JWTAuth and AdminOnly on rg.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/properties/:id", h.Delete)
}

/* ---------- PUBLIC ---------- */

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	items, err := h.service.ListPublic(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"properties": items, "count": len(items)})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := param(c, "id")
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": p})
}

/* ---------- HOST ---------- */

func (h *Handler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"property": p})
}

func (h *Handler) ListMine(c *gin.Context) {
	items, err := h.service.ListMine(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"properties": items, "count": len(items)})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := param(c, "id")
	if !ok {
		return
	}
	var req UpdatePropertyRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.service.Update(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": p})
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := param(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.service.SetStatus(c.Request.Context(), middleware.Actor(c), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"property": p})
}

func (h *Handler) AddService(c *gin.Context) {
	id, ok := param(c, "id")
	if !ok {
		return
	}
	var req ServiceInput
	if !bind(c, &req) {
		return
	}
	svc, err := h.service.AddService(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"service": svc})
}

func (h *Handler) RemoveService(c *gin.Context) {
	id, ok := param(c, "id")
	if !ok {
		return
	}
	serviceID, ok := param(c, "serviceId")
	if !ok {
		return
	}
	if err := h.service.RemoveService(c.Request.Context(), middleware.Actor(c), id, serviceID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": serviceID})
}

func (h *Handler) AddSpecialist(c *gin.Context) {
	id, ok := param(c, "id")
	if !ok {
		return
	}
	var req SpecialistInput
	if !bind(c, &req) {
		return
	}
	sp, err := h.service.AddSpecialist(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"specialist": sp})
}

func (h *Handler) RemoveSpecialist(c *gin.Context) {
	id, ok := param(c, "id")
	if !ok {
		return
	}
	specialistID, ok := param(c, "specialistId")
	if !ok {
		return
	}
	if err := h.service.RemoveSpecialist(c.Request.Context(), middleware.Actor(c), id, specialistID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": specialistID})
}

/* ---------- ADMIN ---------- */

func (h *Handler) Delete(c *gin.Context) {
	id, ok := param(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+name)
		return 0, false
	}
	return id, true
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
