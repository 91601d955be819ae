package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/repository/mongodb"
	"github.com/skverma/milknet/internal/service/registry"
)

// RegistryHandler exposes dairy, device and roster management
// endpoints.
type RegistryHandler struct {
	svc    *registry.Service
	logger *zap.Logger
}

// NewRegistryHandler constructs the HTTP handler adapter.
func NewRegistryHandler(svc *registry.Service, logger *zap.Logger) *RegistryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryHandler{svc: svc, logger: logger}
}

// CreateDairy registers a dairy.
func (h *RegistryHandler) CreateDairy(c *gin.Context) {
	var in registry.NewDairyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dairyCode, dairyName, email and password are required"})
		return
	}

	dairy, err := h.svc.CreateDairy(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dairy)
}

// GetDairy fetches a dairy by its code.
func (h *RegistryHandler) GetDairy(c *gin.Context) {
	dairy, err := h.svc.GetDairyByCode(c.Request.Context(), c.Param("dairyCode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dairy)
}

// DeleteDairy removes a dairy registration.
func (h *RegistryHandler) DeleteDairy(c *gin.Context) {
	if err := h.svc.DeleteDairy(c.Request.Context(), c.Param("dairyCode")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateDevice registers a collection device under a dairy.
func (h *RegistryHandler) CreateDevice(c *gin.Context) {
	var in registry.NewDeviceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deviceid, dairyCode, email and password are required"})
		return
	}

	device, err := h.svc.CreateDevice(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, device)
}

// GetDevice fetches a device by its identifier.
func (h *RegistryHandler) GetDevice(c *gin.Context) {
	device, err := h.svc.GetDevice(c.Request.Context(), c.Param("deviceid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// DeleteDevice removes a device registration.
func (h *RegistryHandler) DeleteDevice(c *gin.Context) {
	if err := h.svc.DeleteDevice(c.Request.Context(), c.Param("deviceid")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddMember appends one roster entry to a device.
func (h *RegistryHandler) AddMember(c *gin.Context) {
	var in registry.MemberInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CODE, MILKTYPE and MEMBERNAME are required"})
		return
	}

	member, err := h.svc.AddMember(c.Request.Context(), c.Param("deviceid"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// EditMember rewrites the roster entry matching (CODE, MILKTYPE).
func (h *RegistryHandler) EditMember(c *gin.Context) {
	var in registry.MemberInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CODE, MILKTYPE and MEMBERNAME are required"})
		return
	}

	member, err := h.svc.EditMember(c.Request.Context(), c.Param("deviceid"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// RemoveMember deletes the roster entry matching (CODE, MILKTYPE).
func (h *RegistryHandler) RemoveMember(c *gin.Context) {
	code, err := strconv.Atoi(c.Query("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code must be an integer"})
		return
	}

	if err := h.svc.RemoveMember(c.Request.Context(), c.Param("deviceid"), code, c.Query("milktype")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RegistryHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, registry.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.logger.Error("registry operation failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registry operation failed"})
	}
}
