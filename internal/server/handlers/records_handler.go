package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
	"github.com/skverma/milknet/internal/service/records"
)

// RecordsHandler exposes record intake and lookup endpoints.
type RecordsHandler struct {
	svc    *records.Service
	logger *zap.Logger
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(svc *records.Service, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, logger: logger}
}

// Add stores one collection record.
func (h *RecordsHandler) Add(c *gin.Context) {
	var record models.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record payload"})
		return
	}

	saved, err := h.svc.Add(c.Request.Context(), record)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// Edit replaces an existing record by id.
func (h *RecordsHandler) Edit(c *gin.Context) {
	var record models.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record payload"})
		return
	}

	saved, err := h.svc.Edit(c.Request.Context(), c.Param("id"), record)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

type recordLookupQuery struct {
	DeviceCode string `form:"devicecode" binding:"required"`
	Code       int    `form:"code"`
	Date       string `form:"date" binding:"required"`
	Shift      string `form:"shift" binding:"required"`
}

// Get fetches the single record of a member in one (device, date,
// shift) window.
func (h *RecordsHandler) Get(c *gin.Context) {
	var q recordLookupQuery
	if err := c.ShouldBindQuery(&q); err != nil || q.Code <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "devicecode, code, date and shift are required"})
		return
	}

	record, err := h.svc.GetByCodeDateShift(c.Request.Context(), q.DeviceCode, q.Code, q.Date, q.Shift)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// List fetches every record of a (device, date, shift) window.
func (h *RecordsHandler) List(c *gin.Context) {
	var q recordLookupQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "devicecode, date and shift are required"})
		return
	}

	list, err := h.svc.ListByDateShift(c.Request.Context(), q.DeviceCode, q.Date, q.Shift)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *RecordsHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, records.ErrInvalidRecord):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	default:
		h.logger.Error("record operation failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "record operation failed"})
	}
}
