package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/repository/mongodb"
	"github.com/skverma/milknet/internal/service/reports"
)

// ReportsHandler exposes the aggregation report endpoints.
type ReportsHandler struct {
	svc    *reports.Service
	logger *zap.Logger
}

// NewReportsHandler constructs the HTTP handler adapter.
func NewReportsHandler(svc *reports.Service, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{svc: svc, logger: logger}
}

type datewiseQuery struct {
	DeviceCode string `form:"devicecode" binding:"required"`
	Date       string `form:"date" binding:"required"`
	Shift      string `form:"shift"`
}

// Datewise serves per-milk-type totals for one device and date.
func (h *ReportsHandler) Datewise(c *gin.Context) {
	var q datewiseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "devicecode and date are required"})
		return
	}

	report, err := h.svc.Datewise(c.Request.Context(), reports.DatewiseFilter{
		DeviceID: q.DeviceCode,
		Date:     q.Date,
		Shift:    q.Shift,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type multiDeviceQuery struct {
	DeviceCodes string `form:"devicecodes" binding:"required"`
	Date        string `form:"date" binding:"required"`
	Shift       string `form:"shift"`
}

// DatewiseMultiple serves one date aggregated across several devices.
// Device codes arrive as a comma separated list.
func (h *ReportsHandler) DatewiseMultiple(c *gin.Context) {
	var q multiDeviceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "devicecodes and date are required"})
		return
	}

	var ids []string
	for _, id := range strings.Split(q.DeviceCodes, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	report, err := h.svc.DatewiseMultiple(c.Request.Context(), reports.MultiDeviceFilter{
		DeviceIDs: ids,
		Date:      q.Date,
		Shift:     q.Shift,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type codewiseQuery struct {
	DeviceCode string `form:"devicecode" binding:"required"`
	Code       int    `form:"code" binding:"required"`
	FromDate   string `form:"fromDate" binding:"required"`
	ToDate     string `form:"toDate" binding:"required"`
}

// Codewise serves one member's totals over a date range.
func (h *ReportsHandler) Codewise(c *gin.Context) {
	var q codewiseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "devicecode, code, fromDate and toDate are required"})
		return
	}

	report, err := h.svc.Codewise(c.Request.Context(), reports.CodewiseFilter{
		DeviceID: q.DeviceCode,
		Code:     q.Code,
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type cumulativeQuery struct {
	DeviceCode string `form:"devicecode" binding:"required"`
	FromCode   int    `form:"fromCode" binding:"required"`
	ToCode     int    `form:"toCode" binding:"required"`
	FromDate   string `form:"fromDate" binding:"required"`
	ToDate     string `form:"toDate" binding:"required"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// Cumulative serves the per-member ledger over a code and date range.
func (h *ReportsHandler) Cumulative(c *gin.Context) {
	var q cumulativeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "devicecode, fromCode, toCode, fromDate and toDate are required"})
		return
	}

	report, err := h.svc.Cumulative(c.Request.Context(), reports.CumulativeFilter{
		DeviceID: q.DeviceCode,
		FromCode: q.FromCode,
		ToCode:   q.ToCode,
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type summaryQuery struct {
	DeviceCode string `form:"devicecode" binding:"required"`
	FromDate   string `form:"fromDate" binding:"required"`
	ToDate     string `form:"toDate" binding:"required"`
	FromCode   int    `form:"fromCode"`
	ToCode     int    `form:"toCode"`
	Shift      string `form:"shift"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

func (q summaryQuery) filter() reports.SummaryFilter {
	return reports.SummaryFilter{
		DeviceID: q.DeviceCode,
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		FromCode: q.FromCode,
		ToCode:   q.ToCode,
		Shift:    q.Shift,
		Page:     q.Page,
		Limit:    q.Limit,
	}
}

// Summary serves the per-date shift summary, collapsing both shifts
// into a single ALL group when no shift is requested.
func (h *ReportsHandler) Summary(c *gin.Context) {
	var q summaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "devicecode, fromDate and toDate are required"})
		return
	}

	report, err := h.svc.DatewiseSummary(c.Request.Context(), q.filter())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Detailed serves the per-date shift summary with raw records, keeping
// morning and evening groups separate.
func (h *ReportsHandler) Detailed(c *gin.Context) {
	var q summaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "devicecode, fromDate and toDate are required"})
		return
	}

	report, err := h.svc.DatewiseDetailed(c.Request.Context(), q.filter())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type absenceQuery struct {
	DeviceCode string `form:"devicecode" binding:"required"`
	Date       string `form:"date" binding:"required"`
	Shift      string `form:"shift"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// Absent serves the roster members without a record in the window.
func (h *ReportsHandler) Absent(c *gin.Context) {
	var q absenceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "devicecode and date are required"})
		return
	}

	report, err := h.svc.AbsentMembers(c.Request.Context(), reports.AbsenceFilter{
		DeviceID: q.DeviceCode,
		Date:     q.Date,
		Shift:    q.Shift,
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportsHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reports.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, reports.ErrNoRecords), errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no records found"})
	default:
		h.logger.Error("report failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
	}
}
