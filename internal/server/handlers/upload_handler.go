package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/repository/mongodb"
	"github.com/skverma/milknet/internal/server/middleware"
	"github.com/skverma/milknet/internal/service/ratetable"
	"github.com/skverma/milknet/internal/service/registry"
)

// effectiveDateFields maps a table kind to the legacy per-kind form
// field carrying its effective date. The generic "effectiveDate" field
// is accepted as a fallback.
var effectiveDateFields = map[string]string{
	"fatCowTable": "fatCowEffectiveDate",
	"fatBufTable": "fatBufEffectiveDate",
	"snfCowTable": "snfCowEffectiveDate",
	"snfBufTable": "snfBufEffectiveDate",
	"clrCowTable": "clrCowEffectiveDate",
}

// UploadHandler ingests CSV uploads: rate tables and member rosters.
type UploadHandler struct {
	tables  *ratetable.Service
	rosters *registry.Service
	logger  *zap.Logger
}

// NewUploadHandler constructs the HTTP handler adapter.
func NewUploadHandler(tables *ratetable.Service, rosters *registry.Service, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{tables: tables, rosters: rosters, logger: logger}
}

// RateTable parses a multipart CSV upload and installs it as the rate
// table named by the :kind path segment.
func (h *UploadHandler) RateTable(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	kind := c.Param("kind")
	headers, rows, ok := h.readCSV(c)
	if !ok {
		return
	}

	effectiveDate := c.PostForm("effectiveDate")
	if field, known := effectiveDateFields[kind]; known {
		if v := c.PostForm(field); v != "" {
			effectiveDate = v
		}
	}

	result, err := h.tables.Upload(c.Request.Context(), caller, ratetable.UploadInput{
		Kind:           kind,
		Headers:        headers,
		Rows:           rows,
		EffectiveDate:  effectiveDate,
		TargetDeviceID: c.PostForm("deviceid"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MemberList parses a multipart CSV upload and replaces the full
// roster of the :deviceid device.
func (h *UploadHandler) MemberList(c *gin.Context) {
	headers, rows, ok := h.readCSV(c)
	if !ok {
		return
	}

	count, err := h.rosters.ReplaceRoster(c.Request.Context(), c.Param("deviceid"), headers, rows)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deviceid": c.Param("deviceid"), "members": count})
}

// readCSV pulls the "file" part of the multipart form and splits it
// into a header row and data rows. On failure it writes the error
// response itself.
func (h *UploadHandler) readCSV(c *gin.Context) (headers []string, rows [][]string, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a csv file part named 'file' is required"})
		return nil, nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed opening upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed reading upload"})
		return nil, nil, false
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed csv"})
		return nil, nil, false
	}
	if len(all) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv must contain a header row and at least one data row"})
		return nil, nil, false
	}

	return all[0], all[1:], true
}

func (h *UploadHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ratetable.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ratetable.ErrNoRows),
		errors.Is(err, ratetable.ErrBadEffectiveDate),
		errors.Is(err, ratetable.ErrUnknownKind),
		errors.Is(err, ratetable.ErrBadInput),
		errors.Is(err, registry.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "owner not found"})
	default:
		h.logger.Error("upload failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
	}
}
