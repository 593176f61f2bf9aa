package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"lms-dashboard/internal/domain"
	"lms-dashboard/internal/repository"

	"github.com/gin-gonic/gin"
)

// MaxWorkbookUpload caps an uploaded user import workbook.
const MaxWorkbookUpload = 10 * 1024 * 1024

// FileHandler handles workbook uploads and export downloads.
type FileHandler struct {
	exports domain.ExportRepository
	users   domain.UserAdminUsecase
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(exports domain.ExportRepository, users domain.UserAdminUsecase) *FileHandler {
	return &FileHandler{exports: exports, users: users}
}

// ImportUsers creates users from an uploaded .xlsx workbook.
func (h *FileHandler) ImportUsers(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	if header.Size > MaxWorkbookUpload {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File too large. Maximum is %dMB", MaxWorkbookUpload/(1024*1024)),
		})
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .xlsx workbooks are accepted"})
		return
	}

	result, err := h.users.ImportWorkbook(c.Request.Context(), s, io.LimitReader(file, MaxWorkbookUpload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(bulkStatus(result), result)
}

// DownloadExport streams a stored export workbook.
func (h *FileHandler) DownloadExport(c *gin.Context) {
	fileID := c.Param("id")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File ID is required"})
		return
	}
	if h.exports == nil {
		respondError(c, domain.ErrBackendUnavailable)
		return
	}

	stream, fileInfo, err := h.exports.Open(c.Request.Context(), fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", repository.XLSXContentType)
	c.Header("Content-Length", fmt.Sprintf("%d", fileInfo.Size))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileInfo.Filename))
	c.Header("Access-Control-Expose-Headers", "Content-Disposition, Content-Length")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Headers are already sent.
		slog.Warn("export stream interrupted", "file_id", fileID, "error", err)
	}
}
