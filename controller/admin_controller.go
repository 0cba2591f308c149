package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"cafelist/config"
	"cafelist/repository"
	"cafelist/service"
	"cafelist/spreadsheet"
	"cafelist/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImportSize = 5 << 20

// MaxImportBody bounds an import request: the file plus multipart overhead.
const MaxImportBody = maxImportSize + 1<<20

type AdminController struct {
	cafes  *service.CafeService
	csrf   *utils.CSRF
	cfg    *config.Config
	logger *zap.Logger
}

func NewAdminController(cafes *service.CafeService, csrf *utils.CSRF, cfg *config.Config, logger *zap.Logger) *AdminController {
	return &AdminController{cafes: cafes, csrf: csrf, cfg: cfg, logger: logger}
}

// Dashboard is the admin listing with delete links.
func (h *AdminController) Dashboard(c *gin.Context) {
	cafes, err := h.cafes.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list cafes", zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Failed to fetch cafes")
		return
	}

	csrf, err := h.csrf.Token(c)
	if err != nil {
		h.logger.Error("generate csrf token", zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Failed to render page")
		return
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Title":     "Cafes (admin)",
		"Cafes":     cafes,
		"Count":     len(cafes),
		"AdminRoot": h.cfg.AdminRoot(),
		"CSRFToken": csrf,
		"Notice":    c.Query("notice"),
	})
}

// DeleteCafe removes one cafe and returns to the admin listing.
func (h *AdminController) DeleteCafe(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.RenderError(c, http.StatusBadRequest, "Invalid cafe ID format")
		return
	}

	if err := h.cafes.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrCafeNotFound) {
			utils.RenderError(c, http.StatusNotFound, fmt.Sprintf("Cafe %d not found", id))
			return
		}
		h.logger.Error("delete cafe", zap.Uint64("cafe_id", id), zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Failed to delete cafe")
		return
	}

	c.Redirect(http.StatusFound, h.cfg.AdminRoot())
}

// Export downloads every cafe as a spreadsheet.
func (h *AdminController) Export(c *gin.Context) {
	cafes, err := h.cafes.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list cafes", zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Failed to fetch cafes")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.Export(&buf, cafes); err != nil {
		h.logger.Error("export cafes", zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Failed to build spreadsheet")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cafes.xlsx"`)
	c.Data(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
}

// Import adds every complete row of an uploaded spreadsheet.
func (h *AdminController) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RenderError(c, http.StatusRequestEntityTooLarge, "File too large (max 5MB)")
			return
		}
		utils.RenderError(c, http.StatusBadRequest, "Excel file is required")
		return
	}
	if fileHeader.Size > maxImportSize {
		utils.RenderError(c, http.StatusBadRequest, "File too large (max 5MB)")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RenderError(c, http.StatusInternalServerError, "Unable to open Excel file")
		return
	}
	defer file.Close()

	res, err := spreadsheet.Import(file)
	if err != nil {
		utils.RenderError(c, http.StatusBadRequest, "Failed to parse Excel file")
		return
	}
	if len(res.Cafes) == 0 {
		utils.RenderError(c, http.StatusBadRequest, "No valid rows found")
		return
	}

	n, err := h.cafes.Import(c.Request.Context(), res.Cafes)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			utils.RenderError(c, http.StatusConflict, "The spreadsheet contains a cafe name that already exists; nothing was imported")
			return
		}
		h.logger.Error("import cafes", zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Failed to import cafes")
		return
	}

	notice := fmt.Sprintf("Imported %d cafes, skipped %d rows", n, len(res.Skipped))
	c.Redirect(http.StatusFound, h.cfg.AdminRoot()+"?"+url.Values{"notice": {notice}}.Encode())
}
