package controller

import (
	"errors"
	"net/http"

	"cafelist/config"
	"cafelist/form"
	"cafelist/repository"
	"cafelist/service"
	"cafelist/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const (
	msgCSRF          = "The CSRF token is missing, invalid or expired."
	msgDuplicateName = "A cafe with this name already exists."
)

type CafeController struct {
	cafes  *service.CafeService
	csrf   *utils.CSRF
	cfg    *config.Config
	logger *zap.Logger
}

func NewCafeController(cafes *service.CafeService, csrf *utils.CSRF, cfg *config.Config, logger *zap.Logger) *CafeController {
	return &CafeController{cafes: cafes, csrf: csrf, cfg: cfg, logger: logger}
}

// Home lists every cafe with the total count.
func (h *CafeController) Home(c *gin.Context) {
	cafes, err := h.cafes.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list cafes", zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Failed to fetch cafes")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title": "Cafes",
		"Cafes": cafes,
		"Count": len(cafes),
	})
}

// AddForm renders an empty add-cafe form.
func (h *CafeController) AddForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, form.CafeForm{}, form.Errors{})
}

// AddCafe validates the submission and stores the new cafe.
func (h *CafeController) AddCafe(c *gin.Context) {
	var f form.CafeForm
	if err := c.ShouldBindWith(&f, binding.Form); err != nil {
		h.renderForm(c, http.StatusBadRequest, f, form.Errors{"form": "Could not read the submitted form"})
		return
	}

	errs := f.Validate(h.cfg.SubmitKey)
	if err := h.csrf.Check(c, c.PostForm(utils.CSRFField)); err != nil {
		errs[utils.CSRFField] = msgCSRF
	}
	if len(errs) > 0 {
		h.renderForm(c, http.StatusUnprocessableEntity, f, errs)
		return
	}

	cafe := f.ToCafe()
	if err := h.cafes.Add(c.Request.Context(), &cafe); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			h.renderForm(c, http.StatusUnprocessableEntity, f, form.Errors{"name": msgDuplicateName})
			return
		}
		h.logger.Error("add cafe", zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Failed to save cafe")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ListAPI returns all cafes as JSON.
func (h *CafeController) ListAPI(c *gin.Context) {
	cafes, err := h.cafes.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list cafes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch cafes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(cafes),
		"data":    cafes,
	})
}

func (h *CafeController) renderForm(c *gin.Context, status int, f form.CafeForm, errs form.Errors) {
	csrf, err := h.csrf.Token(c)
	if err != nil {
		h.logger.Error("generate csrf token", zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Failed to render form")
		return
	}

	// the key is never echoed back
	f.Key = ""
	c.HTML(status, "add.html", gin.H{
		"Title":     "Add a cafe",
		"Form":      f,
		"Errors":    errs,
		"CSRFToken": csrf,
	})
}
