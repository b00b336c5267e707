package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nominate-go/internal/application"
	"github.com/linskybing/nominate-go/internal/domain/form"
	"github.com/linskybing/nominate-go/pkg/apperr"
	"github.com/linskybing/nominate-go/pkg/utils"
)

const maxFormConfigBytes = 1 << 20

type FormHandler struct {
	svc *application.FormService
}

func NewFormHandler(svc *application.FormService) *FormHandler {
	return &FormHandler{svc: svc}
}

// ListCategories godoc
// @Summary Award categories grouped by segment
// @Tags forms
// @Security BearerAuth
// @Produce json
// @Success 200 {array} category.SegmentGroup
// @Router /categories [get]
func (h *FormHandler) ListCategories(c *gin.Context) {
	groups, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetForm godoc
// @Summary Form configuration of one category
// @Tags forms
// @Security BearerAuth
// @Produce json
// @Param categoryId path string true "Category slug"
// @Success 200 {object} form.FormConfig
// @Failure 404 {object} response.ErrorResponse
// @Router /forms/{categoryId} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
	cfg, err := h.svc.Get(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// SaveForm godoc
// @Summary Create or overwrite a form configuration
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body form.FormConfig true "Form configuration"
// @Success 200 {object} form.SaveFormResponse
// @Failure 400 {object} response.ErrorResponse "Schema violation"
// @Router /admin/forms [post]
func (h *FormHandler) SaveForm(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFormConfigBytes+1))
	if err != nil {
		respondError(c, apperr.Validation("read form config", map[string]string{"$": err.Error()}))
		return
	}
	if len(raw) > maxFormConfigBytes {
		respondError(c, apperr.Validation("read form config", map[string]string{"$": "body too large"}))
		return
	}

	cfg, err := h.svc.SaveJSON(c.Request.Context(), utils.ActorFromContext(c), raw)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, form.SaveFormResponse{ID: cfg.ID})
}

// GenerateForm godoc
// @Summary Generate a candidate form configuration from a description
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body form.GenerateFormInput true "Natural-language description"
// @Success 200 {object} form.FormConfig "Candidate, not saved"
// @Failure 502 {object} response.ErrorResponse "Generation failed"
// @Router /admin/forms/generate [post]
func (h *FormHandler) GenerateForm(c *gin.Context) {
	var input form.GenerateFormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	cfg, err := h.svc.Generate(c.Request.Context(), input.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
