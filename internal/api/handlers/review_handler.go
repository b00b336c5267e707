package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nominate-go/internal/application"
	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"github.com/linskybing/nominate-go/pkg/response"
	"github.com/linskybing/nominate-go/pkg/utils"
)

type ReviewHandler struct {
	svc *application.ReviewService
}

func NewReviewHandler(svc *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// CategoryStatuses godoc
// @Summary Category status rows with submission counts
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} category.StatusRow
// @Router /admin/status [get]
func (h *ReviewHandler) CategoryStatuses(c *gin.Context) {
	rows, err := h.svc.CategoryStatuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// CategorySubmissions godoc
// @Summary Submissions of one category
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param categoryId path string true "Category slug"
// @Success 200 {object} application.CategorySubmissions
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/categories/{categoryId}/submissions [get]
func (h *ReviewHandler) CategorySubmissions(c *gin.Context) {
	out, err := h.svc.CategorySubmissions(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if out.Submissions == nil {
		out.Submissions = []nomination.Submission{}
	}
	c.JSON(http.StatusOK, out)
}

// SubmissionDetail godoc
// @Summary One submission with answers resolved against its form
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Submission id"
// @Success 200 {object} nomination.SubmissionDetail
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/submissions/{id} [get]
func (h *ReviewHandler) SubmissionDetail(c *gin.Context) {
	detail, err := h.svc.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateStatus godoc
// @Summary Set the review status of a submission
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Submission id"
// @Param input body nomination.UpdateStatusInput true "New status"
// @Success 200 {object} response.StatusChangeResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/submissions/{id}/status [put]
func (h *ReviewHandler) UpdateStatus(c *gin.Context) {
	var input nomination.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	sub, changed, err := h.svc.SetStatus(c.Request.Context(), utils.ActorFromContext(c), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.StatusChangeResponse{Changed: changed, Submission: sub})
}
