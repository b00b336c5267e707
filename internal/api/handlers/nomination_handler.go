package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nominate-go/internal/application"
	"github.com/linskybing/nominate-go/internal/config"
	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"github.com/linskybing/nominate-go/pkg/apperr"
	"github.com/linskybing/nominate-go/pkg/response"
	"github.com/linskybing/nominate-go/pkg/utils"
)

const (
	fieldResponses   = "responses"
	fieldDeclaration = "declaration"
)

type NominationHandler struct {
	drafts      *application.DraftService
	submissions *application.SubmissionService
}

func NewNominationHandler(drafts *application.DraftService, submissions *application.SubmissionService) *NominationHandler {
	return &NominationHandler{drafts: drafts, submissions: submissions}
}

func requireUserID(c *gin.Context) (uint, bool) {
	uid, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized", Kind: "unauthorized"})
		return 0, false
	}
	return uid, true
}

// GetDraft godoc
// @Summary Open a nomination and load its draft
// @Tags nominations
// @Security BearerAuth
// @Produce json
// @Param categoryId path string true "Category slug"
// @Success 200 {object} nomination.DraftView
// @Failure 404 {object} response.ErrorResponse
// @Router /nominations/{categoryId}/draft [get]
func (h *NominationHandler) GetDraft(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	view, err := h.drafts.Open(c.Request.Context(), uid, c.Param("categoryId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SaveDraft godoc
// @Summary Record the current answers; persisted after the debounce window
// @Tags nominations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param categoryId path string true "Category slug"
// @Param input body nomination.SaveDraftInput true "All current answers"
// @Success 202 {object} nomination.DraftView
// @Router /nominations/{categoryId}/draft [put]
func (h *NominationHandler) SaveDraft(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	var input nomination.SaveDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	view, err := h.drafts.Edit(c.Request.Context(), uid, c.Param("categoryId"), input.Responses)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, view)
}

// DraftStatus godoc
// @Summary Autosave state of a draft
// @Tags nominations
// @Security BearerAuth
// @Produce json
// @Param categoryId path string true "Category slug"
// @Success 200 {object} nomination.DraftView
// @Router /nominations/{categoryId}/draft/status [get]
func (h *NominationHandler) DraftStatus(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.drafts.Status(uid, c.Param("categoryId")))
}

// LeaveDraft godoc
// @Summary Leave the nomination page, dropping an unsaved pending edit
// @Tags nominations
// @Security BearerAuth
// @Param categoryId path string true "Category slug"
// @Success 204
// @Router /nominations/{categoryId}/draft/session [delete]
func (h *NominationHandler) LeaveDraft(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	h.drafts.Leave(uid, c.Param("categoryId"))
	c.Status(http.StatusNoContent)
}

// Submit godoc
// @Summary Submit a nomination
// @Description multipart/form-data with a "responses" JSON field, a "declaration" flag and one file part per FILE_UPLOAD question keyed by question id. A JSON body with responses and declaration is accepted when there are no files.
// @Tags nominations
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param categoryId path string true "Category slug"
// @Success 201 {object} nomination.Submission
// @Failure 400 {object} response.ErrorResponse "Precondition failed"
// @Failure 502 {object} response.ErrorResponse "Upload failed"
// @Failure 500 {object} response.ErrorResponse "Commit failed"
// @Router /nominations/{categoryId}/submit [post]
func (h *NominationHandler) Submit(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}

	in := application.SubmitInput{UserID: uid, CategoryID: c.Param("categoryId")}
	if c.ContentType() == gin.MIMEJSON {
		var body struct {
			Responses   nomination.Responses `json:"responses"`
			Declaration bool                 `json:"declaration"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respondBindError(c, err)
			return
		}
		in.Responses = body.Responses
		in.Declaration = body.Declaration
	} else if err := bindMultipartSubmission(c, &in); err != nil {
		respondError(c, err)
		return
	}

	sub, err := h.submissions.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func bindMultipartSubmission(c *gin.Context, in *application.SubmitInput) error {
	const op = "read submission"
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxUploadMB<<20)
	if err := c.Request.ParseMultipartForm(config.MaxUploadMB << 20); err != nil {
		return apperr.Validation(op, map[string]string{"$": err.Error()})
	}
	mf := c.Request.MultipartForm

	if raw := mf.Value[fieldResponses]; len(raw) > 0 && raw[0] != "" {
		if err := json.Unmarshal([]byte(raw[0]), &in.Responses); err != nil {
			return apperr.Validation(op, map[string]string{fieldResponses: "must be a JSON object of answers"})
		}
	}
	if raw := mf.Value[fieldDeclaration]; len(raw) > 0 {
		in.Declaration, _ = strconv.ParseBool(raw[0])
	}

	in.Files = make(map[string]application.StagedFile, len(mf.File))
	for qid, headers := range mf.File {
		if len(headers) == 0 {
			continue
		}
		in.Files[qid] = stagedFile(headers[0])
	}
	return nil
}

func stagedFile(fh *multipart.FileHeader) application.StagedFile {
	return application.StagedFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// ListMine godoc
// @Summary Submissions of the current user
// @Tags nominations
// @Security BearerAuth
// @Produce json
// @Success 200 {array} nomination.Submission
// @Router /nominations/my [get]
func (h *NominationHandler) ListMine(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	subs, err := h.submissions.ListMine(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if subs == nil {
		subs = []nomination.Submission{}
	}
	c.JSON(http.StatusOK, subs)
}

// GetMine godoc
// @Summary One submission of the current user
// @Tags nominations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Submission id"
// @Success 200 {object} nomination.Submission
// @Failure 404 {object} response.ErrorResponse
// @Router /nominations/my/{id} [get]
func (h *NominationHandler) GetMine(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	sub, err := h.submissions.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
