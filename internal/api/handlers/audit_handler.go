package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nominate-go/internal/application"
	"github.com/linskybing/nominate-go/internal/domain/audit"
	"github.com/linskybing/nominate-go/internal/repository"
	"github.com/linskybing/nominate-go/pkg/response"
)

type AuditHandler struct {
	svc *application.AuditService
}

func NewAuditHandler(svc *application.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// GetAuditLogs godoc
// @Summary      Query audit logs
// @Description  Retrieve audit logs filtered by user_id, resource_type, resource_id, action and time range, with pagination.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        user_id       query     uint     false  "User ID"
// @Param        resource_type query     string   false  "Resource type" example("submission")
// @Param        resource_id   query     string   false  "Resource id"
// @Param        action        query     string   false  "Action" example("review_status")
// @Param        start_time    query     string   false  "Start time in RFC3339 format"
// @Param        end_time      query     string   false  "End time in RFC3339 format"
// @Param        limit         query     int      false  "Max number of records (default 100, max 1000)"
// @Param        offset        query     int      false  "Offset for pagination"
// @Success      200 {array}   audit.AuditLog
// @Failure      400 {object}  response.ErrorResponse "Invalid query parameters"
// @Router       /admin/audit/logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	var params repository.AuditQueryParams

	if v := c.Query("user_id"); v != "" {
		uid, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid user_id"})
			return
		}
		u := uint(uid)
		params.UserID = &u
	}
	if rt := c.Query("resource_type"); rt != "" {
		params.ResourceType = &rt
	}
	if rid := c.Query("resource_id"); rid != "" {
		params.ResourceID = &rid
	}
	if act := c.Query("action"); act != "" {
		params.Action = &act
	}

	if start := c.Query("start_time"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid start_time"})
			return
		}
		params.StartTime = &t
	}
	if end := c.Query("end_time"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid end_time"})
			return
		}
		params.EndTime = &t
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	params.Limit = limit
	params.Offset = offset

	logs, err := h.svc.QueryAuditLogs(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	if logs == nil {
		logs = []audit.AuditLog{}
	}
	c.JSON(http.StatusOK, logs)
}
