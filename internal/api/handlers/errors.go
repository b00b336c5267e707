package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/linskybing/nominate-go/internal/autosave"
	"github.com/linskybing/nominate-go/internal/domain/form"
	"github.com/linskybing/nominate-go/pkg/apperr"
	"github.com/linskybing/nominate-go/pkg/response"
)

const msgInternal = "Something went wrong. Please try again."

// respondError maps a classified service error onto a status code and an
// ErrorResponse body. Server-side failures are reported with a generic
// message; the detail stays in c.Errors for the request log.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := apperr.KindOf(err)
	body := response.ErrorResponse{Error: err.Error(), Kind: string(kind)}

	var status int
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
		body.Fields = apperr.FieldsOf(err)
		var sve *form.SchemaValidationError
		if errors.As(err, &sve) {
			body.Fields = map[string]string{sve.Path: sve.Reason}
		}
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindGenerationFailed, apperr.KindUpload:
		status = http.StatusBadGateway
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	default:
		status = http.StatusInternalServerError
		body.Error = msgInternal
		if errors.Is(err, autosave.ErrShutdown) {
			status = http.StatusServiceUnavailable
			body.Error = autosave.ErrShutdown.Error()
		}
	}
	c.JSON(status, body)
}

// respondBindError turns binding failures into a 400 with per-field
// messages.
func respondBindError(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input: " + err.Error(), Kind: string(apperr.KindValidation)})
		return
	}

	fields := make(map[string]string, len(verr))
	msgs := make([]string, 0, len(verr))
	for _, fe := range verr {
		lbl := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", lbl)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", lbl, fe.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", lbl, fe.Param())
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", lbl)
		case "oneof":
			msg = fmt.Sprintf("%s must be one of [%s]", lbl, fe.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", lbl)
		}
		fields[lbl] = msg
		msgs = append(msgs, msg)
	}
	c.JSON(http.StatusBadRequest, response.ErrorResponse{
		Error:  strings.Join(msgs, "; "),
		Kind:   string(apperr.KindValidation),
		Fields: fields,
	})
}
