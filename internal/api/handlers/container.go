package handlers

import (
	"github.com/linskybing/nominate-go/internal/application"
	"go.uber.org/zap"
)

type Handlers struct {
	Audit      *AuditHandler
	Assist     *AssistHandler
	Form       *FormHandler
	Nomination *NominationHandler
	Realtime   *RealtimeHandler
	Review     *ReviewHandler
	User       *UserHandler
}

func New(svc *application.Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		Audit:      NewAuditHandler(svc.Audit),
		Assist:     NewAssistHandler(svc.Assist),
		Form:       NewFormHandler(svc.Form),
		Nomination: NewNominationHandler(svc.Draft, svc.Submission),
		Realtime:   NewRealtimeHandler(svc.Review, logger),
		Review:     NewReviewHandler(svc.Review),
		User:       NewUserHandler(svc.User),
	}
}
