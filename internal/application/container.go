package application

import (
	"context"

	"github.com/linskybing/nominate-go/internal/ai"
	"github.com/linskybing/nominate-go/internal/autosave"
	"github.com/linskybing/nominate-go/internal/domain/category"
	"github.com/linskybing/nominate-go/internal/realtime"
	"github.com/linskybing/nominate-go/internal/repository"
	"github.com/linskybing/nominate-go/internal/storage"
	"go.uber.org/zap"
)

// Deps are the explicitly constructed handles the services run on.
type Deps struct {
	Repos     *repository.Repos
	Store     storage.ObjectStore
	Generator ai.Generator
	Hub       *realtime.Hub
	Order     category.Order
	Autosave  autosave.Options
	Logger    *zap.Logger
}

type Services struct {
	Audit      *AuditService
	Form       *FormService
	Draft      *DraftService
	Submission *SubmissionService
	Review     *ReviewService
	User       *UserService
	Assist     *ai.TextAssistant
}

func New(d Deps) *Services {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Generator == nil {
		d.Generator = ai.Disabled()
	}
	if d.Hub == nil {
		d.Hub = realtime.NewHub(d.Logger)
	}

	forms := NewFormService(d.Repos, d.Order, ai.NewSchemaGenerator(d.Generator), d.Logger)
	drafts := NewDraftService(d.Repos, forms, d.Autosave, d.Logger)
	return &Services{
		Audit:      NewAuditService(d.Repos),
		Form:       forms,
		Draft:      drafts,
		Submission: NewSubmissionService(d.Repos, forms, drafts, d.Store, d.Logger),
		Review:     NewReviewService(d.Repos, forms, d.Order, d.Hub, d.Logger),
		User:       NewUserService(d.Repos),
		Assist:     ai.NewTextAssistant(d.Generator),
	}
}

// Shutdown stops background draft saving.
func (s *Services) Shutdown(ctx context.Context) error {
	return s.Draft.Shutdown(ctx)
}
