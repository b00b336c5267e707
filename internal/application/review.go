package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linskybing/nominate-go/internal/domain/audit"
	"github.com/linskybing/nominate-go/internal/domain/category"
	"github.com/linskybing/nominate-go/internal/domain/form"
	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"github.com/linskybing/nominate-go/internal/realtime"
	"github.com/linskybing/nominate-go/internal/repository"
	"github.com/linskybing/nominate-go/pkg/apperr"
	"github.com/linskybing/nominate-go/pkg/types"
	"github.com/linskybing/nominate-go/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategorySubmissions is the admin review table of one category. Questions
// are split into answer columns and attachment columns.
type CategorySubmissions struct {
	Config            form.FormConfig         `json:"config"`
	ResponseColumns   []form.Question         `json:"responseColumns"`
	AttachmentColumns []form.Question         `json:"attachmentColumns"`
	Submissions       []nomination.Submission `json:"submissions"`
}

type ReviewService struct {
	Repos  *repository.Repos
	forms  *FormService
	order  category.Order
	hub    *realtime.Hub
	logger *zap.Logger
	now    func() time.Time
}

func NewReviewService(repos *repository.Repos, forms *FormService, order category.Order, hub *realtime.Hub, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		Repos:  repos,
		forms:  forms,
		order:  order,
		hub:    hub,
		logger: logger,
		now:    time.Now,
	}
}

// CategoryStatuses returns one row per category in display order with its
// submission count. Ordered categories without a stored config appear as
// Empty placeholders.
func (s *ReviewService) CategoryStatuses(ctx context.Context) ([]category.StatusRow, error) {
	configs, err := s.forms.List(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repos.Submission.CountByCategory(ctx)
	if err != nil {
		return nil, apperr.Persistence("count submissions", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}
	return s.order.StatusRows(configs, counts), nil
}

func (s *ReviewService) CategorySubmissions(ctx context.Context, categoryID string) (*CategorySubmissions, error) {
	cfg, err := s.forms.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	subs, err := s.Repos.Submission.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, apperr.Persistence("list category submissions", err)
	}

	out := &CategorySubmissions{
		Config:            *cfg,
		ResponseColumns:   []form.Question{},
		AttachmentColumns: []form.Question{},
		Submissions:       subs,
	}
	for _, q := range cfg.Questions() {
		if q.Type == form.QuestionFileUpload {
			out.AttachmentColumns = append(out.AttachmentColumns, q)
		} else {
			out.ResponseColumns = append(out.ResponseColumns, q)
		}
	}
	return out, nil
}

// Detail resolves a submission's answers against its category's form. A
// submission whose form was removed is returned without resolved answers.
func (s *ReviewService) Detail(ctx context.Context, id string) (*nomination.SubmissionDetail, error) {
	sub, err := getSubmission(ctx, s.Repos, id)
	if err != nil {
		return nil, err
	}
	detail := &nomination.SubmissionDetail{Submission: sub}

	cfg, err := s.forms.Get(ctx, sub.CategoryID)
	switch {
	case err == nil:
		detail.Answers = nomination.Resolve(cfg, sub.Responses.Data(), sub.Attachments.Data())
	case apperr.Is(err, apperr.KindNotFound):
	default:
		return nil, err
	}
	return detail, nil
}

// SetStatus moves a submission to status. Setting the current status again
// writes nothing and reports changed=false.
func (s *ReviewService) SetStatus(ctx context.Context, actor types.Actor, id string, status nomination.ReviewStatus) (*nomination.Submission, bool, error) {
	const op = "set review status"
	if !status.Valid() {
		return nil, false, apperr.Validation(op, map[string]string{"status": fmt.Sprintf("unknown status %q", status)})
	}

	sub, err := getSubmission(ctx, s.Repos, id)
	if err != nil {
		return nil, false, err
	}
	old := sub.EffectiveStatus()
	if old == status {
		return sub, false, nil
	}

	if err := s.Repos.Submission.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperr.NotFound(op, fmt.Errorf("%w: %s", ErrSubmissionNotFound, id))
		}
		return nil, false, apperr.Persistence(op, err)
	}
	sub.Status = status

	_ = utils.LogAudit(ctx, actor, audit.ActionReviewStatus, audit.ResourceSubmission, id,
		map[string]nomination.ReviewStatus{"status": old},
		map[string]nomination.ReviewStatus{"status": status},
		fmt.Sprintf("Review status %s -> %s", old, status), s.Repos.Audit, s.logger)

	s.hub.Publish(realtime.StatusEvent{
		SubmissionID: id,
		CategoryID:   sub.CategoryID,
		Status:       status,
		ChangedBy:    actor.UserID,
		ChangedAt:    s.now().UTC(),
	})
	s.logger.Info("review status changed",
		zap.String("submission_id", id),
		zap.String("from", string(old)),
		zap.String("to", string(status)),
		zap.Uint("admin_id", actor.UserID))
	return sub, true, nil
}

// Subscribe streams status changes of one submission.
func (s *ReviewService) Subscribe(id string) (<-chan realtime.StatusEvent, func()) {
	return s.hub.Subscribe(id)
}
