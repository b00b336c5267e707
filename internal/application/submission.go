package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/nominate-go/internal/domain/form"
	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"github.com/linskybing/nominate-go/internal/repository"
	"github.com/linskybing/nominate-go/internal/storage"
	"github.com/linskybing/nominate-go/pkg/apperr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaxAttachmentSize = 10 << 20

	FieldDeclaration = "declaration"

	msgDeclaration     = "You must agree to the declaration before submitting."
	msgUnexpectedFile  = "This question does not accept a file."
	msgAttachmentType  = "Invalid file type. Please upload a PDF."
	msgAttachmentSize  = "File is too large. Maximum size is 10 MB."
	msgMissingFileFmt  = "Please upload a file for %q."
	pdfContentType     = "application/pdf"
	defaultContentType = "application/octet-stream"
)

var ErrSubmissionNotFound = errors.New("submission not found")

// StagedFile is an attachment held by the request until submit uploads it.
type StagedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type SubmitInput struct {
	UserID      uint
	CategoryID  string
	Responses   nomination.Responses
	Declaration bool
	Files       map[string]StagedFile
}

type SubmissionService struct {
	Repos  *repository.Repos
	forms  *FormService
	drafts *DraftService
	store  storage.ObjectStore
	logger *zap.Logger
	now    func() time.Time
}

func NewSubmissionService(repos *repository.Repos, forms *FormService, drafts *DraftService, store storage.ObjectStore, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{
		Repos:  repos,
		forms:  forms,
		drafts: drafts,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates the answers and staged files, uploads the files, then
// creates the submission and deletes the draft in one transaction. Nothing
// is uploaded or written when validation fails, and nothing is written when
// an upload fails. Autosave for the pair is held for the whole call; on
// failure unsaved edits are scheduled again.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*nomination.Submission, error) {
	const op = "submit nomination"

	cfg, rules, err := s.forms.Rules(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if fields := checkPreconditions(cfg, rules, in); len(fields) > 0 {
		return nil, apperr.Validation(op, fields)
	}

	if err := s.drafts.BeginSubmit(ctx, in.UserID, in.CategoryID); err != nil {
		return nil, apperr.Persistence(op, fmt.Errorf("wait for pending draft save: %w", err))
	}
	committed := false
	defer func() { s.drafts.EndSubmit(in.UserID, in.CategoryID, committed) }()

	submittedAt := s.now().UTC()
	attachments, err := s.upload(ctx, in, submittedAt)
	if err != nil {
		s.logger.Warn("attachment upload failed",
			zap.Uint("user_id", in.UserID),
			zap.String("category_id", in.CategoryID),
			zap.Error(err))
		return nil, apperr.Upload(op, err)
	}

	sub := &nomination.Submission{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		CategoryID:  in.CategoryID,
		SubmittedAt: submittedAt,
		Responses:   datatypes.NewJSONType(answeredQuestions(cfg, in.Responses)),
		Attachments: datatypes.NewJSONType(attachments),
		Status:      nomination.StatusPending,
	}
	err = s.Repos.ExecTx(func(r *repository.Repos) error {
		if err := r.Submission.Create(ctx, sub); err != nil {
			return err
		}
		return r.Draft.Delete(ctx, in.UserID, in.CategoryID)
	})
	if err != nil {
		s.logger.Error("submission commit failed, uploaded attachments are orphaned",
			zap.Uint("user_id", in.UserID),
			zap.String("category_id", in.CategoryID),
			zap.Any("attachments", attachments),
			zap.Error(err))
		return nil, apperr.Persistence(op, err)
	}
	committed = true

	s.logger.Info("nomination submitted",
		zap.String("submission_id", sub.ID),
		zap.Uint("user_id", in.UserID),
		zap.String("category_id", in.CategoryID))
	return sub, nil
}

func checkPreconditions(cfg *form.FormConfig, rules form.RuleSet, in SubmitInput) map[string]string {
	fields := rules.Validate(in.Responses)
	if fields == nil {
		fields = make(map[string]string)
	}
	for _, q := range form.RequiredFiles(cfg) {
		if _, ok := in.Files[q.ID]; !ok {
			fields[q.ID] = fmt.Sprintf(msgMissingFileFmt, q.Title)
		}
	}
	for qid, f := range in.Files {
		q, ok := cfg.Question(qid)
		switch {
		case !ok || q.Type != form.QuestionFileUpload:
			fields[qid] = msgUnexpectedFile
		case !isPDF(f):
			fields[qid] = msgAttachmentType
		case f.Size > MaxAttachmentSize:
			fields[qid] = msgAttachmentSize
		}
	}
	if !in.Declaration {
		fields[FieldDeclaration] = msgDeclaration
	}
	return fields
}

func isPDF(f StagedFile) bool {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
	if ct == pdfContentType {
		return true
	}
	return (ct == "" || ct == defaultContentType) && strings.EqualFold(path.Ext(f.Filename), ".pdf")
}

// answeredQuestions keeps the answers that belong to non-file questions of
// cfg.
func answeredQuestions(cfg *form.FormConfig, responses nomination.Responses) nomination.Responses {
	out := make(nomination.Responses, len(responses))
	for id, v := range responses {
		if q, ok := cfg.Question(id); ok && q.Type != form.QuestionFileUpload {
			out[id] = v
		}
	}
	return out.Clone()
}

// upload stores every staged file concurrently. The first failure cancels
// the remaining uploads.
func (s *SubmissionService) upload(ctx context.Context, in SubmitInput, at time.Time) (nomination.Attachments, error) {
	attachments := make(nomination.Attachments, len(in.Files))
	if len(in.Files) == 0 {
		return attachments, nil
	}

	names := objectNames(in, at)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for qid, f := range in.Files {
		g.Go(func() error {
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", f.Filename, err)
			}
			defer rc.Close()

			ct := f.ContentType
			if ct == "" || ct == defaultContentType {
				ct = pdfContentType
			}
			url, err := s.store.Put(gctx, names[qid], ct, rc, f.Size)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Filename, err)
			}
			mu.Lock()
			attachments[qid] = url
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return attachments, nil
}

// objectNames assigns each staged file its storage path. Files sharing a
// name are prefixed with their question id so they cannot collide.
func objectNames(in SubmitInput, at time.Time) map[string]string {
	seen := make(map[string]int, len(in.Files))
	for _, f := range in.Files {
		seen[f.Filename]++
	}
	names := make(map[string]string, len(in.Files))
	for qid, f := range in.Files {
		filename := f.Filename
		if seen[filename] > 1 {
			filename = qid + "_" + filename
		}
		names[qid] = storage.AttachmentPath(in.UserID, in.CategoryID, at, filename)
	}
	return names
}

func (s *SubmissionService) ListMine(ctx context.Context, userID uint) ([]nomination.Submission, error) {
	subs, err := s.Repos.Submission.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("list submissions", err)
	}
	return subs, nil
}

// Get returns a submission owned by userID.
func (s *SubmissionService) Get(ctx context.Context, userID uint, id string) (*nomination.Submission, error) {
	sub, err := getSubmission(ctx, s.Repos, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, apperr.NotFound("get submission", fmt.Errorf("%w: %s", ErrSubmissionNotFound, id))
	}
	return sub, nil
}

func getSubmission(ctx context.Context, repos *repository.Repos, id string) (*nomination.Submission, error) {
	sub, err := repos.Submission.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("get submission", fmt.Errorf("%w: %s", ErrSubmissionNotFound, id))
	}
	if err != nil {
		return nil, apperr.Persistence("get submission", err)
	}
	return sub, nil
}
