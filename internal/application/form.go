package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/linskybing/nominate-go/internal/ai"
	"github.com/linskybing/nominate-go/internal/domain/audit"
	"github.com/linskybing/nominate-go/internal/domain/category"
	"github.com/linskybing/nominate-go/internal/domain/form"
	"github.com/linskybing/nominate-go/internal/repository"
	"github.com/linskybing/nominate-go/pkg/apperr"
	"github.com/linskybing/nominate-go/pkg/types"
	"github.com/linskybing/nominate-go/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrFormNotFound = errors.New("form configuration not found")

type FormService struct {
	Repos     *repository.Repos
	order     category.Order
	rules     *form.RuleCache
	generator *ai.SchemaGenerator
	logger    *zap.Logger
}

func NewFormService(repos *repository.Repos, order category.Order, generator *ai.SchemaGenerator, logger *zap.Logger) *FormService {
	return &FormService{
		Repos:     repos,
		order:     order,
		rules:     form.NewRuleCache(),
		generator: generator,
		logger:    logger,
	}
}

// SaveJSON parses an admin-supplied config and upserts it.
func (s *FormService) SaveJSON(ctx context.Context, actor types.Actor, raw []byte) (*form.FormConfig, error) {
	cfg, err := form.ParseFormConfig(raw)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, actor, cfg)
}

// Save upserts cfg under the slug of its category name, replacing any
// config stored there.
func (s *FormService) Save(ctx context.Context, actor types.Actor, cfg *form.FormConfig) (*form.FormConfig, error) {
	const op = "save form config"
	if cfg.ID == "" {
		cfg.ID = form.Slugify(cfg.CategoryName)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var before any
	if old, err := s.Repos.Form.GetByID(ctx, cfg.ID); err == nil {
		before = old.Config()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence(op, err)
	}

	if err := s.Repos.Form.Upsert(ctx, form.FromConfig(*cfg)); err != nil {
		return nil, apperr.Persistence(op, err)
	}
	s.rules.Invalidate(cfg.ID)

	_ = utils.LogAudit(ctx, actor, audit.ActionUpsertForm, audit.ResourceForm, cfg.ID,
		before, cfg, fmt.Sprintf("Saved form for %s", cfg.CategoryName), s.Repos.Audit, s.logger)
	s.logger.Info("form config saved",
		zap.String("category_id", cfg.ID),
		zap.Uint("user_id", actor.UserID))
	return cfg, nil
}

func (s *FormService) load(ctx context.Context, id string) (*form.FormConfiguration, error) {
	stored, err := s.Repos.Form.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("get form config", fmt.Errorf("%w: %s", ErrFormNotFound, id))
	}
	if err != nil {
		return nil, apperr.Persistence("get form config", err)
	}
	return stored, nil
}

func (s *FormService) Get(ctx context.Context, id string) (*form.FormConfig, error) {
	stored, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg := stored.Config()
	return &cfg, nil
}

// Rules returns the config for id together with its derived rule set. The
// cached rule set is only reused while the stored config is unchanged.
func (s *FormService) Rules(ctx context.Context, id string) (*form.FormConfig, form.RuleSet, error) {
	stored, err := s.load(ctx, id)
	if err != nil {
		return nil, form.RuleSet{}, err
	}
	cfg := stored.Config()
	return &cfg, s.rules.Get(&cfg, stored.UpdatedAt), nil
}

func (s *FormService) List(ctx context.Context) ([]form.FormConfig, error) {
	stored, err := s.Repos.Form.List(ctx)
	if err != nil {
		return nil, apperr.Persistence("list form configs", err)
	}
	out := make([]form.FormConfig, 0, len(stored))
	for i := range stored {
		out = append(out, stored[i].Config())
	}
	return out, nil
}

// Categories lists stored configs grouped by segment in display order.
func (s *FormService) Categories(ctx context.Context) ([]category.SegmentGroup, error) {
	configs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.order.GroupBySegment(configs), nil
}

// Generate asks the model for a candidate config. The candidate gets its
// slug id but is not persisted.
func (s *FormService) Generate(ctx context.Context, description string) (*form.FormConfig, error) {
	cfg, err := s.generator.Generate(ctx, description)
	if err != nil {
		s.logger.Warn("form generation failed", zap.Error(err))
		return nil, err
	}
	cfg.ID = form.Slugify(cfg.CategoryName)
	return cfg, nil
}
