package utils

import (
	"context"
	"encoding/json"

	"github.com/linskybing/nominate-go/internal/domain/audit"
	"github.com/linskybing/nominate-go/internal/repository"
	"github.com/linskybing/nominate-go/pkg/types"
	"go.uber.org/zap"
)

// LogAudit records an admin mutation. Marshal failures drop the payload but
// keep the entry.
var LogAudit = func(
	ctx context.Context,
	actor types.Actor,
	action string,
	resourceType string,
	resourceID string,
	before any,
	after any,
	description string,
	repo repository.AuditRepo,
	logger *zap.Logger,
) error {
	entry := &audit.AuditLog{
		UserID:       actor.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldData:      marshalAuditData(before, "old_data", logger),
		NewData:      marshalAuditData(after, "new_data", logger),
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
		Description:  description,
	}
	if err := repo.CreateAuditLog(ctx, entry); err != nil {
		logger.Error("failed to write audit log",
			zap.String("action", action),
			zap.String("resource_id", resourceID),
			zap.Error(err))
		return err
	}
	return nil
}

func marshalAuditData(v any, field string, logger *zap.Logger) []byte {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("audit marshal error", zap.String("field", field), zap.Error(err))
		return nil
	}
	return data
}
