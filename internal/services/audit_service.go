package services

import (
	"context"
	"encoding/json"

	"financeiro/internal/logger"
	"financeiro/internal/models"
	"financeiro/internal/repository"
)

// auditService handles audit log recording.
type auditService struct {
	logs repository.Store[models.AuditLog]
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(st *Stores) AuditServicer {
	return &auditService{logs: st.AuditLogs}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, userID int64, action, resourceType string, resourceID int64, ipAddress string, changes map[string]interface{}) {
	log := logger.FromContext(ctx)

	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			log.Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.logs.Save(ctx, entry); err != nil {
		log.Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
