package service

import (
	"context"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditEntry describes one audited change.
type AuditEntry struct {
	Actor       uuid.UUID
	Action      string
	SubjectType string
	SubjectID   string
	Before      interface{}
	After       interface{}
}

// AuditService appends entries to the audit trail using the caller's
// transaction, so an entry commits or rolls back with its change.
type AuditService interface {
	Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error {
	row := &entity.AuditLog{
		Action:      entry.Action,
		SubjectType: entry.SubjectType,
		SubjectID:   entry.SubjectID,
		Changes:     entity.Changes{Before: entry.Before, After: entry.After},
	}
	if entry.Actor != uuid.Nil {
		actor := entry.Actor
		row.ActorID = &actor
	}

	if err := s.auditRepo.Append(tx, row); err != nil {
		s.log.WithFields(logrus.Fields{
			"action":  entry.Action,
			"subject": entry.SubjectType + ":" + entry.SubjectID,
		}).Warnf("Failed to append audit log: %+v", err)
		return err
	}
	return nil
}
