package repository

import (
	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

// Append inserts the entry. Audit rows are never updated.
func (r *auditLogRepository) Append(db *gorm.DB, entry *entity.AuditLog) error {
	return db.Create(entry).Error
}
