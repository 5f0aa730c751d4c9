package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Append(db *gorm.DB, entry *entity.AuditLog) error
}
