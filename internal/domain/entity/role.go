package entity

// Role represents a user role in the system
type Role struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	RoleName string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants, seeded by the initial migration
const (
	RoleIDDoctor  = 1
	RoleIDPatient = 2
)

// RoleNames constants
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

func RoleNameByID(id int) string {
	switch id {
	case RoleIDDoctor:
		return RoleDoctor
	case RoleIDPatient:
		return RolePatient
	default:
		return ""
	}
}
