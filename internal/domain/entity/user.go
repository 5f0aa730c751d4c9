package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential every patient and doctor authenticates with.
// The role is fixed at registration.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID      int       `gorm:"not null;index" json:"role_id"`
	Username    string    `gorm:"type:varchar(50);not null" json:"username"`
	Password    string    `gorm:"type:text;not null" json:"-"`
	DateOfBirth time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role           Role            `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	DoctorProfile  *DoctorProfile  `gorm:"foreignKey:UserID" json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfile `gorm:"foreignKey:UserID" json:"patient_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// RoleName resolves the role name from RoleID, without needing the Role preload.
func (u *User) RoleName() string {
	return RoleNameByID(u.RoleID)
}

func (u *User) IsPatient() bool {
	return u.RoleID == RoleIDPatient
}

func (u *User) IsDoctor() bool {
	return u.RoleID == RoleIDDoctor
}
