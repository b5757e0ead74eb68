package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Profile is an operator account of the admin tool. It supplies the acting
// identity for audit attribution and the role for authorization gating.
type Profile struct {
	ID        string    `gorm:"type:text;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	FullName string `gorm:"not null" json:"full_name"`
	Role     Role   `gorm:"not null;default:'viewer'" json:"role"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Profile) BeforeSave(tx *gorm.DB) error {
	if p.Password != "" && !isBcryptHash(p.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		p.Password = string(hashed)
	}
	return nil
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (s[:4] == "$2a$" || s[:4] == "$2b$" || s[:4] == "$2y$")
}

func (p *Profile) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password)) == nil
}

func (p *Profile) CanManageSystem() bool {
	return p.Role == RoleAdmin
}

// CanMutate reports whether the profile may run mutating operations;
// viewers are read-only.
func (p *Profile) CanMutate() bool {
	return p.Role == RoleAdmin || p.Role == RoleOperator
}
