package user

import (
	"time"

	"github.com/javokhirdev/rental-management/internal/auth"
	userDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/user"
)

// User is the API-facing view of an account. PasswordHash never leaves the
// datamodel layer.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role"`
	CreatedByID   *int64    `json:"created_by,omitempty"`
	WorkStartTime string    `json:"work_start_time,omitempty"`
	WorkEndTime   string    `json:"work_end_time,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) IsDirector() bool { return u.Role == auth.RoleDirector }
func (u *User) IsAdmin() bool    { return u.Role == auth.RoleAdmin }
func (u *User) IsSeller() bool   { return u.Role == auth.RoleSeller }

// DirectorID resolves the tenant root for this user. For Admins and Sellers
// created_by always points at the Director, so one hop is enough.
func (u *User) DirectorID() int64 {
	if u.Role == auth.RoleDirector || u.CreatedByID == nil {
		return u.ID
	}
	return *u.CreatedByID
}

func FromDataModel(dm *userDatamodel.User) *User {
	return &User{
		ID:            dm.ID,
		Username:      dm.Username,
		Name:          dm.Name,
		Phone:         dm.Phone,
		Role:          dm.Role,
		CreatedByID:   dm.CreatedByID,
		WorkStartTime: dm.WorkStartTime,
		WorkEndTime:   dm.WorkEndTime,
		IsActive:      dm.IsActive,
		CreatedAt:     dm.CreatedAt,
		UpdatedAt:     dm.UpdatedAt,
	}
}
