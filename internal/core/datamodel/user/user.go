package user

import "time"

// User is the persistence model for every account in the hierarchy. CreatedBy
// is nil only for Directors; for Admins and Sellers it always points at the
// owning Director.
type User struct {
	ID            int64     `gorm:"primaryKey"`
	Username      string    `gorm:"column:username;uniqueIndex;not null"`
	Name          string    `gorm:"column:name"`
	Phone         string    `gorm:"column:phone"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	Role          string    `gorm:"column:role;not null;default:SELLER"`
	CreatedByID   *int64    `gorm:"column:created_by"`
	WorkStartTime string    `gorm:"column:work_start_time"`
	WorkEndTime   string    `gorm:"column:work_end_time"`
	IsActive      bool      `gorm:"column:is_active;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
