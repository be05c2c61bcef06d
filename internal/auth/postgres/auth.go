package postgres

import (
	"database/sql"
	"fmt"

	"github.com/javokhirdev/rental-management/internal/auth"
	userDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForUsername(username string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE username = ? AND is_active = true`

	row := r.db.Raw(query, username).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("user not found")
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetActorByID(userID int64) (*auth.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ? AND is_active = true", userID).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	return &auth.User{
		ID:            u.ID,
		Username:      u.Username,
		Name:          u.Name,
		Role:          u.Role,
		CreatedByID:   u.CreatedByID,
		WorkStartTime: u.WorkStartTime,
		WorkEndTime:   u.WorkEndTime,
	}, nil
}
