package postgres

import (
	"gorm.io/gorm"

	userDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/user"
	"github.com/javokhirdev/rental-management/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ListByCreator(creatorID int64, roles []string) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	q := r.db.Where("created_by = ? AND is_active = ?", creatorID, true)
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	err := q.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) ChildIDs(parentID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("created_by = ? AND is_active = ?", parentID, true).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *UserRepository) Update(u *userDatamodel.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) Deactivate(id int64) error {
	return r.db.Model(&userDatamodel.User{}).Where("id = ?", id).Update("is_active", false).Error
}
