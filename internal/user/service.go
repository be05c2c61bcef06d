package user

import (
	"log/slog"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	userDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/user"
	"github.com/javokhirdev/rental-management/internal/tariff"
)

// RepositoryAPI defines the data access methods for users.
type RepositoryAPI interface {
	Create(u *userDatamodel.User) error
	GetByID(id int64) (*userDatamodel.User, error)
	GetByUsername(username string) (*userDatamodel.User, error)
	ListByCreator(creatorID int64, roles []string) ([]*userDatamodel.User, error)
	ChildIDs(parentID int64) ([]int64, error)
	Update(u *userDatamodel.User) error
	Deactivate(id int64) error
}

// QuotaChecker gates creation against the owning Director's active tariff.
type QuotaChecker interface {
	WithinQuota(directorID int64, kind string) error
}

type Service struct {
	repo   RepositoryAPI
	quotas QuotaChecker
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, quotas QuotaChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		quotas: quotas,
		logger: logger,
	}
}

// ChildIDs satisfies auth.ChildLister so scope resolution can reuse the user
// repository.
func (s *Service) ChildIDs(parentID int64) ([]int64, error) {
	return s.repo.ChildIDs(parentID)
}

// CreateUser creates an account below the actor in the hierarchy.
//
// A Director creates Admins and Sellers. An Admin creates only Sellers, and
// the Seller's created_by is recorded as the Admin's Director so the whole
// tree hangs off one root. Sellers create nobody.
func (s *Service) CreateUser(actor *auth.User, dto SignupDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	switch {
	case actor.IsDirector():
		if dto.Role == auth.RoleDirector {
			s.logger.Warn("director attempted to create director", "actor_id", actor.ID)
			return nil, internal.NewForbiddenError("directors cannot create other directors", internal.ErrCodeRoleNotAllowed)
		}
	case actor.IsAdmin():
		if dto.Role != auth.RoleSeller {
			s.logger.Warn("admin attempted to create non-seller", "actor_id", actor.ID, "role", dto.Role)
			return nil, internal.NewForbiddenError("admins can only create sellers", internal.ErrCodeRoleNotAllowed)
		}
	default:
		return nil, internal.ErrPermissionDenied
	}

	directorID := actor.DirectorID()
	kind := tariff.QuotaSellers
	if dto.Role == auth.RoleAdmin {
		kind = tariff.QuotaAdmins
	}
	if err := s.quotas.WithinQuota(directorID, kind); err != nil {
		s.logger.Warn("user creation blocked by tariff", "director_id", directorID, "kind", kind, "error", err)
		return nil, err
	}

	if existing, err := s.repo.GetByUsername(dto.Username); err == nil && existing != nil {
		return nil, internal.NewConflictError("username is already taken", internal.ErrCodeDuplicateName)
	}

	hash, err := auth.HashPassword(dto.Password, 0)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("could not create user", err)
	}

	creatorID := directorID
	dm := &userDatamodel.User{
		Username:      dto.Username,
		Name:          dto.Name,
		Phone:         dto.Phone,
		PasswordHash:  hash,
		Role:          dto.Role,
		CreatedByID:   &creatorID,
		WorkStartTime: dto.WorkStartTime,
		WorkEndTime:   dto.WorkEndTime,
		IsActive:      true,
	}
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("user created",
		"user_id", dm.ID,
		"role", dm.Role,
		"created_by", creatorID,
		"actor_id", actor.ID)

	return FromDataModel(dm), nil
}

// ListUsers returns the accounts visible to the actor. Sellers never list
// users; Admins see their Director's Sellers; Directors see everyone they
// created.
func (s *Service) ListUsers(actor *auth.User) ([]*User, error) {
	var (
		dms []*userDatamodel.User
		err error
	)
	switch {
	case actor.IsDirector():
		dms, err = s.repo.ListByCreator(actor.ID, nil)
	case actor.IsAdmin():
		dms, err = s.repo.ListByCreator(actor.DirectorID(), []string{auth.RoleSeller})
	default:
		return nil, internal.ErrPermissionDenied
	}
	if err != nil {
		s.logger.Error("failed to list users", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	users := make([]*User, 0, len(dms))
	for _, dm := range dms {
		users = append(users, FromDataModel(dm))
	}
	return users, nil
}

// GetUser returns one account. Out-of-scope IDs read as not-found so the
// response never reveals other tenants' users.
func (s *Service) GetUser(actor *auth.User, id int64) (*User, error) {
	if id == actor.ID {
		return s.GetCurrentUser(actor.ID)
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	if !s.visible(actor, dm) {
		s.logger.Warn("out-of-scope user read", "actor_id", actor.ID, "target_id", id)
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(dm), nil
}

func (s *Service) GetCurrentUser(id int64) (*User, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(dm), nil
}

// UpdateUser applies partial changes. Allowed for the account itself and for
// the Director recorded as its creator.
func (s *Service) UpdateUser(actor *auth.User, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	if !s.visible(actor, dm) {
		return nil, internal.ErrUserNotFound
	}
	if !s.canManage(actor, dm) {
		return nil, internal.ErrPermissionDenied
	}

	if dto.Name != nil {
		dm.Name = *dto.Name
	}
	if dto.Phone != nil {
		dm.Phone = *dto.Phone
	}
	// the resulting window must stay well-formed, or every working-hours
	// check for the tenant breaks
	workStart, workEnd := dm.WorkStartTime, dm.WorkEndTime
	if dto.WorkStartTime != nil {
		workStart = *dto.WorkStartTime
	}
	if dto.WorkEndTime != nil {
		workEnd = *dto.WorkEndTime
	}
	if (workStart == "") != (workEnd == "") {
		return nil, internal.NewValidationError("work_start_time and work_end_time must be set together", internal.ErrCodeValidationFailed)
	}
	dm.WorkStartTime = workStart
	dm.WorkEndTime = workEnd
	if dto.Password != nil {
		hash, err := auth.HashPassword(*dto.Password, 0)
		if err != nil {
			return nil, internal.NewInternalError("could not update password", err)
		}
		dm.PasswordHash = hash
	}

	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id, "actor_id", actor.ID)
	return FromDataModel(dm), nil
}

// DeleteUser deactivates an account. Only the creating Director may do this,
// and never to themself.
func (s *Service) DeleteUser(actor *auth.User, id int64) error {
	if id == actor.ID {
		return internal.NewValidationError("cannot delete your own account", internal.ErrCodeValidationFailed)
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrUserNotFound
	}
	if !s.visible(actor, dm) {
		return internal.ErrUserNotFound
	}
	if !actor.IsDirector() || dm.CreatedByID == nil || *dm.CreatedByID != actor.ID {
		return internal.ErrPermissionDenied
	}

	if err := s.repo.Deactivate(id); err != nil {
		s.logger.Error("failed to deactivate user", "error", err, "user_id", id)
		return err
	}

	s.logger.Info("user deactivated", "user_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) visible(actor *auth.User, target *userDatamodel.User) bool {
	if target.ID == actor.ID {
		return true
	}
	switch {
	case actor.IsDirector():
		return target.CreatedByID != nil && *target.CreatedByID == actor.ID
	case actor.IsAdmin():
		return target.Role == auth.RoleSeller &&
			target.CreatedByID != nil && *target.CreatedByID == actor.DirectorID()
	default:
		return false
	}
}

func (s *Service) canManage(actor *auth.User, target *userDatamodel.User) bool {
	if actor.ID == target.ID {
		return true
	}
	return actor.IsDirector() && target.CreatedByID != nil && *target.CreatedByID == actor.ID
}
