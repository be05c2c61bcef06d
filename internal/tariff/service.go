package tariff

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	tariffDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/tariff"
)

// RepositoryAPI defines data access for tariffs plus the usage counts the
// quota check needs.
type RepositoryAPI interface {
	CreateAndActivate(t *tariffDatamodel.Tariff) error
	GetActive(directorID int64) (*tariffDatamodel.Tariff, error)
	ListByDirector(directorID int64) ([]*tariffDatamodel.Tariff, error)
	CountUsage(directorID int64, kind string) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateTariff activates a new tariff for the acting Director. Any previously
// active tariff is deactivated in the same transaction.
func (s *Service) CreateTariff(actor *auth.User, dto CreateTariffDTO) (*Tariff, error) {
	if !actor.IsDirector() {
		return nil, internal.NewForbiddenError("only directors manage tariffs", internal.ErrCodeRoleNotAllowed)
	}
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	start, end := dto.Dates()
	dm := &tariffDatamodel.Tariff{
		DirectorID:    actor.ID,
		AdminCount:    dto.AdminCount,
		SellerCount:   dto.SellerCount,
		ProductCount:  dto.ProductCount,
		CategoryCount: dto.CategoryCount,
		StartDate:     start,
		EndDate:       end,
		Status:        StatusActive,
	}
	if err := s.repo.CreateAndActivate(dm); err != nil {
		s.logger.Error("failed to create tariff", "error", err, "director_id", actor.ID)
		return nil, err
	}

	s.logger.Info("tariff activated",
		"tariff_id", dm.ID,
		"director_id", actor.ID,
		"start_date", dto.StartDate,
		"end_date", dto.EndDate)

	return FromDataModel(dm), nil
}

// ListTariffs returns the acting Director's tariff history.
func (s *Service) ListTariffs(actor *auth.User) ([]*Tariff, error) {
	if !actor.IsDirector() {
		return nil, internal.NewForbiddenError("only directors manage tariffs", internal.ErrCodeRoleNotAllowed)
	}
	dms, err := s.repo.ListByDirector(actor.ID)
	if err != nil {
		s.logger.Error("failed to list tariffs", "error", err, "director_id", actor.ID)
		return nil, err
	}
	tariffs := make([]*Tariff, 0, len(dms))
	for _, dm := range dms {
		tariffs = append(tariffs, FromDataModel(dm))
	}
	return tariffs, nil
}

// ActiveTariffFor returns the director's active tariff when it covers today.
func (s *Service) ActiveTariffFor(directorID int64) (*Tariff, error) {
	dm, err := s.repo.GetActive(directorID)
	if err != nil || dm == nil {
		return nil, internal.ErrNoActiveTariff
	}
	t := FromDataModel(dm)
	if !t.Covers(s.now()) {
		return nil, internal.ErrNoActiveTariff
	}
	return t, nil
}

// GetActiveTariff is the handler-facing view of ActiveTariffFor.
func (s *Service) GetActiveTariff(actor *auth.User) (*Tariff, error) {
	if !actor.IsDirector() {
		return nil, internal.NewForbiddenError("only directors manage tariffs", internal.ErrCodeRoleNotAllowed)
	}
	return s.ActiveTariffFor(actor.ID)
}

// WithinQuota checks whether the director may create one more resource of the
// given kind under their active tariff.
func (s *Service) WithinQuota(directorID int64, kind string) error {
	t, err := s.ActiveTariffFor(directorID)
	if err != nil {
		return err
	}

	used, err := s.repo.CountUsage(directorID, kind)
	if err != nil {
		s.logger.Error("failed to count tariff usage", "error", err, "director_id", directorID, "kind", kind)
		return err
	}

	limit := t.Limit(kind)
	if used >= limit {
		s.logger.Warn("tariff quota exhausted",
			"director_id", directorID,
			"kind", kind,
			"used", used,
			"limit", limit)
		return internal.NewQuotaExceededError(
			fmt.Sprintf("tariff allows %d %s, %d already in use", limit, kind, used))
	}
	return nil
}
