package report

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	"github.com/javokhirdev/rental-management/internal/core/common/schedule"
	withdrawalDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/withdrawal"
)

// RevenueRow is one revenue-bearing event: a non-cancelled sale's total or
// the upfront share collected when a lending was created.
type RevenueRow struct {
	Day      time.Time
	SellerID int64
	Amount   decimal.Decimal
}

// RepositoryAPI is read-only except for the withdrawals ledger. Revenue
// queries never touch lifecycle state.
type RepositoryAPI interface {
	SaleRevenue(ownerIDs []int64, from, to time.Time) ([]RevenueRow, error)
	LendingRevenue(ownerIDs []int64, from, to time.Time) ([]RevenueRow, error)
	ListWithdrawals(sellerIDs []int64) ([]*withdrawalDatamodel.CashWithdrawal, error)
	CreateWithdrawal(dm *withdrawalDatamodel.CashWithdrawal) error
}

type ActorLookup interface {
	GetActor(userID int64) (*auth.User, error)
}

type Service struct {
	repo     RepositoryAPI
	children auth.ChildLister
	users    ActorLookup
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, children auth.ChildLister, users ActorLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		children: children,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

// Revenue buckets sales and lending income by day, week or month over the
// queried range, within the actor's scope.
func (s *Service) Revenue(actor *auth.User, q RevenueQuery) ([]RevenuePoint, error) {
	if err := q.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}
	from, to := q.Range(s.now())

	sales, lendings, err := s.revenueRows(scope.OwnerIDs, from, to)
	if err != nil {
		return nil, err
	}

	bucket := q.BucketOrDefault()
	points := make(map[string]*RevenuePoint)
	add := func(rows []RevenueRow, lending bool) {
		for _, row := range rows {
			key := periodKey(row.Day, bucket)
			p, ok := points[key]
			if !ok {
				p = &RevenuePoint{Period: key}
				points[key] = p
			}
			if lending {
				p.LendingRevenue = p.LendingRevenue.Add(row.Amount)
			} else {
				p.SalesRevenue = p.SalesRevenue.Add(row.Amount)
			}
			p.Total = p.Total.Add(row.Amount)
		}
	}
	add(sales, false)
	add(lendings, true)

	out := make([]RevenuePoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

// SellerKPIs aggregates per-seller activity over the queried range.
func (s *Service) SellerKPIs(actor *auth.User, q RevenueQuery) ([]SellerKPI, error) {
	if err := q.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	if actor.IsSeller() {
		return nil, internal.ErrPermissionDenied
	}

	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}
	from, to := q.Range(s.now())

	sales, lendings, err := s.revenueRows(scope.OwnerIDs, from, to)
	if err != nil {
		return nil, err
	}

	kpis := make(map[int64]*SellerKPI)
	get := func(sellerID int64) *SellerKPI {
		k, ok := kpis[sellerID]
		if !ok {
			k = &SellerKPI{SellerID: sellerID}
			kpis[sellerID] = k
		}
		return k
	}
	for _, row := range sales {
		k := get(row.SellerID)
		k.SaleCount++
		k.SalesRevenue = k.SalesRevenue.Add(row.Amount)
	}
	for _, row := range lendings {
		k := get(row.SellerID)
		k.LendingCount++
		k.LendingRevenue = k.LendingRevenue.Add(row.Amount)
	}

	out := make([]SellerKPI, 0, len(kpis))
	for _, k := range kpis {
		out = append(out, *k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SellerID < out[j].SellerID })
	return out, nil
}

// SellerBalances reports lifetime revenue minus recorded withdrawals for
// every seller in scope.
func (s *Service) SellerBalances(actor *auth.User) ([]SellerBalance, error) {
	if actor.IsSeller() {
		return nil, internal.ErrPermissionDenied
	}

	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}

	to := s.now().Truncate(24 * time.Hour).Add(24 * time.Hour)
	sales, lendings, err := s.revenueRows(scope.OwnerIDs, time.Time{}, to)
	if err != nil {
		return nil, err
	}

	sellerIDs, err := s.sellerIDs(actor)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.repo.ListWithdrawals(sellerIDs)
	if err != nil {
		return nil, err
	}

	balances := make(map[int64]*SellerBalance)
	get := func(sellerID int64) *SellerBalance {
		b, ok := balances[sellerID]
		if !ok {
			b = &SellerBalance{SellerID: sellerID}
			balances[sellerID] = b
		}
		return b
	}
	for _, row := range sales {
		get(row.SellerID).Revenue = balances[row.SellerID].Revenue.Add(row.Amount)
	}
	for _, row := range lendings {
		get(row.SellerID).Revenue = balances[row.SellerID].Revenue.Add(row.Amount)
	}
	for _, w := range withdrawals {
		get(w.SellerID).Withdrawn = balances[w.SellerID].Withdrawn.Add(w.Amount)
	}

	out := make([]SellerBalance, 0, len(balances))
	for _, b := range balances {
		b.Balance = b.Revenue.Sub(b.Withdrawn)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SellerID < out[j].SellerID })
	return out, nil
}

// ListWithdrawals returns the ledger entries visible to the actor. Sellers
// see their own, Admins and Directors see every seller under their Director.
func (s *Service) ListWithdrawals(actor *auth.User) ([]*Withdrawal, error) {
	sellerIDs, err := s.sellerIDs(actor)
	if err != nil {
		return nil, err
	}

	dms, err := s.repo.ListWithdrawals(sellerIDs)
	if err != nil {
		s.logger.Error("failed to list withdrawals", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	out := make([]*Withdrawal, 0, len(dms))
	for _, dm := range dms {
		out = append(out, WithdrawalFromDataModel(dm))
	}
	return out, nil
}

// RecordWithdrawal appends a ledger entry. A Seller records their own;
// Admins and Directors record for a seller in their scope via seller_id.
func (s *Service) RecordWithdrawal(actor *auth.User, dto CreateWithdrawalDTO) (*Withdrawal, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	sellerID := dto.SellerID
	if actor.IsSeller() {
		if sellerID != 0 && sellerID != actor.ID {
			return nil, internal.ErrPermissionDenied
		}
		sellerID = actor.ID
	} else {
		if sellerID == 0 {
			return nil, internal.NewValidationError("seller_id is required", internal.ErrCodeValidationFailed)
		}
		target, err := s.users.GetActor(sellerID)
		if err != nil || target == nil || !target.IsSeller() {
			return nil, internal.ErrUserNotFound
		}
		scope, err := auth.ScopeFor(actor, s.children)
		if err != nil {
			return nil, internal.ErrPermissionDenied
		}
		if !scope.Sees(target.DirectorID()) {
			return nil, internal.ErrUserNotFound
		}
	}

	dm := &withdrawalDatamodel.CashWithdrawal{
		SellerID: sellerID,
		Amount:   dto.Amount,
		Comment:  dto.Comment,
	}
	if err := s.repo.CreateWithdrawal(dm); err != nil {
		s.logger.Error("failed to record withdrawal", "error", err, "seller_id", sellerID)
		return nil, err
	}

	s.logger.Info("withdrawal recorded", "withdrawal_id", dm.ID, "seller_id", sellerID, "amount", dm.Amount.String())
	return WithdrawalFromDataModel(dm), nil
}

func (s *Service) revenueRows(ownerIDs []int64, from, to time.Time) ([]RevenueRow, []RevenueRow, error) {
	sales, err := s.repo.SaleRevenue(ownerIDs, from, to)
	if err != nil {
		return nil, nil, err
	}
	lendings, err := s.repo.LendingRevenue(ownerIDs, from, to)
	if err != nil {
		return nil, nil, err
	}
	return sales, lendings, nil
}

func (s *Service) sellerIDs(actor *auth.User) ([]int64, error) {
	if actor.IsSeller() {
		return []int64{actor.ID}, nil
	}
	ids, err := s.children.ChildIDs(actor.DirectorID())
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func periodKey(t time.Time, bucket string) string {
	// bucket on the business wall clock, not the timestamp's own zone
	local := t.In(schedule.Location())
	switch bucket {
	case BucketWeek:
		year, week := local.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case BucketMonth:
		return local.Format("2006-01")
	default:
		return local.Format("2006-01-02")
	}
}
