package report

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// RevenueQuery comes from query parameters. Bucket defaults to day, the
// range to the last 30 days ending today.
type RevenueQuery struct {
	Bucket string
	From   string
	To     string
}

func (q RevenueQuery) Validate() error {
	if q.Bucket != "" && !ValidBucket(q.Bucket) {
		return errors.New("bucket must be one of day, week or month")
	}
	if q.From != "" {
		if _, err := time.Parse(dateLayout, q.From); err != nil {
			return errors.New("from must be formatted as YYYY-MM-DD")
		}
	}
	if q.To != "" {
		if _, err := time.Parse(dateLayout, q.To); err != nil {
			return errors.New("to must be formatted as YYYY-MM-DD")
		}
	}
	from, to := q.Range(time.Now())
	if to.Before(from) {
		return errors.New("to must not be before from")
	}
	return nil
}

func (q RevenueQuery) BucketOrDefault() string {
	if q.Bucket == "" {
		return BucketDay
	}
	return q.Bucket
}

// Range resolves the query to a half-open [from, to) interval in whole days.
func (q RevenueQuery) Range(now time.Time) (time.Time, time.Time) {
	to := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	if q.To != "" {
		parsed, _ := time.Parse(dateLayout, q.To)
		to = parsed.Add(24 * time.Hour)
	}
	from := to.AddDate(0, 0, -30)
	if q.From != "" {
		from, _ = time.Parse(dateLayout, q.From)
	}
	return from, to
}

type CreateWithdrawalDTO struct {
	SellerID int64           `json:"seller_id,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Comment  string          `json:"comment,omitempty"`
}

func (dto CreateWithdrawalDTO) Validate() error {
	if !dto.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	return nil
}
