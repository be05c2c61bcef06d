package lending

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

type CreateLendingDTO struct {
	ProductID    int64      `json:"product_id"`
	BorrowerName string     `json:"borrower_name"`
	ReturnDate   string     `json:"return_date"`
	Percentage   Percentage `json:"percentage"`
}

func (dto CreateLendingDTO) Validate() error {
	if dto.ProductID <= 0 {
		return errors.New("product_id is required")
	}
	if dto.BorrowerName == "" {
		return errors.New("borrower_name is required")
	}
	if _, err := time.Parse(dateLayout, dto.ReturnDate); err != nil {
		return errors.New("return_date must be in YYYY-MM-DD format")
	}
	if !dto.Percentage.Valid() {
		return errors.New("percentage must be one of 25%, 50%, 75%, 100%")
	}
	return nil
}

// PromisedReturn returns the parsed return date. Validate must succeed first.
func (dto CreateLendingDTO) PromisedReturn() time.Time {
	t, _ := time.Parse(dateLayout, dto.ReturnDate)
	return t
}
