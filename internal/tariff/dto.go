package tariff

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

// CreateTariffDTO is the request payload for activating a new tariff.
type CreateTariffDTO struct {
	AdminCount    int64  `json:"admin_count"`
	SellerCount   int64  `json:"seller_count"`
	ProductCount  int64  `json:"product_count"`
	CategoryCount int64  `json:"category_count"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

func (dto CreateTariffDTO) Validate() error {
	if dto.AdminCount < 0 || dto.SellerCount < 0 || dto.ProductCount < 0 || dto.CategoryCount < 0 {
		return errors.New("quota counts cannot be negative")
	}
	start, err := time.Parse(dateLayout, dto.StartDate)
	if err != nil {
		return errors.New("start_date must be in YYYY-MM-DD format")
	}
	end, err := time.Parse(dateLayout, dto.EndDate)
	if err != nil {
		return errors.New("end_date must be in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return errors.New("end_date cannot be before start_date")
	}
	return nil
}

// Dates returns the parsed validity window. Validate must succeed first.
func (dto CreateTariffDTO) Dates() (time.Time, time.Time) {
	start, _ := time.Parse(dateLayout, dto.StartDate)
	end, _ := time.Parse(dateLayout, dto.EndDate)
	return start, end
}
