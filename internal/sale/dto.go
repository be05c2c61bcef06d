package sale

import (
	"errors"

	"github.com/shopspring/decimal"
)

type CreateSaleDTO struct {
	ProductID     int64            `json:"product_id"`
	BuyerName     string           `json:"buyer_name,omitempty"`
	Quantity      *int64           `json:"quantity,omitempty"`
	ProductWeight *decimal.Decimal `json:"product_weight,omitempty"`
	PaymentType   string           `json:"payment_type,omitempty"`
}

func (dto CreateSaleDTO) Validate() error {
	if dto.ProductID <= 0 {
		return errors.New("product_id is required")
	}
	if (dto.Quantity == nil) == (dto.ProductWeight == nil) {
		return errors.New("exactly one of quantity or product_weight is required")
	}
	if dto.Quantity != nil && *dto.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if dto.ProductWeight != nil && !dto.ProductWeight.IsPositive() {
		return errors.New("product_weight must be positive")
	}
	if dto.PaymentType != "" && !ValidPaymentType(dto.PaymentType) {
		return errors.New("payment_type must be CASH or CARD")
	}
	return nil
}

type UpdateSaleStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateSaleStatusDTO) Validate() error {
	if !ValidStatus(dto.Status) {
		return errors.New("status must be one of PENDING, COMPLETED, CANCELLED")
	}
	return nil
}

type AddCartItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (dto AddCartItemDTO) Validate() error {
	if dto.ProductID <= 0 {
		return errors.New("product_id is required")
	}
	if dto.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	return nil
}

type CheckoutDTO struct {
	BuyerName   string `json:"buyer_name,omitempty"`
	PaymentType string `json:"payment_type,omitempty"`
}

func (dto CheckoutDTO) Validate() error {
	if dto.PaymentType != "" && !ValidPaymentType(dto.PaymentType) {
		return errors.New("payment_type must be CASH or CARD")
	}
	return nil
}
