package product

import (
	"errors"

	"github.com/shopspring/decimal"
)

type CreateProductDTO struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	Choice      string           `json:"choice"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	RentalPrice *decimal.Decimal `json:"rental_price,omitempty"`
	Quantity    *int64           `json:"quantity,omitempty"`
	Weight      *decimal.Decimal `json:"weight,omitempty"`
}

func (dto CreateProductDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if !ValidChoice(dto.Choice) {
		return errors.New("choice must be RENT or SELL")
	}
	if err := validatePricing(dto.Choice, dto.Price, dto.RentalPrice); err != nil {
		return err
	}
	return validateInventory(dto.Quantity, dto.Weight)
}

// UpdateProductDTO carries optional fields; nil means leave unchanged. The
// resulting product is re-validated against the pricing and inventory
// pairing rules.
type UpdateProductDTO struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	RentalPrice *decimal.Decimal `json:"rental_price,omitempty"`
	Quantity    *int64           `json:"quantity,omitempty"`
	Weight      *decimal.Decimal `json:"weight,omitempty"`
}

func (dto UpdateProductDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name cannot be empty")
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	if !ValidStatus(dto.Status) {
		return errors.New("status must be one of AVAILABLE, NOT_AVAILABLE, LENT_OUT")
	}
	return nil
}

func validatePricing(choice string, price, rentalPrice *decimal.Decimal) error {
	switch choice {
	case ChoiceRent:
		if rentalPrice == nil {
			return errors.New("rental_price is required for RENT products")
		}
		if price != nil {
			return errors.New("price is not allowed for RENT products")
		}
		if rentalPrice.IsNegative() {
			return errors.New("rental_price cannot be negative")
		}
	case ChoiceSell:
		if price == nil {
			return errors.New("price is required for SELL products")
		}
		if rentalPrice != nil {
			return errors.New("rental_price is not allowed for SELL products")
		}
		if price.IsNegative() {
			return errors.New("price cannot be negative")
		}
	}
	return nil
}

func validateInventory(quantity *int64, weight *decimal.Decimal) error {
	if (quantity == nil) == (weight == nil) {
		return errors.New("exactly one of quantity or weight is required")
	}
	if quantity != nil && *quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	if weight != nil && weight.IsNegative() {
		return errors.New("weight cannot be negative")
	}
	return nil
}
