package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLendingCreated  = "lending.created"
	EventTypeLendingReturned = "lending.returned"
	EventTypeSaleCreated     = "sale.created"
	EventTypeSaleCancelled   = "sale.cancelled"
	EventTypeSaleReinstated  = "sale.reinstated"
)

type LendingEvent struct {
	BaseEvent
	LendingID int64 `json:"lending_id"`
	ProductID int64 `json:"product_id"`
	SellerID  int64 `json:"seller_id"`
}

func NewLendingCreatedEvent(lendingID, productID, sellerID int64) *LendingEvent {
	return newLendingEvent(EventTypeLendingCreated, lendingID, productID, sellerID)
}

func NewLendingReturnedEvent(lendingID, productID, sellerID int64) *LendingEvent {
	return newLendingEvent(EventTypeLendingReturned, lendingID, productID, sellerID)
}

func newLendingEvent(eventType string, lendingID, productID, sellerID int64) *LendingEvent {
	return &LendingEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"lending_id": lendingID,
				"product_id": productID,
				"seller_id":  sellerID,
			},
		},
		LendingID: lendingID,
		ProductID: productID,
		SellerID:  sellerID,
	}
}

type SaleEvent struct {
	BaseEvent
	SaleID    int64  `json:"sale_id"`
	ProductID int64  `json:"product_id"`
	SellerID  int64  `json:"seller_id"`
	Amount    string `json:"amount"`
}

func NewSaleEvent(eventType string, saleID, productID, sellerID int64, amount string) *SaleEvent {
	return &SaleEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"sale_id":    saleID,
				"product_id": productID,
				"seller_id":  sellerID,
				"amount":     amount,
			},
		},
		SaleID:    saleID,
		ProductID: productID,
		SellerID:  sellerID,
		Amount:    amount,
	}
}
