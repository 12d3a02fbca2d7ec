package models

import "time"

type QuoteStatus string

const (
	QuotePending   QuoteStatus = "pending"
	QuoteReviewed  QuoteStatus = "reviewed"
	QuoteConverted QuoteStatus = "converted"
	QuoteRejected  QuoteStatus = "rejected"
)

type Quote struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"userId"`
	ServiceType  ServiceType `json:"serviceType"`
	Status       QuoteStatus `json:"status"`
	CustomerType string      `json:"customerType"`
	Location     string      `json:"location"`

	// Derived summary dates. For equipment quotes the delivery date is the
	// earliest line item delivery and the pickup date the latest item pickup.
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
	PickupDate   *time.Time `json:"pickupDate,omitempty"`
	RemovalDate  *time.Time `json:"removalDate,omitempty"`

	PreferredTime      string `json:"preferredTime,omitempty"`
	IsUrgent           bool   `json:"isUrgent"`
	IsLiveLoad         bool   `json:"isLiveLoad"`
	DriverInstructions string `json:"driverInstructions,omitempty"`
	AdditionalComment  string `json:"additionalComment,omitempty"`

	// FormPayload keeps the raw submission JSON for audit and admin display.
	FormPayload string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`

	EquipmentItems []EquipmentDetail `json:"equipmentItems,omitempty"`
	JunkDetail     *JunkRemovalDetail `json:"junkDetail,omitempty"`
}

// EquipmentDetail is one rented unit on an equipment quote. Each line item
// carries its own delivery and pickup dates.
type EquipmentDetail struct {
	ID            int64      `json:"id"`
	QuoteID       int64      `json:"quoteId"`
	EquipmentName string     `json:"equipmentName"`
	Quantity      int        `json:"quantity"`
	Duration      string     `json:"duration"`
	Weight        string     `json:"weight"`
	DeliveryDate  *time.Time `json:"deliveryDate,omitempty"`
	PickupDate    *time.Time `json:"pickupDate,omitempty"`
	SpecificNeeds string     `json:"specificNeeds"`
}

// JunkRemovalDetail holds the item list of a junk removal quote as submitted.
type JunkRemovalDetail struct {
	ID        int64  `json:"id"`
	QuoteID   int64  `json:"quoteId"`
	ItemsJSON string `json:"itemsJson"`
	Comment   string `json:"comment"`
}
