package models

import (
	"strings"
	"time"
)

type ServiceType string

const (
	ServiceEquipmentRental ServiceType = "equipment_rental"
	ServiceJunkRemoval     ServiceType = "junk_removal"
)

func (s ServiceType) Valid() bool {
	return s == ServiceEquipmentRental || s == ServiceJunkRemoval
}

func (s ServiceType) Label() string {
	return labelize(string(s))
}

type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusScheduled           BookingStatus = "scheduled"
	StatusAssigned            BookingStatus = "assigned"
	StatusOutForDelivery      BookingStatus = "out_for_delivery"
	StatusDelivered           BookingStatus = "delivered"
	StatusInUse               BookingStatus = "in_use"
	StatusAwaitingPickup      BookingStatus = "awaiting_pickup"
	StatusPickedUp            BookingStatus = "pickedup"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelled           BookingStatus = "cancelled"
	StatusRelocationRequested BookingStatus = "relocation_requested"
	StatusRelocated           BookingStatus = "relocated"
	StatusSwapRequested       BookingStatus = "swap_requested"
	StatusSwapped             BookingStatus = "swapped"
	StatusExtended            BookingStatus = "extended"
)

var allStatuses = map[BookingStatus]struct{}{
	StatusPending: {}, StatusScheduled: {}, StatusAssigned: {},
	StatusOutForDelivery: {}, StatusDelivered: {}, StatusInUse: {},
	StatusAwaitingPickup: {}, StatusPickedUp: {}, StatusCompleted: {},
	StatusCancelled: {}, StatusRelocationRequested: {}, StatusRelocated: {},
	StatusSwapRequested: {}, StatusSwapped: {}, StatusExtended: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := allStatuses[s]
	return ok
}

// Label returns the human form used in history notes and emails,
// e.g. out_for_delivery -> "Out For Delivery".
func (s BookingStatus) Label() string {
	return labelize(string(s))
}

func labelize(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// driverTransitions lists the status edges a driver may follow via the
// access-token link. delivered is handled separately because its next state
// depends on the service type.
var driverTransitions = map[BookingStatus][]BookingStatus{
	StatusAssigned:            {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery:      {StatusDelivered, StatusCancelled},
	StatusInUse:               {StatusAwaitingPickup},
	StatusAwaitingPickup:      {StatusPickedUp},
	StatusPickedUp:            {StatusCompleted},
	StatusRelocationRequested: {StatusRelocated, StatusCancelled},
	StatusSwapRequested:       {StatusSwapped, StatusCancelled},
}

// CanTransition reports whether a driver may move a booking from cur to next.
// Equipment comes back after use; junk is gone once dropped, so delivered
// forks on the service type.
func CanTransition(cur, next BookingStatus, svc ServiceType) bool {
	if cur == StatusDelivered {
		switch svc {
		case ServiceEquipmentRental:
			return next == StatusInUse
		case ServiceJunkRemoval:
			return next == StatusCompleted
		}
		return false
	}
	for _, allowed := range driverTransitions[cur] {
		if next == allowed {
			return true
		}
	}
	return false
}

// locationSharingStatuses are the states during which a driver is actively
// working the booking and GPS samples make sense.
var locationSharingStatuses = map[BookingStatus]struct{}{
	StatusAssigned: {}, StatusOutForDelivery: {}, StatusDelivered: {},
	StatusInUse: {}, StatusAwaitingPickup: {}, StatusPickedUp: {},
	StatusRelocationRequested: {}, StatusSwapRequested: {},
}

func (s BookingStatus) AllowsLocationSharing() bool {
	_, ok := locationSharingStatuses[s]
	return ok
}

// adminOverrideStatuses are the states only back-office staff may set
// directly (customer-initiated requests recorded by an admin, or a manual
// cancellation).
var adminOverrideStatuses = map[BookingStatus]struct{}{
	StatusRelocationRequested: {}, StatusSwapRequested: {},
	StatusExtended: {}, StatusCancelled: {},
}

func (s BookingStatus) AdminSettable() bool {
	_, ok := adminOverrideStatuses[s]
	return ok
}

type Booking struct {
	ID          int64         `json:"id"`
	QuoteID     int64         `json:"quoteId"`
	UserID      int64         `json:"userId"`
	ServiceType ServiceType   `json:"serviceType"`
	Status      BookingStatus `json:"status"`
	Location    string        `json:"location"`

	DriverAccessToken string     `json:"-"`
	TokenExpiresAt    *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatusHistory is one append-only audit row per transition.
type StatusHistory struct {
	ID        int64         `json:"id"`
	BookingID int64         `json:"bookingId"`
	Status    BookingStatus `json:"status"`
	Note      string        `json:"note"`
	CreatedAt time.Time     `json:"createdAt"`
}

// LiveLocation is one GPS sample pushed by the driver.
type LiveLocation struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"bookingId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
}
