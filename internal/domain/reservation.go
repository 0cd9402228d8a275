package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusUpcoming  ReservationStatus = "UPCOMING"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// ValidationState is the agency's accept/reject decision on a reservation
// request. Self-service bookings start accepted; agency-mediated bookings
// start pending until the agency acts.
type ValidationState string

const (
	ValidationPending  ValidationState = "PENDING"
	ValidationAccepted ValidationState = "ACCEPTED"
	ValidationRejected ValidationState = "REJECTED"
)

// Reservation is a persisted booking spanning an inclusive date range for one
// vehicle. Invariant: for a given vehicle no two reservations with status
// other than CANCELLED may overlap on [StartDate, EndDate].
type Reservation struct {
	ID          int32             `json:"id"`
	VehicleID   int32             `json:"vehicle_id"`
	AgencyID    int32             `json:"agency_id"`
	RenterID    int32             `json:"renter_id"`
	StartDate   string            `json:"start_date"` // yyyy-mm-dd
	EndDate     string            `json:"end_date"`   // yyyy-mm-dd, inclusive
	AmountCents int64             `json:"amount_cents"`
	Paid        bool              `json:"paid"`
	Status      ReservationStatus `json:"status"`
	Validation  ValidationState   `json:"validation"`
	PaymentRef  string            `json:"payment_ref,omitempty"`
	RenterName  string            `json:"renter_name,omitempty"` // populated on agency listings
	CreatedOn   time.Time         `json:"created_on"`
}
