package domain

// Vehicle is a listed car. Day rates are price snapshots in cents; weekday
// and weekend rates are differentiated (weekend = Saturday/Sunday).
type Vehicle struct {
	ID               int32   `json:"id"`
	AgencyID         int32   `json:"agency_id"`
	Brand            string  `json:"brand"`
	Model            string  `json:"model"`
	Description      string  `json:"description"`
	Seats            int32   `json:"seats"`
	WeekdayRateCents int64   `json:"weekday_rate_cents"`
	WeekendRateCents int64   `json:"weekend_rate_cents"`
	Available        bool    `json:"available"`
	Agency           *Agency `json:"agency,omitempty"` // populated on detail fetch
	CreatedOn        string  `json:"created_on"`
	UpdatedOn        string  `json:"updated_on"`
}
