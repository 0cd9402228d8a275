package domain

type UserRole string

const (
	UserRoleRenter UserRole = "RENTER"
	UserRoleAgency UserRole = "AGENCY"
)

// User is the internal account record. ExternalID is the stable subject
// issued by the identity provider; everything below the API edge works with
// the numeric ID.
type User struct {
	ID           int32    `json:"id"`
	ExternalID   string   `json:"external_id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PhoneNumber  string   `json:"phone_number"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	AgencyID     *int32   `json:"agency_id,omitempty"` // set for agency staff accounts
	CreatedOn    string   `json:"created_on"`
	UpdatedOn    string   `json:"updated_on"`
}
