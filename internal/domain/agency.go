package domain

// Agency is the car-owning business entity that lists vehicles.
type Agency struct {
	ID        int32   `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CreatedOn string  `json:"created_on"`
}
