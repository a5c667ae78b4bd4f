package domain

// User is a registered storefront account as seen by the rest of the service.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
