package models

// TokenPair holds the JWT access token and the opaque refresh token issued
// by the backend at sign-in and rotated on refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// User is the cached profile of the signed-in user.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// AuthResult is what the backend returns from sign-in and sign-up: the token
// pair, the profile, and the server cart already merged with the guest cart
// that was submitted alongside the credentials.
type AuthResult struct {
	Tokens TokenPair
	User   User
	Cart   Cart
}
