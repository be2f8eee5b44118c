package models

// Account is the identity of a signed-in user as returned to clients.
type Account struct {
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	IDToken       string `json:"idToken,omitempty"`
	RefreshToken  string `json:"refreshToken,omitempty"`
	ExpiresIn     int64  `json:"expiresIn,omitempty"` // seconds
}

// RegistrationRecord is stored at users/{uid} on sign-up.
type RegistrationRecord struct {
	Username string `firestore:"username"`
}
