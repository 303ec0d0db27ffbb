package domain

// Tokens is the access/refresh pair handed to a client on login and on
// every successful refresh.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
