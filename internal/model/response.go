package model

// AuthResponse is the body returned by signup and login. The token is
// returned in the body in addition to the cookie because the frontend may
// run on a different origin than the API and cannot rely on cross-site
// cookies alone.
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	User        AuthUser `json:"user"`
	ExpiresIn   int64    `json:"expiresIn,omitempty"`
}

type LogoutResponse struct {
	Message    string `json:"message"`
	ClearToken bool   `json:"clearToken"`
}

type ValidateResponse struct {
	User AuthUser `json:"user"`
}

type ErrorResponse struct {
	Error *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
