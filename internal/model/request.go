package model

type SignupRequest struct {
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	ShopNames []string `json:"shopNames"`
}

type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}
