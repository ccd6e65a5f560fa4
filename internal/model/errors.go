package model

import "errors"

var (
	// User related errors
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")

	// Shop related errors
	ErrShopNameTaken = errors.New("shop name already exists")

	// Token related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token expired")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
