package service

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("not allowed")
	ErrSubscriptionRequired = errors.New("active subscription required")
)
