package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials or user is blocked")
	ErrInvalidRange       = errors.New("check-out date must be after check-in date")
	ErrPolicyViolation    = errors.New("policy violation")
	ErrValidation         = errors.New("validation failed")
)
