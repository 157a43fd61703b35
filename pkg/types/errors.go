package types

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBloodType    = errors.New("invalid blood type")
	ErrInvalidStatus       = errors.New("invalid request status")
	ErrInvalidResponseType = errors.New("invalid response type")
	ErrInvalidUrgency      = errors.New("invalid urgency")
	ErrInvalidFilter       = errors.New("invalid request filter")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidInput        = errors.New("invalid input")

	ErrNotFound         = errors.New("not found")
	ErrRequestNotFound  = fmt.Errorf("blood request %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
