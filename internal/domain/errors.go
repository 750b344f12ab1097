package domain

import "errors"

var (
	ErrInvalidURL          = errors.New("invalid url")
	ErrLoopURL             = errors.New("url points back to this service")
	ErrInvalidAlias        = errors.New("custom alias must be 3-50 characters of letters, digits, hyphens and underscores")
	ErrAliasTaken          = errors.New("alias already taken")
	ErrGenerationExhausted = errors.New("could not allocate a unique short code")
	ErrNotFound            = errors.New("link not found")

	// ErrCodeTaken is the store-level uniqueness conflict on the combined
	// code namespace. The allocator maps it to ErrAliasTaken or to a retry.
	ErrCodeTaken = errors.New("code already in use")
)
