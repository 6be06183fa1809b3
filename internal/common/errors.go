package common

import "errors"

var (
	// Validation errors, raised before any network call.
	ErrPasswordMismatch = errors.New("Passwords do not match")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	ErrNoFileSelected   = errors.New("Please select a screenshot first")
	ErrFileType         = errors.New("Please upload an image file (JPG, PNG, BMP, TIFF, WebP)")
	ErrFileTooLarge     = errors.New("File size must be under 10 MB")

	// ErrInvalidSportID is returned when a sport selector value is not a number.
	ErrInvalidSportID = errors.New("invalid sport id")
)
