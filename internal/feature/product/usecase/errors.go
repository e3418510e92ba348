package usecase

import "errors"

var (
	// ErrProductNotFound is returned when no product has the requested id.
	ErrProductNotFound = errors.New("product not found")

	// ErrSKUAlreadyExists is returned when the sku unique index rejects a write.
	ErrSKUAlreadyExists = errors.New("sku already exists")

	// ErrEmptyQuery is returned by the search operations for a blank query.
	ErrEmptyQuery = errors.New("query parameter is required")

	// ErrTooManyImages is returned when a create request carries more than MaxImages files.
	ErrTooManyImages = errors.New("too many images")

	// ErrUnsupportedImage is returned for files that are not JPEG or PNG,
	// judged by both extension and content.
	ErrUnsupportedImage = errors.New("only jpg, jpeg and png images are allowed")

	// ErrImageTooLarge is returned when a file exceeds the configured size cap.
	ErrImageTooLarge = errors.New("image exceeds maximum size")

	// ErrImageNotFound is returned when a requested image file does not exist.
	ErrImageNotFound = errors.New("image not found")
)
