package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested entity does not exist
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateID indicates a playlist with the same id already exists
	ErrDuplicateID = errors.New("playlist id already exists")

	// ErrDuplicateTitle indicates a playlist with the same title already exists
	ErrDuplicateTitle = errors.New("playlist title already exists")

	// ErrAlreadyExists reports an idempotent no-op: the song was already in
	// the playlist. It is an expected outcome, not a failure.
	ErrAlreadyExists = errors.New("song already in playlist")

	// ErrIncompleteSongIdentity indicates a playable path cannot be derived
	// because a path component is missing
	ErrIncompleteSongIdentity = errors.New("song identity is incomplete")

	// ErrInvalidTags indicates song tags violate the tag constraints
	ErrInvalidTags = errors.New("invalid song tags")

	// ErrStorageUnavailable indicates the durable store cannot be reached
	ErrStorageUnavailable = errors.New("storage is unavailable")

	// ErrPaymentRequired indicates the network rejected an upload for lack of funds
	ErrPaymentRequired = errors.New("payment required")

	// ErrUnknown indicates an unclassified backend failure
	ErrUnknown = errors.New("unknown backend error")
)
