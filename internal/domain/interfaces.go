package domain

import "context"

// Store is the durable key-value map everything persists through. Values
// are whole JSON blobs; there are no partial or ranged writes.
type Store interface {
	// Get reads the value at key into dest. The boolean reports whether the
	// key was present; the error reports storage failure.
	Get(bucket, key string, dest any) (bool, error)

	// Set writes the value at key, replacing any previous value.
	Set(bucket, key string, value any) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(bucket, key string) error

	Close() error
}

// Bucket names used across the store.
const (
	BucketCatalog  = "catalog"  // playlists and song collections
	BucketSettings = "settings" // typed settings record
	BucketSession  = "session"  // UI session flags
)

// NetworkClient is the decentralized storage backend, consumed as an opaque
// remote procedure interface.
type NetworkClient interface {
	// Upload stores a local file on the network and returns its xorname.
	// Fails with ErrPaymentRequired or ErrUnknown.
	Upload(ctx context.Context, path string) (string, error)

	// Download fetches the content behind xorname into the destination
	// folder. The optional fileName (name with extension) names the cached
	// file. Fails with ErrNotFound when the network has no such content.
	Download(ctx context.Context, xorname, fileName, destination string) (FileDetail, error)

	// Connect joins the network, optionally overriding the peer address.
	Connect(ctx context.Context, networkOverride string) error
	Disconnect(ctx context.Context) (bool, error)
	IsConnected(ctx context.Context) bool

	ClientAddress(ctx context.Context) (string, error)
	Balance(ctx context.Context) (string, error)

	// FetchMetadata extracts audio metadata from local files.
	FetchMetadata(ctx context.Context, paths []string) ([]MetadataDetail, error)
}

// NetworkEventType identifies an event emitted by the backend.
type NetworkEventType int

const (
	NetworkConnected NetworkEventType = iota
	NetworkDisconnected
	NetworkSignIn
)

// String returns the string representation of the event type.
func (e NetworkEventType) String() string {
	switch e {
	case NetworkConnected:
		return "connected"
	case NetworkDisconnected:
		return "disconnected"
	case NetworkSignIn:
		return "sign_in"
	default:
		return "unknown"
	}
}

// NetworkEvent is a backend lifecycle event consumed by the UI layer.
type NetworkEvent struct {
	Type    NetworkEventType
	Address string // Client address, set on sign_in
}
