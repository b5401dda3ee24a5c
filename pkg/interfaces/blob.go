package interfaces

import "context"

// BlobUploadOptions carries optional metadata forwarded to the blob store.
type BlobUploadOptions struct {
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

// BlobStorage abstracts the object store that holds uploaded funnel assets.
// Implementations are expected to behave as a flat, path-addressed store
// that exposes public URLs; the funnel core never assumes vendor semantics
// beyond this contract.
type BlobStorage interface {
	// Upload stores data under path and returns the public URL for it.
	Upload(ctx context.Context, path string, data []byte, opts BlobUploadOptions) (string, error)
	// PublicURL resolves the public URL for a previously stored path.
	PublicURL(path string) string
	// Remove deletes the supplied paths. Missing paths are not an error.
	Remove(ctx context.Context, paths []string) error
	// BaseURL returns the public URL prefix shared by every managed asset.
	// The asset pipeline uses it to tell managed uploads apart from
	// externally linked URLs.
	BaseURL() string
}
