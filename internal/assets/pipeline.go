// Package assets implements the upload flow shared by the image, carousel,
// image-choice and testimonial panels: validate, resize, store, swap the
// content reference and clean up the replaced asset.
package assets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/goliatone/go-funnel/internal/logging"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

var (
	// ErrUnsupportedMedia rejects non-image payloads before any state changes.
	ErrUnsupportedMedia = errors.New("assets: unsupported media type")
	// ErrEmptyFile rejects zero-byte uploads.
	ErrEmptyFile = errors.New("assets: empty file")
	// ErrUploadFailed wraps blob-store failures; the previous reference stays intact.
	ErrUploadFailed = errors.New("assets: upload failed")
	// ErrSuperseded reports that a newer upload for the same slot finished
	// first; the caller must drop this result.
	ErrSuperseded = errors.New("assets: upload superseded")
	// ErrStoreUnavailable reports that no blob storage was configured.
	ErrStoreUnavailable = errors.New("assets: blob storage unavailable")
)

// UploadInput describes one upload request.
type UploadInput struct {
	Data        []byte
	Filename    string
	ContentType string
	OwnerID     uuid.UUID
	Kind        Kind
	// Slot scopes concurrent uploads; when two uploads race on the same
	// slot, only the most recently issued one wins. Empty disables the
	// staleness check.
	Slot string
	// PreviousURL is the asset currently referenced by the slot. When it is
	// a managed asset it is deleted after the new upload succeeds.
	PreviousURL string
}

// Asset is the stored result committed back into element content.
type Asset struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Managed  bool   `json:"managed"`
}

// PipelineOption customises pipeline construction.
type PipelineOption func(*Pipeline)

// WithLogger injects the pipeline logger.
func WithLogger(logger interfaces.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock overrides the timestamp source used in asset paths.
func WithClock(clock func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if clock != nil {
			p.now = clock
		}
	}
}

// Pipeline coordinates resize, upload and stale-asset cleanup against the
// configured blob store.
type Pipeline struct {
	store   interfaces.BlobStorage
	logger  interfaces.Logger
	now     func() time.Time
	entropy *ulid.MonotonicEntropy

	mu          sync.Mutex
	generations map[string]uint64
}

// NewPipeline builds a pipeline bound to the supplied blob store.
func NewPipeline(store interfaces.BlobStorage, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		store:       store,
		logger:      logging.NoOp(),
		now:         time.Now,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		generations: map[string]uint64{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Upload runs the full pipeline. On success the returned asset carries the
// public URL to commit into content. Any failure leaves the previous
// reference untouched; cleanup of a replaced managed asset is best effort
// and never rolls back the new reference.
func (p *Pipeline) Upload(ctx context.Context, input UploadInput) (*Asset, error) {
	if p.store == nil {
		return nil, ErrStoreUnavailable
	}
	if len(input.Data) == 0 {
		return nil, ErrEmptyFile
	}
	if !isImageContentType(input.ContentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, input.ContentType)
	}

	token := p.beginGeneration(input.Slot)

	resized, err := resizeImage(input.Data, input.ContentType, input.Kind)
	if err != nil {
		return nil, err
	}

	path := p.assetPath(input)
	url, err := p.store.Upload(ctx, path, resized, interfaces.BlobUploadOptions{
		ContentType: input.ContentType,
		Metadata: map[string]string{
			"original_filename": input.Filename,
			"owner_id":          input.OwnerID.String(),
		},
	})
	if err != nil {
		p.logger.Error("assets.upload.failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if !p.currentGeneration(input.Slot, token) {
		// A newer upload for this slot already finished; drop this result
		// and reclaim the orphaned object.
		p.removeBestEffort(ctx, path)
		return nil, ErrSuperseded
	}

	p.cleanupPrevious(ctx, input.PreviousURL)

	p.logger.Debug("assets.upload.completed", "path", path, "owner_id", input.OwnerID)
	return &Asset{
		URL:      url,
		Path:     path,
		Filename: input.Filename,
		Managed:  true,
	}, nil
}

// Release deletes a managed asset, typically when its owning sub-item is
// removed. External URLs are ignored. Failures are logged, not surfaced.
func (p *Pipeline) Release(ctx context.Context, url string) {
	if p.store == nil || !p.Managed(url) {
		return
	}
	p.removeBestEffort(ctx, p.pathFromURL(url))
}

// ReleaseTree walks a content tree and releases every managed asset it
// references, best-effort. Managed references are stored as a `<key>Url`
// string next to a true `<key>Managed` flag; sub-item arrays are walked
// recursively. Externally linked URLs are left alone.
func (p *Pipeline) ReleaseTree(ctx context.Context, tree map[string]any) {
	for key, value := range tree {
		switch tv := value.(type) {
		case map[string]any:
			p.ReleaseTree(ctx, tv)
		case []map[string]any:
			for _, item := range tv {
				p.ReleaseTree(ctx, item)
			}
		case []any:
			for _, item := range tv {
				if m, ok := item.(map[string]any); ok {
					p.ReleaseTree(ctx, m)
				}
			}
		case bool:
			if !tv || !strings.HasSuffix(key, "Managed") {
				continue
			}
			urlKey := strings.TrimSuffix(key, "Managed") + "Url"
			if url, _ := tree[urlKey].(string); url != "" {
				p.Release(ctx, url)
			}
		}
	}
}

// Managed reports whether url points into the managed storage domain, as
// opposed to an externally linked image.
func (p *Pipeline) Managed(url string) bool {
	if p.store == nil {
		return false
	}
	base := p.store.BaseURL()
	return base != "" && strings.HasPrefix(url, base)
}

func (p *Pipeline) cleanupPrevious(ctx context.Context, previousURL string) {
	if previousURL == "" || !p.Managed(previousURL) {
		return
	}
	p.removeBestEffort(ctx, p.pathFromURL(previousURL))
}

func (p *Pipeline) removeBestEffort(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := p.store.Remove(ctx, []string{path}); err != nil {
		p.logger.Warn("assets.cleanup.failed", "path", path, "error", err)
	}
}

func (p *Pipeline) pathFromURL(url string) string {
	base := strings.TrimSuffix(p.store.BaseURL(), "/")
	return strings.TrimPrefix(strings.TrimPrefix(url, base), "/")
}

// assetPath builds `<category>/<owner>/<ulid>_<owner>.<ext>`. The ULID
// leads with the upload timestamp so listings sort chronologically.
func (p *Pipeline) assetPath(input UploadInput) string {
	limits, ok := kindBounds[input.Kind]
	if !ok {
		limits = kindBounds[KindImage]
	}
	p.mu.Lock()
	stamp := ulid.MustNew(ulid.Timestamp(p.now()), p.entropy)
	p.mu.Unlock()
	ext := extensionFor(input.ContentType, input.Filename)
	return fmt.Sprintf("%s/%s/%s_%s%s", limits.category, input.OwnerID, stamp, input.OwnerID, ext)
}

func (p *Pipeline) beginGeneration(slot string) uint64 {
	if slot == "" {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generations[slot]++
	return p.generations[slot]
}

func (p *Pipeline) currentGeneration(slot string, token uint64) bool {
	if slot == "" {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generations[slot] == token
}
