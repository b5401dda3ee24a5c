package assets_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/assets"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

type stubStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	removed  []string
	failNext error
	base     string
}

func newStubStore() *stubStore {
	return &stubStore{
		objects: map[string][]byte{},
		base:    "https://cdn.local/assets",
	}
}

func (s *stubStore) Upload(_ context.Context, path string, data []byte, _ interfaces.BlobUploadOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return "", err
	}
	s.objects[path] = data
	return s.base + "/" + path, nil
}

func (s *stubStore) PublicURL(path string) string { return s.base + "/" + path }

func (s *stubStore) Remove(_ context.Context, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	for _, path := range paths {
		delete(s.objects, path)
		s.removed = append(s.removed, path)
	}
	return nil
}

func (s *stubStore) BaseURL() string { return s.base }

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadStoresImageAndReturnsManagedAsset(t *testing.T) {
	store := newStubStore()
	pipeline := assets.NewPipeline(store)
	owner := uuid.New()

	asset, err := pipeline.Upload(context.Background(), assets.UploadInput{
		Data:        pngBytes(t, 10, 10),
		Filename:    "photo.png",
		ContentType: "image/png",
		OwnerID:     owner,
		Kind:        assets.KindImage,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !asset.Managed {
		t.Fatal("expected managed asset")
	}
	if !strings.HasPrefix(asset.URL, store.BaseURL()) {
		t.Fatalf("expected URL under storage domain, got %s", asset.URL)
	}
	if !strings.HasPrefix(asset.Path, "images/"+owner.String()+"/") {
		t.Fatalf("unexpected path %s", asset.Path)
	}
	if !strings.HasSuffix(asset.Path, ".png") {
		t.Fatalf("expected png extension, got %s", asset.Path)
	}
	if len(store.objects) != 1 {
		t.Fatalf("expected one stored object, got %d", len(store.objects))
	}
}

func TestUploadNeverUpscalesSmallImages(t *testing.T) {
	store := newStubStore()
	pipeline := assets.NewPipeline(store)

	original := pngBytes(t, 10, 10)
	asset, err := pipeline.Upload(context.Background(), assets.UploadInput{
		Data:        original,
		Filename:    "tiny.png",
		ContentType: "image/png",
		OwnerID:     uuid.New(),
		Kind:        assets.KindAvatar,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	stored := store.objects[asset.Path]
	if !bytes.Equal(stored, original) {
		t.Fatal("expected small image to pass through unresized")
	}
}

func TestUploadDownscalesOversizedImages(t *testing.T) {
	store := newStubStore()
	pipeline := assets.NewPipeline(store)

	asset, err := pipeline.Upload(context.Background(), assets.UploadInput{
		Data:        pngBytes(t, 800, 800),
		Filename:    "big.png",
		ContentType: "image/png",
		OwnerID:     uuid.New(),
		Kind:        assets.KindAvatar, // 300x300 bound
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(store.objects[asset.Path]))
	if err != nil {
		t.Fatalf("decode stored image: %v", err)
	}
	size := decoded.Bounds().Size()
	if size.X > 300 || size.Y > 300 {
		t.Fatalf("expected image within 300x300, got %dx%d", size.X, size.Y)
	}
}

func TestUploadRejectsNonImages(t *testing.T) {
	store := newStubStore()
	pipeline := assets.NewPipeline(store)

	_, err := pipeline.Upload(context.Background(), assets.UploadInput{
		Data:        []byte("%PDF-1.4"),
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
		OwnerID:     uuid.New(),
		Kind:        assets.KindImage,
	})
	if !errors.Is(err, assets.ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatal("expected no partial state on rejection")
	}
}

func TestUploadFailureLeavesPreviousIntact(t *testing.T) {
	store := newStubStore()
	store.failNext = fmt.Errorf("network down")
	pipeline := assets.NewPipeline(store)

	_, err := pipeline.Upload(context.Background(), assets.UploadInput{
		Data:        pngBytes(t, 10, 10),
		Filename:    "photo.png",
		ContentType: "image/png",
		OwnerID:     uuid.New(),
		Kind:        assets.KindImage,
		PreviousURL: store.BaseURL() + "/images/old/old.png",
	})
	if !errors.Is(err, assets.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(store.removed) != 0 {
		t.Fatal("expected previous asset untouched after failed upload")
	}
}

func TestUploadReplacesManagedAssetAfterSuccess(t *testing.T) {
	store := newStubStore()
	pipeline := assets.NewPipeline(store)
	previousPath := "images/old/old.png"
	store.objects[previousPath] = []byte("old")

	_, err := pipeline.Upload(context.Background(), assets.UploadInput{
		Data:        pngBytes(t, 10, 10),
		Filename:    "photo.png",
		ContentType: "image/png",
		OwnerID:     uuid.New(),
		Kind:        assets.KindImage,
		PreviousURL: store.BaseURL() + "/" + previousPath,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(store.removed) != 1 || store.removed[0] != previousPath {
		t.Fatalf("expected previous managed asset removed, got %v", store.removed)
	}
}

func TestUploadIgnoresExternalPreviousURL(t *testing.T) {
	store := newStubStore()
	pipeline := assets.NewPipeline(store)

	_, err := pipeline.Upload(context.Background(), assets.UploadInput{
		Data:        pngBytes(t, 10, 10),
		Filename:    "photo.png",
		ContentType: "image/png",
		OwnerID:     uuid.New(),
		Kind:        assets.KindImage,
		PreviousURL: "https://elsewhere.example/linked.png",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(store.removed) != 0 {
		t.Fatal("expected externally linked URL to be left alone")
	}
}

func TestGifPassesThroughWithoutResize(t *testing.T) {
	store := newStubStore()
	pipeline := assets.NewPipeline(store)

	// Not a decodable GIF, but the pipeline must not try: animated GIFs
	// skip the resize step entirely.
	payload := []byte("GIF89a-animated-bytes")
	asset, err := pipeline.Upload(context.Background(), assets.UploadInput{
		Data:        payload,
		Filename:    "anim.gif",
		ContentType: "image/gif",
		OwnerID:     uuid.New(),
		Kind:        assets.KindImage,
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !bytes.Equal(store.objects[asset.Path], payload) {
		t.Fatal("expected gif bytes untouched")
	}
}

func TestManagedDistinguishesStorageDomain(t *testing.T) {
	store := newStubStore()
	pipeline := assets.NewPipeline(store)

	if !pipeline.Managed(store.BaseURL() + "/images/x.png") {
		t.Fatal("expected storage-domain URL to be managed")
	}
	if pipeline.Managed("https://elsewhere.example/x.png") {
		t.Fatal("expected external URL to be unmanaged")
	}
}

func TestReleaseRemovesManagedAssetOnly(t *testing.T) {
	store := newStubStore()
	pipeline := assets.NewPipeline(store)
	store.objects["avatars/a/x.png"] = []byte("data")

	pipeline.Release(context.Background(), store.BaseURL()+"/avatars/a/x.png")
	if len(store.removed) != 1 {
		t.Fatalf("expected managed asset removed, got %v", store.removed)
	}

	pipeline.Release(context.Background(), "https://elsewhere.example/x.png")
	if len(store.removed) != 1 {
		t.Fatal("expected external URL ignored")
	}
}

func TestReleaseTreeWalksManagedReferences(t *testing.T) {
	store := newStubStore()
	pipeline := assets.NewPipeline(store)
	store.objects["images/e1/top.png"] = []byte("data")
	store.objects["choice_images/e1/opt.png"] = []byte("data")

	tree := map[string]any{
		"imageUrl":     store.BaseURL() + "/images/e1/top.png",
		"imageManaged": true,
		"alt":          "capa",
		"options": []any{
			map[string]any{
				"id":           "a",
				"imageUrl":     store.BaseURL() + "/choice_images/e1/opt.png",
				"imageManaged": true,
			},
			map[string]any{
				"id":           "b",
				"imageUrl":     "https://elsewhere.example/pic.png",
				"imageManaged": false,
			},
		},
	}
	pipeline.ReleaseTree(context.Background(), tree)

	if len(store.removed) != 2 {
		t.Fatalf("expected both managed assets removed, got %v", store.removed)
	}
	for _, path := range store.removed {
		if path != "images/e1/top.png" && path != "choice_images/e1/opt.png" {
			t.Fatalf("unexpected removal %q", path)
		}
	}
}
