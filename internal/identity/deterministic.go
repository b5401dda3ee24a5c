package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// CaptureFieldUUID derives the id for a capture field synthesized from a
// legacy single-field payload. Deriving from the element id keeps the
// migration idempotent: re-running it reproduces the same field id.
func CaptureFieldUUID(elementID uuid.UUID, captureType string) uuid.UUID {
	return UUID("go-funnel:capture_field:" + elementID.String() + ":" + strings.ToLower(strings.TrimSpace(captureType)))
}
