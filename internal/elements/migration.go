package elements

import (
	"errors"
	"strings"

	"github.com/goliatone/go-funnel/internal/identity"
)

var ErrMigrationInvalid = errors.New("elements: migration registration invalid")

// Migration upgrades one deprecated content shape for one element type.
// Applies must detect the legacy shape by presence checks so that running a
// migration against already-upgraded content reports false and the whole
// chain stays idempotent. Apply receives the element (ids may seed
// deterministic sub-item ids) and returns the full upgraded content.
type Migration struct {
	Name    string
	Applies func(c Content) bool
	Apply   func(e *Element) (Content, error)
}

// Migrator holds ordered migration chains per element type. It is applied
// exactly once per element, at load time, by the owning collection service,
// before any panel sees the element. Panels never carry one-shot migration
// latches.
type Migrator struct {
	steps map[Type][]Migration
}

// NewMigrator constructs an empty migrator registry.
func NewMigrator() *Migrator {
	return &Migrator{steps: map[Type][]Migration{}}
}

// Register appends a migration to the chain for t.
func (m *Migrator) Register(t Type, migration Migration) error {
	if m == nil {
		return ErrMigrationInvalid
	}
	if t == "" || migration.Applies == nil || migration.Apply == nil {
		return ErrMigrationInvalid
	}
	if m.steps == nil {
		m.steps = map[Type][]Migration{}
	}
	m.steps[t] = append(m.steps[t], migration)
	return nil
}

// Run applies every matching migration to the element in registration order
// and reports whether the content changed. Running twice is a no-op on the
// second pass: each migration's Applies guard fails once the new shape is
// present.
func (m *Migrator) Run(element *Element) (bool, error) {
	if m == nil || element == nil {
		return false, nil
	}
	changed := false
	for _, migration := range m.steps[element.Type] {
		if !migration.Applies(element.Content) {
			continue
		}
		next, err := migration.Apply(element)
		if err != nil {
			return changed, err
		}
		element.Content = next
		changed = true
	}
	return changed, nil
}

// RunAll migrates a whole element list, reporting whether any changed.
func (m *Migrator) RunAll(list []*Element) (bool, error) {
	changed := false
	for _, element := range list {
		elementChanged, err := m.Run(element)
		if err != nil {
			return changed, err
		}
		changed = changed || elementChanged
	}
	return changed, nil
}

// DefaultMigrator returns the migrator carrying every known legacy upgrade.
func DefaultMigrator() *Migrator {
	m := NewMigrator()
	// Single capture field -> captureFields array.
	_ = m.Register(TypeCapture, Migration{
		Name:    "capture_fields_array",
		Applies: legacyCaptureShape,
		Apply:   migrateLegacyCapture,
	})
	return m
}

// legacyCaptureShape detects the pre-array capture payload: captureFields
// missing or empty while the singular captureType/placeholder fields exist.
func legacyCaptureShape(c Content) bool {
	if len(SubItems(c, "captureFields")) > 0 {
		return false
	}
	if _, ok := c["captureType"]; ok {
		return true
	}
	_, ok := c["placeholder"]
	return ok
}

func migrateLegacyCapture(element *Element) (Content, error) {
	content := element.Content
	captureType := strings.TrimSpace(content.String("captureType", "text"))
	if captureType == "" {
		captureType = "text"
	}
	field := map[string]any{
		// Deterministic id: re-running the migration reproduces it.
		"id":          identity.CaptureFieldUUID(element.ID, captureType).String(),
		"type":        captureType,
		"placeholder": content.String("placeholder", ""),
		"required":    content.Bool("required", true),
	}
	return MergeContent(content, Content{
		"captureFields": []map[string]any{field},
	}), nil
}
