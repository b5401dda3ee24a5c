package elements

import (
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/logging"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// ChangeListener observes every mutation of the element list. The slice is
// the collection's current state; listeners must not retain and mutate it.
type ChangeListener func(elements []*Element)

// Collection owns the ordered element list of one funnel step. All mutations
// flow through it: factory creation, duplication, removal and content merges
// proposed by panels. Elements keep their identity (pointer and id) across
// content updates so host render keys stay stable.
type Collection struct {
	mu       sync.Mutex
	elements []*Element
	listener ChangeListener
	notifier interfaces.Notifier
	logger   interfaces.Logger
	idgen    IDGenerator
}

// CollectionOption customises collection construction.
type CollectionOption func(*Collection)

// WithChangeListener registers the owner callback notified on every change.
func WithChangeListener(listener ChangeListener) CollectionOption {
	return func(c *Collection) {
		c.listener = listener
	}
}

// WithNotifier wires the transient confirmation surface (toasts).
func WithNotifier(notifier interfaces.Notifier) CollectionOption {
	return func(c *Collection) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

// WithLogger injects the collection logger.
func WithLogger(logger interfaces.Logger) CollectionOption {
	return func(c *Collection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides the element/sub-item id source.
func WithIDGenerator(gen IDGenerator) CollectionOption {
	return func(c *Collection) {
		if gen != nil {
			c.idgen = gen
		}
	}
}

// NewCollection builds a collection seeded with the supplied elements. The
// seed slice is adopted as-is; callers hand over ownership.
func NewCollection(seed []*Element, opts ...CollectionOption) *Collection {
	c := &Collection{
		elements: seed,
		notifier: noopNotifier{},
		logger:   logging.NoOp(),
		idgen:    func() uuid.UUID { return uuid.New() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Elements returns a snapshot of the current order. The returned slice is a
// copy; the element pointers are shared to preserve identity.
func (c *Collection) Elements() []*Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Element, len(c.elements))
	copy(out, c.elements)
	return out
}

// Len reports the number of elements.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.elements)
}

// Get returns the element with the given id, or nil when absent.
func (c *Collection) Get(id uuid.UUID) *Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locate(id)
}

// Create allocates a new element of the given type with default content and
// inserts it at index (clamped to [0, len]; negative appends). The returned
// element carries an id not present anywhere else in the collection.
func (c *Collection) Create(t Type, index int) *Element {
	element := &Element{
		ID:      c.nextElementID(),
		Type:    t,
		Content: DefaultContentWithIDs(t, c.idgen),
	}

	c.mu.Lock()
	if index < 0 || index > len(c.elements) {
		index = len(c.elements)
	}
	c.elements = append(c.elements, nil)
	copy(c.elements[index+1:], c.elements[index:])
	c.elements[index] = element
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("elements.create", "element_id", element.ID, "type", string(t), "index", index)
	c.broadcast(snapshot)
	c.notifier.Success("Elemento adicionado")
	return element
}

// Duplicate deep-clones the element with the given id and inserts the copy
// immediately after the original. The clone receives a fresh element id and
// fresh sub-item ids so downstream id joins (analytics, option tracking)
// never collide with the original. Returns nil when the id is absent.
func (c *Collection) Duplicate(id uuid.UUID) *Element {
	c.mu.Lock()
	original := c.locate(id)
	if original == nil {
		c.mu.Unlock()
		c.logger.Warn("elements.duplicate.missing", "element_id", id)
		return nil
	}

	clone := original.Clone()
	clone.ID = c.idgen()
	regenerateSubItemIDs(map[string]any(clone.Content), c.idgen)

	position := c.indexOf(id) + 1
	c.elements = append(c.elements, nil)
	copy(c.elements[position+1:], c.elements[position:])
	c.elements[position] = clone
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("elements.duplicate", "source_id", id, "element_id", clone.ID)
	c.broadcast(snapshot)
	c.notifier.Success("Elemento duplicado")
	return clone
}

// Remove filters out the element with the given id. Absent ids are a no-op:
// the collection is unchanged and no notification fires.
func (c *Collection) Remove(id uuid.UUID) []*Element {
	c.mu.Lock()
	index := c.indexOf(id)
	if index < 0 {
		snapshot := c.snapshotLocked()
		c.mu.Unlock()
		return snapshot
	}
	c.elements = append(c.elements[:index], c.elements[index+1:]...)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("elements.remove", "element_id", id)
	c.broadcast(snapshot)
	c.notifier.Success("Elemento removido")
	return snapshot
}

// Apply merges a partial content update into the element with the given id
// and broadcasts the change. This is the single write-back path used by
// every panel commit.
func (c *Collection) Apply(id uuid.UUID, partial Content) (*Element, error) {
	c.mu.Lock()
	element := c.locate(id)
	if element == nil {
		c.mu.Unlock()
		return nil, &NotFoundError{Resource: "element", Key: id.String()}
	}
	element.Content = MergeContent(element.Content, partial)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.broadcast(snapshot)
	return element, nil
}

func (c *Collection) nextElementID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		id := c.idgen()
		if c.locate(id) == nil {
			return id
		}
	}
}

func (c *Collection) locate(id uuid.UUID) *Element {
	for _, element := range c.elements {
		if element.ID == id {
			return element
		}
	}
	return nil
}

func (c *Collection) indexOf(id uuid.UUID) int {
	for i, element := range c.elements {
		if element.ID == id {
			return i
		}
	}
	return -1
}

func (c *Collection) snapshotLocked() []*Element {
	out := make([]*Element, len(c.elements))
	copy(out, c.elements)
	return out
}

func (c *Collection) broadcast(snapshot []*Element) {
	if c.listener != nil {
		c.listener(snapshot)
	}
}

// regenerateSubItemIDs walks the content tree and replaces the "id" field of
// every mapping found inside an array, leaving all other keys untouched.
func regenerateSubItemIDs(node map[string]any, gen IDGenerator) {
	for _, value := range node {
		switch tv := value.(type) {
		case []map[string]any:
			for _, item := range tv {
				refreshItemID(item, gen)
			}
		case []any:
			for _, raw := range tv {
				if item := asMap(raw); item != nil {
					refreshItemID(item, gen)
				}
			}
		case map[string]any:
			regenerateSubItemIDs(tv, gen)
		}
	}
}

func refreshItemID(item map[string]any, gen IDGenerator) {
	if _, ok := item["id"]; ok {
		item["id"] = gen().String()
	}
	regenerateSubItemIDs(item, gen)
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}
