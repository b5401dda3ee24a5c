package panels

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/assets"
	"github.com/goliatone/go-funnel/internal/debounce"
	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/internal/logging"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

var (
	// ErrOutOfRange rejects manual numeric entry outside configurable
	// bounds. The previous value is retained.
	ErrOutOfRange = errors.New("panels: value out of range")
	// ErrUnknownStep rejects step navigation targets that are not in the
	// funnel's step directory.
	ErrUnknownStep = errors.New("panels: unknown step")
	// ErrMissingMedia is returned by panels that need the asset pipeline
	// when the dispatcher was built without one.
	ErrMissingMedia = errors.New("panels: media pipeline not configured")
)

// Panel is the configuration surface for one element. Concrete panels
// expose type-specific operations; this interface carries what every panel
// shares. Close cancels pending debounced commits and must be called when
// the panel is torn down.
type Panel interface {
	ElementID() uuid.UUID
	ElementType() elements.Type
	Flush()
	Close()
}

// Deps carries the collaborators panels can use. Steps feeds "navigate to
// step" selectors; Media backs image uploads. Either may be nil, in which
// case the dependent operations fail with a sentinel.
type Deps struct {
	Steps         interfaces.StepDirectory
	Media         *assets.Pipeline
	Logger        interfaces.Logger
	ContentWindow time.Duration
	StyleWindow   time.Duration
}

type constructor func(s *session, deps Deps) Panel

// constructors is the panel half of the per-type capability table. The
// defaults half lives with the element definitions; NewDispatcher verifies
// at construction that every registered element type has a panel, so the
// two halves cannot drift apart.
var constructors = map[elements.Type]constructor{
	elements.TypeText:                func(s *session, _ Deps) Panel { return &TextPanel{session: s} },
	elements.TypeButton:              func(s *session, d Deps) Panel { return &ButtonPanel{session: s, steps: d.Steps} },
	elements.TypeVideo:               func(s *session, _ Deps) Panel { return &VideoPanel{session: s} },
	elements.TypeMultipleChoice:      func(s *session, d Deps) Panel { return newChoicePanel(s, d) },
	elements.TypeMultipleChoiceImage: func(s *session, d Deps) Panel { return newChoicePanel(s, d) },
	elements.TypeCapture:             func(s *session, d Deps) Panel { return &CapturePanel{session: s, steps: d.Steps} },
	elements.TypeImage:               func(s *session, d Deps) Panel { return &ImagePanel{session: s, media: d.Media} },
	elements.TypeCarousel:            func(s *session, d Deps) Panel { return &CarouselPanel{session: s, media: d.Media} },
	elements.TypeTestimonials:        func(s *session, d Deps) Panel { return &TestimonialsPanel{session: s, media: d.Media} },
	elements.TypeComparison:          func(s *session, _ Deps) Panel { return &ComparisonPanel{session: s} },
	elements.TypeArguments:           func(s *session, _ Deps) Panel { return &ArgumentsPanel{session: s} },
	elements.TypePricing:             func(s *session, d Deps) Panel { return &PricingPanel{session: s, steps: d.Steps} },
	elements.TypeGraphics:            func(s *session, _ Deps) Panel { return &GraphicsPanel{session: s} },
	elements.TypeCartesian:           func(s *session, _ Deps) Panel { return &CartesianPanel{session: s} },
	elements.TypeHeight: func(s *session, _ Deps) Panel {
		return &RangePanel{session: s, units: []string{"cm", "in"}}
	},
	elements.TypeWeight: func(s *session, _ Deps) Panel {
		return &RangePanel{session: s, units: []string{"kg", "lb"}}
	},
	elements.TypeLevel:   func(s *session, _ Deps) Panel { return &LevelPanel{session: s} },
	elements.TypeRating:  func(s *session, _ Deps) Panel { return &RatingPanel{session: s} },
	elements.TypeSpacer:  func(s *session, _ Deps) Panel { return &SpacerPanel{session: s} },
	elements.TypeLoading: func(s *session, d Deps) Panel { return &LoadingPanel{session: s, steps: d.Steps} },
}

// Dispatcher resolves the configuration panel for an element. It owns the
// committer so every resolved panel shares the same validated write path
// into the collection.
type Dispatcher struct {
	collection *elements.Collection
	committer  *Committer
	deps       Deps
	logger     interfaces.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSteps provides the read-only step directory for navigation editors.
func WithSteps(steps interfaces.StepDirectory) DispatcherOption {
	return func(d *Dispatcher) {
		d.deps.Steps = steps
	}
}

// WithMedia provides the upload pipeline for image-bearing panels.
func WithMedia(media *assets.Pipeline) DispatcherOption {
	return func(d *Dispatcher) {
		d.deps.Media = media
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger interfaces.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDebounceWindows overrides the content and style quiet windows.
func WithDebounceWindows(content, style time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.deps.ContentWindow = content
		d.deps.StyleWindow = style
	}
}

// NewDispatcher builds the panel dispatcher for a collection. It fails if
// any registered element type lacks a panel constructor, which keeps the
// defaults table and the panel table extending together.
func NewDispatcher(collection *elements.Collection, opts ...DispatcherOption) (*Dispatcher, error) {
	d := &Dispatcher{
		collection: collection,
		logger:     logging.NoOp(),
		deps: Deps{
			ContentWindow: debounce.DefaultContentWindow,
			StyleWindow:   debounce.DefaultStyleWindow,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.deps.Logger = d.logger

	for _, t := range elements.Types() {
		if _, ok := constructors[t]; !ok {
			return nil, fmt.Errorf("panels: element type %q has no panel", t)
		}
	}

	d.committer = NewCommitter(collection, WithCommitterLogger(d.logger))
	return d, nil
}

// Committer exposes the dispatcher's write path, used by the owning service
// for programmatic commits that bypass a panel.
func (d *Dispatcher) Committer() *Committer {
	return d.committer
}

// Resolve returns the configuration panel for the element with the given
// id. Unknown element types resolve to an UnsupportedPanel rather than an
// error so stale content degrades gracefully; a missing element is a
// NotFoundError.
func (d *Dispatcher) Resolve(id uuid.UUID) (Panel, error) {
	element := d.collection.Get(id)
	if element == nil {
		return nil, &elements.NotFoundError{Resource: "element", Key: id.String()}
	}

	s := d.newSession(element)
	build, ok := constructors[element.Type]
	if !ok {
		d.logger.Warn("panels.resolve.unsupported_type",
			"element_id", id.String(), "type", string(element.Type))
		s.closeCommitters()
		return &UnsupportedPanel{id: id, typ: element.Type}, nil
	}
	return build(s, d.deps), nil
}

func (d *Dispatcher) newSession(element *elements.Element) *session {
	s := &session{
		id:     element.ID,
		typ:    element.Type,
		logger: logging.WithFields(d.logger, map[string]any{"element_id": element.ID.String()}),
		current: func() elements.Content {
			if el := d.collection.Get(element.ID); el != nil {
				return el.Content
			}
			return nil
		},
		commit: func(ctx context.Context, partial elements.Content) error {
			return d.committer.Execute(ctx, UpdateContent{ElementID: element.ID, Partial: partial})
		},
	}
	s.content = debounce.New(d.deps.ContentWindow, s.commitLater)
	s.style = debounce.New(d.deps.StyleWindow, s.commitLater)
	return s
}

// session is the per-panel binding to one element: a fresh-content reader,
// the committer, and the panel's two debounce lanes.
type session struct {
	id      uuid.UUID
	typ     elements.Type
	current func() elements.Content
	commit  func(ctx context.Context, partial elements.Content) error
	content *debounce.Committer
	style   *debounce.Committer
	logger  interfaces.Logger
}

func (s *session) ElementID() uuid.UUID {
	return s.id
}

func (s *session) ElementType() elements.Type {
	return s.typ
}

// Content returns the element's current content, re-read from the
// collection so panels never act on a stale snapshot.
func (s *session) Content() elements.Content {
	return s.current()
}

// SetStyle merges leaf style values one level deep, coalesced on the short
// style window so slider drags and color picks do not commit per event.
func (s *session) SetStyle(leaves map[string]any) {
	s.style.Propose(elements.StylePartial(leaves))
}

// Flush commits any pending debounced changes immediately.
func (s *session) Flush() {
	s.content.Flush()
	s.style.Flush()
}

// Close flushes pending commits and cancels the debounce timers. The panel
// must not be used afterwards.
func (s *session) Close() {
	s.closeCommitters()
}

func (s *session) closeCommitters() {
	s.content.Close()
	s.style.Close()
}

// apply commits a partial immediately, outside the debounce lanes. Used
// for structural changes (add/remove sub-item, toggles) where coalescing
// would only delay the write.
func (s *session) apply(ctx context.Context, partial elements.Content) error {
	return s.commit(ctx, partial)
}

// propose buffers a content partial on the content window.
func (s *session) propose(partial elements.Content) {
	s.content.Propose(partial)
}

func (s *session) commitLater(partial elements.Content) {
	if err := s.commit(context.Background(), partial); err != nil {
		s.logger.Error("panels.debounced_commit.failed", "error", err)
	}
}

// UnsupportedPanel is the resolution for element types the dispatcher does
// not know. It renders a static notice and performs no mutation.
type UnsupportedPanel struct {
	id  uuid.UUID
	typ elements.Type
}

func (p *UnsupportedPanel) ElementID() uuid.UUID {
	return p.id
}

func (p *UnsupportedPanel) ElementType() elements.Type {
	return p.typ
}

// Notice is the user-facing text shown in place of configuration controls.
func (p *UnsupportedPanel) Notice() string {
	return "Este elemento não possui configurações"
}

func (p *UnsupportedPanel) Flush() {}

func (p *UnsupportedPanel) Close() {}
