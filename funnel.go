// Package funnel is the configuration core of a visual funnel builder:
// canvas element defaults and editing, per-type configuration panels,
// legacy content migration at load, debounced commits and the media upload
// pipeline behind image-bearing elements.
package funnel

import (
	"context"
	"fmt"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/assets"
	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/internal/funnels"
	"github.com/goliatone/go-funnel/internal/logging"
	"github.com/goliatone/go-funnel/internal/logging/gologger"
	"github.com/goliatone/go-funnel/internal/panels"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// Re-exported contracts so hosts only import the root package.
type (
	Element    = elements.Element
	Content    = elements.Content
	Type       = elements.Type
	Collection = elements.Collection

	Panel      = panels.Panel
	Dispatcher = panels.Dispatcher
	Navigation = panels.Navigation

	FunnelService = funnels.Service
	Funnel        = funnels.Funnel
	Step          = funnels.Step

	BlobStorage       = interfaces.BlobStorage
	BlobUploadOptions = interfaces.BlobUploadOptions
	Notifier          = interfaces.Notifier
	StepRef           = interfaces.StepRef
)

// Module is the top level runtime facade.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
	service  funnels.Service
	store    interfaces.BlobStorage
	media    *assets.Pipeline
	notifier interfaces.Notifier
}

// Option overrides a collaborator during construction.
type Option func(*Module)

// WithBlobStorage enables the media upload pipeline.
func WithBlobStorage(store interfaces.BlobStorage) Option {
	return func(m *Module) {
		m.store = store
	}
}

// WithNotifier routes transient user-facing confirmations to the host.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(m *Module) {
		m.notifier = notifier
	}
}

// WithLoggerProvider replaces the configured logging backend.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.provider = provider
		}
	}
}

// WithFunnelService replaces the persistence service wholesale.
func WithFunnelService(service funnels.Service) Option {
	return func(m *Module) {
		if service != nil {
			m.service = service
		}
	}
}

// New wires the module from configuration. Collaborator overrides run
// after config-driven wiring, so an injected service or provider wins.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}

	switch cfg.Logging.Provider {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	for _, opt := range opts {
		opt(m)
	}

	m.logger = logging.ModuleLogger(m.provider, "funnel")

	if m.service == nil {
		service, err := m.buildService()
		if err != nil {
			return nil, err
		}
		m.service = service
	}

	if m.store != nil {
		m.media = assets.NewPipeline(m.store,
			assets.WithLogger(logging.AssetsLogger(m.provider)))
	}

	return m, nil
}

func (m *Module) buildService() (funnels.Service, error) {
	serviceOpts := []funnels.ServiceOption{
		funnels.WithLogger(logging.StepsLogger(m.provider)),
	}

	if m.cfg.Database.DB == nil {
		return funnels.NewService(
			funnels.NewMemoryFunnelRepository(),
			funnels.NewMemoryStepRepository(),
			serviceOpts...,
		), nil
	}

	if !m.cfg.Features.Cache {
		return funnels.NewService(
			funnels.NewBunFunnelRepository(m.cfg.Database.DB),
			funnels.NewBunStepRepository(m.cfg.Database.DB),
			serviceOpts...,
		), nil
	}

	cacheService, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("funnel: cache service: %w", err)
	}
	serializer := repocache.NewDefaultKeySerializer()
	return funnels.NewService(
		funnels.NewBunFunnelRepositoryWithCache(m.cfg.Database.DB, cacheService, serializer),
		funnels.NewBunStepRepositoryWithCache(m.cfg.Database.DB, cacheService, serializer),
		serviceOpts...,
	), nil
}

// Funnels returns the funnel persistence service.
func (m *Module) Funnels() FunnelService {
	return m.service
}

// Media returns the upload pipeline, or nil when no blob storage was
// provided.
func (m *Module) Media() *assets.Pipeline {
	return m.media
}

// StepEditor is an editing session over one step: the loaded collection
// plus the panel dispatcher bound to it. Panels flush their own pending
// debounced commits on Flush or Close; Save persists the collection back
// to the step.
type StepEditor struct {
	module     *Module
	funnelID   uuid.UUID
	stepID     uuid.UUID
	collection *elements.Collection
	dispatcher *panels.Dispatcher
}

// EditStep loads a step into an editing session. Legacy element content is
// migrated during the load, before any panel can observe it.
func (m *Module) EditStep(ctx context.Context, funnelID, stepID uuid.UUID) (*StepEditor, error) {
	collectionOpts := []elements.CollectionOption{
		elements.WithLogger(logging.ElementsLogger(m.provider)),
	}
	if m.notifier != nil {
		collectionOpts = append(collectionOpts, elements.WithNotifier(m.notifier))
	}

	collection, err := m.service.LoadStep(ctx, stepID, collectionOpts...)
	if err != nil {
		return nil, err
	}

	dispatcherOpts := []panels.DispatcherOption{
		panels.WithLogger(logging.PanelsLogger(m.provider)),
		panels.WithSteps(m.service.StepDirectory(funnelID)),
		panels.WithDebounceWindows(m.cfg.Debounce.ContentWindow, m.cfg.Debounce.StyleWindow),
	}
	if m.media != nil {
		dispatcherOpts = append(dispatcherOpts, panels.WithMedia(m.media))
	}

	dispatcher, err := panels.NewDispatcher(collection, dispatcherOpts...)
	if err != nil {
		return nil, err
	}

	return &StepEditor{
		module:     m,
		funnelID:   funnelID,
		stepID:     stepID,
		collection: collection,
		dispatcher: dispatcher,
	}, nil
}

// Collection returns the session's element collection.
func (e *StepEditor) Collection() *elements.Collection {
	return e.collection
}

// Panel resolves the configuration panel for one element.
func (e *StepEditor) Panel(id uuid.UUID) (panels.Panel, error) {
	return e.dispatcher.Resolve(id)
}

// RemoveElement removes an element from the collection and releases every
// managed asset its content references, best-effort. Absent ids are a
// no-op, matching Collection.Remove.
func (e *StepEditor) RemoveElement(ctx context.Context, id uuid.UUID) []*elements.Element {
	element := e.collection.Get(id)
	snapshot := e.collection.Remove(id)
	if element != nil && e.module.media != nil {
		e.module.media.ReleaseTree(ctx, map[string]any(element.Content))
	}
	return snapshot
}

// Save persists the collection back into the step document.
func (e *StepEditor) Save(ctx context.Context) (*funnels.Step, error) {
	return e.module.service.SaveStep(ctx, e.stepID, e.collection)
}
