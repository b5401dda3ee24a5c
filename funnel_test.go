package funnel_test

import (
	"context"
	"errors"
	"testing"

	funnel "github.com/goliatone/go-funnel"
	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/internal/funnels"
	"github.com/goliatone/go-funnel/internal/panels"
)

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

type recordingStore struct {
	objects map[string][]byte
	removed []string
	base    string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		objects: map[string][]byte{},
		base:    "https://cdn.local/assets",
	}
}

func (s *recordingStore) Upload(_ context.Context, path string, data []byte, _ funnel.BlobUploadOptions) (string, error) {
	s.objects[path] = data
	return s.base + "/" + path, nil
}

func (s *recordingStore) PublicURL(path string) string { return s.base + "/" + path }

func (s *recordingStore) Remove(_ context.Context, paths []string) error {
	for _, path := range paths {
		delete(s.objects, path)
		s.removed = append(s.removed, path)
	}
	return nil
}

func (s *recordingStore) BaseURL() string { return s.base }

func newModule(t *testing.T, opts ...funnel.Option) *funnel.Module {
	t.Helper()
	module, err := funnel.New(funnel.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return module
}

func TestConfigValidation(t *testing.T) {
	cfg := funnel.DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if _, err := funnel.New(cfg); !errors.Is(err, funnel.ErrLoggingProviderUnknown) {
		t.Fatalf("expected unknown provider, got %v", err)
	}

	cfg = funnel.DefaultConfig()
	cfg.Features.Cache = true
	if _, err := funnel.New(cfg); !errors.Is(err, funnel.ErrCacheRequiresDatabase) {
		t.Fatalf("expected cache/database constraint, got %v", err)
	}

	cfg = funnel.DefaultConfig()
	cfg.Logging.Level = "loud"
	if _, err := funnel.New(cfg); !errors.Is(err, funnel.ErrLoggingLevelInvalid) {
		t.Fatalf("expected invalid level, got %v", err)
	}
}

func TestEditStepEndToEnd(t *testing.T) {
	notifier := &recordingNotifier{}
	module := newModule(t, funnel.WithNotifier(notifier))
	ctx := context.Background()

	flow, err := module.Funnels().CreateFunnel(ctx, funnels.CreateFunnelInput{
		Slug: "quiz", Name: "Quiz",
	})
	if err != nil {
		t.Fatalf("create funnel: %v", err)
	}
	step, err := module.Funnels().AddStep(ctx, funnels.AddStepInput{
		FunnelID: flow.ID, Title: "Pergunta 1",
	})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}

	editor, err := module.EditStep(ctx, flow.ID, step.ID)
	if err != nil {
		t.Fatalf("edit step: %v", err)
	}

	element := editor.Collection().Create(elements.TypeMultipleChoice, -1)
	if len(notifier.successes) == 0 {
		t.Fatal("expected creation confirmation")
	}

	panel, err := editor.Panel(element.ID)
	if err != nil {
		t.Fatalf("resolve panel: %v", err)
	}
	choice, ok := panel.(*panels.ChoicePanel)
	if !ok {
		t.Fatalf("expected choice panel, got %T", panel)
	}
	options := elements.SubItems(choice.Content(), "options")
	optionID, _ := options[0]["id"].(string)
	if err := choice.UpdateOptionText(ctx, optionID, "Sim"); err != nil {
		t.Fatalf("update option: %v", err)
	}
	choice.Close()

	if _, err := editor.Save(ctx); err != nil {
		t.Fatalf("save step: %v", err)
	}

	reopened, err := module.EditStep(ctx, flow.ID, step.ID)
	if err != nil {
		t.Fatalf("reopen step: %v", err)
	}
	persisted := reopened.Collection().Get(element.ID)
	if persisted == nil {
		t.Fatal("expected element persisted")
	}
	saved := elements.SubItems(persisted.Content, "options")
	if text, _ := saved[0]["text"].(string); text != "Sim" {
		t.Fatalf("expected edit persisted, got %q", text)
	}
}

func TestRemoveElementReleasesManagedAssets(t *testing.T) {
	store := newRecordingStore()
	module := newModule(t, funnel.WithBlobStorage(store))
	ctx := context.Background()

	flow, err := module.Funnels().CreateFunnel(ctx, funnels.CreateFunnelInput{Slug: "galeria"})
	if err != nil {
		t.Fatalf("create funnel: %v", err)
	}
	step, err := module.Funnels().AddStep(ctx, funnels.AddStepInput{FunnelID: flow.ID, Title: "Fotos"})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}

	editor, err := module.EditStep(ctx, flow.ID, step.ID)
	if err != nil {
		t.Fatalf("edit step: %v", err)
	}

	element := editor.Collection().Create(elements.TypeImage, -1)
	path := "images/" + element.ID.String() + "/capa.png"
	store.objects[path] = []byte("data")
	if _, err := editor.Collection().Apply(element.ID, elements.Content{
		"imageUrl":     store.BaseURL() + "/" + path,
		"imageManaged": true,
	}); err != nil {
		t.Fatalf("apply content: %v", err)
	}

	external := editor.Collection().Create(elements.TypeImage, -1)
	if _, err := editor.Collection().Apply(external.ID, elements.Content{
		"imageUrl":     "https://elsewhere.example/banner.png",
		"imageManaged": false,
	}); err != nil {
		t.Fatalf("apply content: %v", err)
	}

	remaining := editor.RemoveElement(ctx, element.ID)
	if len(remaining) != 1 {
		t.Fatalf("expected one element left, got %d", len(remaining))
	}
	if len(store.removed) != 1 || store.removed[0] != path {
		t.Fatalf("expected managed asset released, got %v", store.removed)
	}

	editor.RemoveElement(ctx, external.ID)
	if len(store.removed) != 1 {
		t.Fatal("expected externally linked URL left alone")
	}
}

func TestStepNavigationAcrossSteps(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	flow, err := module.Funnels().CreateFunnel(ctx, funnels.CreateFunnelInput{Slug: "fluxo"})
	if err != nil {
		t.Fatalf("create funnel: %v", err)
	}
	first, err := module.Funnels().AddStep(ctx, funnels.AddStepInput{FunnelID: flow.ID, Title: "Primeiro"})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}
	second, err := module.Funnels().AddStep(ctx, funnels.AddStepInput{FunnelID: flow.ID, Title: "Segundo"})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}

	editor, err := module.EditStep(ctx, flow.ID, first.ID)
	if err != nil {
		t.Fatalf("edit step: %v", err)
	}
	element := editor.Collection().Create(elements.TypeButton, -1)
	panel, err := editor.Panel(element.ID)
	if err != nil {
		t.Fatalf("resolve panel: %v", err)
	}
	button := panel.(*panels.ButtonPanel)

	if err := button.SetNavigation(ctx, funnel.Navigation{
		Type:   elements.NavigationStep,
		StepID: second.ID.String(),
	}); err != nil {
		t.Fatalf("set navigation: %v", err)
	}

	nav := editor.Collection().Get(element.ID).Content.Map("navigation")
	if nav["stepId"] != second.ID.String() {
		t.Fatalf("unexpected navigation %v", nav)
	}
}
