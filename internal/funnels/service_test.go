package funnels_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/internal/funnels"
)

func newServiceWithFunnel(t *testing.T) (funnels.Service, *funnels.Funnel) {
	t.Helper()
	service := funnels.NewService(
		funnels.NewMemoryFunnelRepository(),
		funnels.NewMemoryStepRepository(),
		funnels.WithClock(func() time.Time {
			return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
		}),
	)
	funnel, err := service.CreateFunnel(context.Background(), funnels.CreateFunnelInput{
		Slug: "emagrecimento",
		Name: "Quiz de emagrecimento",
	})
	if err != nil {
		t.Fatalf("create funnel: %v", err)
	}
	return service, funnel
}

func TestCreateFunnelRequiresSlug(t *testing.T) {
	service := funnels.NewService(
		funnels.NewMemoryFunnelRepository(),
		funnels.NewMemoryStepRepository(),
	)
	_, err := service.CreateFunnel(context.Background(), funnels.CreateFunnelInput{})
	if !errors.Is(err, funnels.ErrFunnelSlugRequired) {
		t.Fatalf("expected slug required, got %v", err)
	}
}

func TestCreateFunnelDerivesSlugFromName(t *testing.T) {
	service := funnels.NewService(
		funnels.NewMemoryFunnelRepository(),
		funnels.NewMemoryStepRepository(),
	)
	funnel, err := service.CreateFunnel(context.Background(), funnels.CreateFunnelInput{
		Name: "Landing Page",
	})
	if err != nil {
		t.Fatalf("create funnel: %v", err)
	}
	if funnel.Slug != "landing-page" {
		t.Fatalf("expected derived slug, got %q", funnel.Slug)
	}

	bySlug, err := service.GetFunnelBySlug(context.Background(), "landing-page")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.ID != funnel.ID {
		t.Fatalf("expected funnel %s, got %s", funnel.ID, bySlug.ID)
	}
}

func TestAddStepAppendsAndInserts(t *testing.T) {
	service, funnel := newServiceWithFunnel(t)
	ctx := context.Background()

	first, err := service.AddStep(ctx, funnels.AddStepInput{FunnelID: funnel.ID, Title: "Boas-vindas"})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}
	second, err := service.AddStep(ctx, funnels.AddStepInput{FunnelID: funnel.ID, Title: "Resultado"})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}

	at := 1
	middle, err := service.AddStep(ctx, funnels.AddStepInput{
		FunnelID: funnel.ID, Title: "Perguntas", Position: &at,
	})
	if err != nil {
		t.Fatalf("insert step: %v", err)
	}

	refs, err := service.StepDirectory(funnel.ID).Steps(ctx)
	if err != nil {
		t.Fatalf("list steps: %v", err)
	}
	wantOrder := []uuid.UUID{first.ID, middle.ID, second.ID}
	if len(refs) != len(wantOrder) {
		t.Fatalf("expected %d steps, got %d", len(wantOrder), len(refs))
	}
	for i, want := range wantOrder {
		if refs[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, refs[i].ID)
		}
	}
}

func TestAddStepUnknownFunnel(t *testing.T) {
	service, _ := newServiceWithFunnel(t)

	_, err := service.AddStep(context.Background(), funnels.AddStepInput{
		FunnelID: uuid.New(), Title: "orphan",
	})
	var notFound *funnels.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestLoadStepRoundTripsElements(t *testing.T) {
	service, funnel := newServiceWithFunnel(t)
	ctx := context.Background()

	step, err := service.AddStep(ctx, funnels.AddStepInput{FunnelID: funnel.ID, Title: "Passo 1"})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}

	collection, err := service.LoadStep(ctx, step.ID)
	if err != nil {
		t.Fatalf("load step: %v", err)
	}
	created := collection.Create(elements.TypeButton, -1)
	if _, err := service.SaveStep(ctx, step.ID, collection); err != nil {
		t.Fatalf("save step: %v", err)
	}

	reloaded, err := service.LoadStep(ctx, step.ID)
	if err != nil {
		t.Fatalf("reload step: %v", err)
	}
	element := reloaded.Get(created.ID)
	if element == nil {
		t.Fatalf("expected element %s after reload", created.ID)
	}
	if element.Type != elements.TypeButton {
		t.Fatalf("unexpected type %s", element.Type)
	}
	if got := element.Content.String("label", ""); got != "Continuar" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestLoadStepMigratesLegacyCaptureOnce(t *testing.T) {
	steps := funnels.NewMemoryStepRepository()
	funnelRepo := funnels.NewMemoryFunnelRepository()
	service := funnels.NewService(funnelRepo, steps)
	ctx := context.Background()

	funnel, err := service.CreateFunnel(ctx, funnels.CreateFunnelInput{Slug: "legacy"})
	if err != nil {
		t.Fatalf("create funnel: %v", err)
	}
	legacy, err := steps.Create(ctx, &funnels.Step{
		FunnelID: funnel.ID,
		Title:    "Captura",
		Elements: []funnels.StepElement{{
			ID:   uuid.New(),
			Type: string(elements.TypeCapture),
			Content: map[string]any{
				"captureType": "email",
				"placeholder": "Seu email",
			},
		}},
	})
	if err != nil {
		t.Fatalf("seed step: %v", err)
	}

	first, err := service.LoadStep(ctx, legacy.ID)
	if err != nil {
		t.Fatalf("load step: %v", err)
	}
	fields := elements.SubItems(first.Elements()[0].Content, "captureFields")
	if len(fields) != 1 {
		t.Fatalf("expected one migrated field, got %d", len(fields))
	}
	if fields[0]["type"] != "email" || fields[0]["placeholder"] != "Seu email" {
		t.Fatalf("unexpected migrated field %v", fields[0])
	}
	firstID, _ := fields[0]["id"].(string)
	if firstID == "" {
		t.Fatal("expected generated field id")
	}

	second, err := service.LoadStep(ctx, legacy.ID)
	if err != nil {
		t.Fatalf("reload step: %v", err)
	}
	again := elements.SubItems(second.Elements()[0].Content, "captureFields")
	if len(again) != 1 {
		t.Fatalf("expected migration to stay idempotent, got %d fields", len(again))
	}
	if got, _ := again[0]["id"].(string); got != firstID {
		t.Fatalf("expected stable migrated id %s, got %s", firstID, got)
	}
}

func TestDeleteFunnelRemovesSteps(t *testing.T) {
	service, funnel := newServiceWithFunnel(t)
	ctx := context.Background()

	step, err := service.AddStep(ctx, funnels.AddStepInput{FunnelID: funnel.ID, Title: "Passo"})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}
	if err := service.DeleteFunnel(ctx, funnel.ID); err != nil {
		t.Fatalf("delete funnel: %v", err)
	}

	_, err = service.LoadStep(ctx, step.ID)
	var notFound *funnels.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected step removed, got %v", err)
	}
}

func TestRenameStep(t *testing.T) {
	service, funnel := newServiceWithFunnel(t)
	ctx := context.Background()

	step, err := service.AddStep(ctx, funnels.AddStepInput{FunnelID: funnel.ID, Title: "Antigo"})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}
	renamed, err := service.RenameStep(ctx, step.ID, "Novo título")
	if err != nil {
		t.Fatalf("rename step: %v", err)
	}
	if renamed.Title != "Novo título" {
		t.Fatalf("unexpected title %q", renamed.Title)
	}
}
