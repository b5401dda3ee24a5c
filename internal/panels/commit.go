package panels

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-funnel/internal/commands"
	"github.com/goliatone/go-funnel/internal/elements"
	"github.com/goliatone/go-funnel/internal/logging"
	schemaval "github.com/goliatone/go-funnel/internal/validation"
	"github.com/goliatone/go-funnel/pkg/interfaces"
)

// UpdateContent is the single write operation panels issue. The partial is
// merged onto the element's current content; style and navigation merge one
// level deep, everything else replaces at the top level.
type UpdateContent struct {
	ElementID uuid.UUID
	Partial   elements.Content
}

func (UpdateContent) Type() string { return "funnel.element.content.update" }

func (c UpdateContent) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ElementID, validation.By(func(any) error {
			if c.ElementID == uuid.Nil {
				return validation.NewError("validation_element_id", "element id is required")
			}
			return nil
		})),
	)
}

// Committer owns the write path into a collection. Every panel commit,
// immediate or debounced, funnels through Execute, so schema validation
// and failure wrapping happen in exactly one place.
type Committer struct {
	collection *elements.Collection
	handler    *commands.Handler[UpdateContent]
	logger     interfaces.Logger
}

// CommitterOption configures a Committer.
type CommitterOption func(*Committer)

// WithCommitterLogger sets the committer logger.
func WithCommitterLogger(logger interfaces.Logger) CommitterOption {
	return func(c *Committer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCommitter binds the write path to collection.
func NewCommitter(collection *elements.Collection, opts ...CommitterOption) *Committer {
	c := &Committer{
		collection: collection,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handler = commands.NewHandler(c.apply,
		commands.WithOperation[UpdateContent]("panels.commit"),
		commands.WithLogger[UpdateContent](c.logger),
		commands.WithMessageFields[UpdateContent](func(msg UpdateContent) map[string]any {
			return map[string]any{"element_id": msg.ElementID.String()}
		}),
	)
	return c
}

// Execute merges the partial into the element, validating the merged result
// against the element type's content schema first. The collection is only
// touched when validation passes.
func (c *Committer) Execute(ctx context.Context, msg UpdateContent) error {
	return c.handler.Execute(ctx, msg)
}

func (c *Committer) apply(_ context.Context, msg UpdateContent) error {
	element := c.collection.Get(msg.ElementID)
	if element == nil {
		return &elements.NotFoundError{Resource: "element", Key: msg.ElementID.String()}
	}

	if def, ok := elements.DefinitionFor(element.Type); ok && def.Schema != nil {
		merged := elements.MergeContent(element.Content, msg.Partial)
		if err := schemaval.ValidatePayload(def.Schema, merged); err != nil {
			return err
		}
	}

	_, err := c.collection.Apply(msg.ElementID, msg.Partial)
	return err
}
