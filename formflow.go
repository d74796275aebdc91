package formflow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petrijr/formflow/internal/engine"
	"github.com/petrijr/formflow/internal/persistence"
	"github.com/petrijr/formflow/pkg/api"
	"github.com/petrijr/formflow/pkg/definition"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Wizard               = api.Wizard
	WizardState          = api.WizardState
	WizardRef            = api.WizardRef
	Definition           = api.Definition
	StepDescriptor       = api.StepDescriptor
	Validator            = api.Validator
	ValidatorFunc        = api.ValidatorFunc
	FieldErrors          = api.FieldErrors
	FormValues           = api.FormValues
	Field                = api.Field
	FieldSet             = api.FieldSet
	FieldSpec            = api.FieldSpec
	FieldKind            = api.FieldKind
	PatchOperation       = api.PatchOperation
	Outcome              = api.Outcome
	FinalizeFunc         = api.FinalizeFunc
	View                 = api.View
	StepView             = api.StepView
	TransitionEvent      = api.TransitionEvent
	EventType            = api.EventType
	ValidationError      = api.ValidationError
	SubmissionError      = api.SubmissionError
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver

	EventStore = persistence.EventStore
	Journal    = persistence.Journal
)

// Re-export common helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	NewFormValues        = api.NewFormValues
	MustFormValues       = api.MustFormValues
	IsValidationError    = api.IsValidationError
	IsSubmissionError    = api.IsSubmissionError
	BuildView            = api.BuildView
	Replay               = api.Replay
	Rewind               = api.Rewind
)

// Re-export outcomes and control labels for convenience.

const (
	OutcomeIgnored      = api.OutcomeIgnored
	OutcomeAdvanced     = api.OutcomeAdvanced
	OutcomeRetreated    = api.OutcomeRetreated
	OutcomeReset        = api.OutcomeReset
	OutcomeInvalid      = api.OutcomeInvalid
	OutcomeSubmitted    = api.OutcomeSubmitted
	OutcomeSubmitFailed = api.OutcomeSubmitFailed

	FieldText     = api.FieldText
	FieldNumber   = api.FieldNumber
	FieldBoolean  = api.FieldBoolean
	FieldTextArea = api.FieldTextArea
)

// Option configures a wizard built by NewWizard or WizardBuilder.Build.
type Option func(*engine.Config)

// WithID sets the wizard ID instead of generating a UUID.
func WithID(id string) Option {
	return func(c *engine.Config) { c.ID = id }
}

// WithObserver sets the observer receiving lifecycle callbacks.
func WithObserver(obs Observer) Option {
	return func(c *engine.Config) { c.Observer = obs }
}

// WithJournal sets the store that records transition events.
func WithJournal(store EventStore) Option {
	return func(c *engine.Config) { c.Journal = store }
}

// WithFinalize sets the action run when the last step validates.
func WithFinalize(fn FinalizeFunc) Option {
	return func(c *engine.Config) { c.Finalize = fn }
}

// WithClock sets the clock used for event timestamps and submit durations.
func WithClock(now func() time.Time) Option {
	return func(c *engine.Config) { c.Now = now }
}

// NewWizard constructs a wizard positioned on the first step of def.
func NewWizard(def Definition, opts ...Option) (Wizard, error) {
	var cfg engine.Config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	w, err := engine.New(def, cfg)
	if err != nil {
		return nil, fmt.Errorf("formflow: %w", err)
	}
	return w, nil
}

// LoadWizard reads a YAML definition from path and constructs a wizard
// from it.
func LoadWizard(path string, opts ...Option) (Wizard, error) {
	doc, err := definition.Load(path)
	if err != nil {
		return nil, err
	}
	def, err := doc.Build()
	if err != nil {
		return nil, err
	}
	return NewWizard(def, opts...)
}

// Journal constructors.
// These wrap the internal/persistence package so external callers
// never need to import internal packages.

// OpenJournal connects to the journal described by a URL: "memory",
// "sqlite://path", "postgres://...", "redis://..." or "mongodb://...".
func OpenJournal(ctx context.Context, rawURL string) (*Journal, error) {
	return persistence.Open(ctx, rawURL)
}

// NewInMemoryJournal returns a journal that keeps events in process memory.
func NewInMemoryJournal() EventStore {
	return persistence.NewInMemoryEventStore()
}

// NewSQLiteJournal returns a journal stored in a SQLite database opened
// with the modernc.org/sqlite driver.
func NewSQLiteJournal(db *sql.DB) (EventStore, error) {
	return persistence.NewSQLiteEventStore(db)
}

// NewPostgresJournal returns a journal stored in PostgreSQL.
func NewPostgresJournal(db *sql.DB) (EventStore, error) {
	return persistence.NewPostgresEventStore(db)
}

// NewRedisJournal returns a journal stored in Redis lists under prefix.
func NewRedisJournal(client *redis.Client, prefix string) EventStore {
	return persistence.NewRedisEventStore(client, prefix)
}

// NewMongoJournal returns a journal stored in a MongoDB collection.
func NewMongoJournal(ctx context.Context, client *mongo.Client, dbName, collName string) (EventStore, error) {
	return persistence.NewMongoEventStore(ctx, client, dbName, collName)
}
