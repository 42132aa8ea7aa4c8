package specloom

import (
	"context"
	"io"
	"log/slog"

	"github.com/specloom/specloom/internal/logging"
	"github.com/specloom/specloom/pkg/adapters/file"
	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/engine"
	"github.com/specloom/specloom/pkg/ports"
	"github.com/specloom/specloom/pkg/session"
)

// Version is the library version. Overridden at release time via ldflags.
var Version = "0.1.0"

// Client is the high-level entry point for the specloom library. It wires
// the mapping engine to a state store and exposes the session operations.
type Client struct {
	engine  *engine.Engine
	service *session.Service

	store      ports.StateStore
	locker     ports.DistributedLocker
	logger     *slog.Logger
	stateDir   string
	rulesFile  string
	engineOpts []engine.Option
}

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithLogger sets a structured logger for the whole stack.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithStore injects a custom StateStore, bypassing the default file store.
func WithStore(store ports.StateStore) Option {
	return func(c *Client) { c.store = store }
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(c *Client) { c.locker = locker }
}

// WithStateDir sets the directory for the default file store.
func WithStateDir(dir string) Option {
	return func(c *Client) { c.stateDir = dir }
}

// WithRulesFile overlays a YAML rules file on the built-in tables for
// every UI system.
func WithRulesFile(path string) Option {
	return func(c *Client) { c.rulesFile = path }
}

// WithRules replaces the rule table for one UI system.
func WithRules(ui domain.UISystem, rules domain.RuleSet) Option {
	return func(c *Client) {
		c.engineOpts = append(c.engineOpts, engine.WithRules(ui, rules))
	}
}

// WithIncludeInvisible keeps invisible nodes during indexing.
func WithIncludeInvisible(include bool) Option {
	return func(c *Client) {
		c.engineOpts = append(c.engineOpts, engine.WithIncludeInvisible(include))
	}
}

// WithMaxTextLen truncates text characters in facts to n bytes.
func WithMaxTextLen(n int) Option {
	return func(c *Client) {
		c.engineOpts = append(c.engineOpts, engine.WithMaxTextLen(n))
	}
}

// New initializes a Client. By default it persists sessions as JSON files
// under .specloom/sessions; use WithStore for memory or Redis.
func New(opts ...Option) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.store == nil {
		c.store = file.New(c.stateDir)
	}

	engineOpts := []engine.Option{engine.WithLogger(c.logger)}
	if c.rulesFile != "" {
		for _, ui := range domain.UISystems {
			rules, err := domain.LoadRulesFile(c.rulesFile, domain.DefaultRules(ui))
			if err != nil {
				return nil, err
			}
			engineOpts = append(engineOpts, engine.WithRules(ui, rules))
		}
	}
	engineOpts = append(engineOpts, c.engineOpts...)
	c.engine = engine.New(engineOpts...)

	managerOpts := []session.ManagerOption{session.WithManagerLogger(c.logger)}
	if c.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(c.locker))
	}
	manager := session.NewManager(c.store, managerOpts...)
	c.service = session.NewService(c.engine, manager, session.WithServiceLogger(c.logger))
	return c, nil
}

// Engine returns the underlying stateless engine.
func (c *Client) Engine() *engine.Engine {
	return c.engine
}

// Service returns the session service for adapter wiring.
func (c *Client) Service() *session.Service {
	return c.service
}

// Init indexes raw design JSON into a fresh session.
func (c *Client) Init(ctx context.Context, sessionID string, input io.Reader, ui domain.UISystem) (engine.Status, error) {
	return c.service.Init(ctx, sessionID, input, ui)
}

// Skeleton returns a depth-limited tree outline.
func (c *Client) Skeleton(ctx context.Context, sessionID, nodeID string, depth int) (*domain.Skeleton, error) {
	return c.service.Skeleton(ctx, sessionID, nodeID, depth)
}

// Children returns the direct child summaries of one node.
func (c *Client) Children(ctx context.Context, sessionID, nodeID string) ([]domain.Summary, error) {
	return c.service.Children(ctx, sessionID, nodeID)
}

// Facts returns the derived fact bundle of one node.
func (c *Client) Facts(ctx context.Context, sessionID, nodeID string) (domain.Facts, error) {
	return c.service.Facts(ctx, sessionID, nodeID)
}

// Next returns up to count pending nodes in breadth-first order.
func (c *Client) Next(ctx context.Context, sessionID string, count int) (*engine.NextBatch, error) {
	return c.service.Next(ctx, sessionID, count)
}

// Apply merges a decision patch into the session.
func (c *Client) Apply(ctx context.Context, sessionID string, payload []byte) (*engine.ApplyResult, error) {
	return c.service.Apply(ctx, sessionID, payload)
}

// Validate runs the rule checks over the session's decisions.
func (c *Client) Validate(ctx context.Context, sessionID string) ([]domain.Finding, error) {
	return c.service.Validate(ctx, sessionID)
}

// Export builds the final component tree.
func (c *Client) Export(ctx context.Context, sessionID string, opts engine.ExportOptions) (*engine.ExportTree, error) {
	return c.service.Export(ctx, sessionID, opts)
}

// Status reports traversal progress.
func (c *Client) Status(ctx context.Context, sessionID string) (engine.Status, error) {
	return c.service.Status(ctx, sessionID)
}

// Delete removes a session.
func (c *Client) Delete(ctx context.Context, sessionID string) error {
	return c.service.Delete(ctx, sessionID)
}

// List returns stored session IDs.
func (c *Client) List(ctx context.Context) ([]string, error) {
	return c.service.List(ctx)
}
