package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specloom/specloom/internal/logging"
	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/engine"
)

// Service binds the stateless engine to durable sessions. Every
// operation follows the same load, operate, save cycle; read-only
// operations skip the save.
type Service struct {
	engine  *engine.Engine
	manager *Manager
	logger  *slog.Logger
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithServiceLogger configures a logger for the Service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service from an engine and a session manager.
func NewService(eng *engine.Engine, manager *Manager, opts ...ServiceOption) *Service {
	s := &Service{
		engine:  eng,
		manager: manager,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine exposes the underlying engine for read-only helpers.
func (s *Service) Engine() *engine.Engine {
	return s.engine
}

// Init indexes raw design JSON into a fresh session, replacing any
// session previously stored under the same ID.
func (s *Service) Init(ctx context.Context, sessionID string, input io.Reader, ui domain.UISystem) (engine.Status, error) {
	var status engine.Status
	err := s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.engine.Init(input, ui)
		if err != nil {
			return err
		}
		if err := s.manager.Store().Save(ctx, sessionID, state); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
		status = s.engine.Status(state)
		return nil
	})
	if err == nil {
		s.logger.Info("session initialized", "session_id", sessionID, "nodes", status.NodeCount)
	}
	return status, err
}

// load fetches and sanity-checks a session state. Callers must hold the
// session lock.
func (s *Service) load(ctx context.Context, sessionID string) (*domain.State, error) {
	state, err := s.manager.Store().Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.CheckState(state); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return state, nil
}

// Skeleton returns the depth-limited tree view of a session.
func (s *Service) Skeleton(ctx context.Context, sessionID, nodeID string, depth int) (*domain.Skeleton, error) {
	var sk *domain.Skeleton
	err := s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return err
		}
		sk, err = s.engine.Skeleton(state, nodeID, depth)
		return err
	})
	return sk, err
}

// Children returns the direct child summaries of one node.
func (s *Service) Children(ctx context.Context, sessionID, nodeID string) ([]domain.Summary, error) {
	var out []domain.Summary
	err := s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return err
		}
		out, err = s.engine.Children(state, nodeID)
		return err
	})
	return out, err
}

// Facts returns the derived fact bundle of one node.
func (s *Service) Facts(ctx context.Context, sessionID, nodeID string) (domain.Facts, error) {
	var facts domain.Facts
	err := s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return err
		}
		facts, err = s.engine.Facts(state, nodeID)
		return err
	})
	return facts, err
}

// Next returns up to count pending nodes with their decision context.
func (s *Service) Next(ctx context.Context, sessionID string, count int) (*engine.NextBatch, error) {
	var batch *engine.NextBatch
	err := s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return err
		}
		batch, err = s.engine.Next(state, count)
		return err
	})
	return batch, err
}

// Apply merges a decision patch into the session and persists the result.
// The state is saved only when at least one entry applied.
func (s *Service) Apply(ctx context.Context, sessionID string, payload []byte) (*engine.ApplyResult, error) {
	var res *engine.ApplyResult
	err := s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return err
		}
		res, err = s.engine.Apply(state, payload)
		if err != nil {
			return err
		}
		if len(res.Applied) == 0 {
			return nil
		}
		return s.manager.Store().Save(ctx, sessionID, state)
	})
	return res, err
}

// Validate runs the rule checks over the session's decisions.
func (s *Service) Validate(ctx context.Context, sessionID string) ([]domain.Finding, error) {
	var findings []domain.Finding
	err := s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return err
		}
		findings = s.engine.Validate(state)
		return nil
	})
	return findings, err
}

// Export builds the final component tree from the session.
func (s *Service) Export(ctx context.Context, sessionID string, opts engine.ExportOptions) (*engine.ExportTree, error) {
	var tree *engine.ExportTree
	err := s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return err
		}
		tree, err = s.engine.Export(state, opts)
		return err
	})
	return tree, err
}

// Status reports traversal progress of the session.
func (s *Service) Status(ctx context.Context, sessionID string) (engine.Status, error) {
	var status engine.Status
	err := s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return err
		}
		status = s.engine.Status(state)
		return nil
	})
	return status, err
}

// Delete removes the session.
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	return s.manager.Delete(ctx, sessionID)
}

// List returns stored session IDs.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.manager.List(ctx)
}
