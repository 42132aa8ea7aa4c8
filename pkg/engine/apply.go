package engine

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"
	"github.com/specloom/specloom/pkg/domain"
)

// patchEntry is one normalized (id, decision) pair from a patch payload.
type patchEntry struct {
	NodeID   string
	Decision map[string]any
}

// RejectedEntry reports one patch entry that failed validation. The rest
// of the batch still applies; partial success is reported, not thrown.
type RejectedEntry struct {
	NodeID string `json:"nodeId"`
	Reason string `json:"reason"`
}

// ApplyResult lists applied node ids and rejected entries, in payload order.
type ApplyResult struct {
	Applied  []string        `json:"applied"`
	Rejected []RejectedEntry `json:"rejected,omitempty"`
}

// Apply validates and merges a decision patch into the state.
//
// Accepted payload shapes:
//   - {"id": "...", "component": {...}, ...}
//   - [{"id": "...", ...}, ...]
//   - {"decisions": {"<id>": {...}, ...}}
//
// Each entry is validated independently: the target id must exist, the
// component base must be non-empty, and any pins string must match the
// grammar. A failing entry is rejected whole; applying the same patch
// twice yields the same state (idempotent per node id).
func (e *Engine) Apply(s *domain.State, payload []byte) (*ApplyResult, error) {
	entries, err := normalizePatch(payload)
	if err != nil {
		return nil, err
	}

	res := &ApplyResult{}
	for _, entry := range entries {
		decision, err := e.applyEntry(s, entry)
		if err != nil {
			e.logger.Warn("patch entry rejected", "node", entry.NodeID, "err", err)
			res.Rejected = append(res.Rejected, RejectedEntry{NodeID: entry.NodeID, Reason: err.Error()})
			continue
		}
		s.Decisions[entry.NodeID] = decision
		res.Applied = append(res.Applied, entry.NodeID)
	}
	return res, nil
}

func (e *Engine) applyEntry(s *domain.State, entry patchEntry) (*domain.Decision, error) {
	if _, ok := s.Nodes[entry.NodeID]; !ok {
		return nil, &domain.UnknownNodeError{NodeID: entry.NodeID}
	}

	decision, err := decodeDecision(entry.Decision)
	if err != nil {
		return nil, err
	}
	if decision.Base() == "" {
		return nil, fmt.Errorf("component.base must be a non-empty string")
	}

	if lay := decision.Layout; lay != nil {
		if lay.Kind == domain.LayoutPins && lay.Pins == "" {
			return nil, &domain.LayoutGrammarError{
				NodeID: entry.NodeID, Pins: "", Problems: []string{`layout kind "pins" requires a pins string`},
			}
		}
		if lay.Pins != "" {
			if _, err := domain.ParsePins(lay.Pins); err != nil {
				if ge, ok := err.(*domain.LayoutGrammarError); ok {
					ge.NodeID = entry.NodeID
				}
				return nil, err
			}
		}
	}
	return decision, nil
}

// decodeDecision maps an open decision object onto the typed Decision.
// Unknown keys are dropped; the property bag stays untyped by design.
func decodeDecision(m map[string]any) (*domain.Decision, error) {
	var d domain.Decision
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &d})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("decision does not match the expected shape: %w", err)
	}
	return &d, nil
}

func normalizePatch(payload []byte) ([]patchEntry, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &domain.ShapeError{Reason: "patch is not valid JSON: " + err.Error()}
	}

	switch v := raw.(type) {
	case []any:
		var out []patchEntry
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, &domain.ShapeError{Reason: fmt.Sprintf("patch entry %d is not an object", i)}
			}
			entry, err := entryFromObject(obj)
			if err != nil {
				return nil, err
			}
			out = append(out, entry)
		}
		if len(out) == 0 {
			return nil, &domain.ShapeError{Reason: "patch list is empty"}
		}
		return out, nil

	case map[string]any:
		if decisions, ok := v["decisions"].(map[string]any); ok {
			var out []patchEntry
			for _, id := range sortedKeys(decisions) {
				obj, ok := decisions[id].(map[string]any)
				if !ok {
					return nil, &domain.ShapeError{Reason: fmt.Sprintf("decision for %q is not an object", id)}
				}
				out = append(out, patchEntry{NodeID: id, Decision: obj})
			}
			if len(out) == 0 {
				return nil, &domain.ShapeError{Reason: "patch decisions map is empty"}
			}
			return out, nil
		}
		entry, err := entryFromObject(v)
		if err != nil {
			return nil, err
		}
		return []patchEntry{entry}, nil
	}
	return nil, &domain.ShapeError{Reason: "unsupported patch JSON shape"}
}

func entryFromObject(obj map[string]any) (patchEntry, error) {
	id, _ := obj["id"].(string)
	if id == "" {
		return patchEntry{}, &domain.ShapeError{Reason: `patch entry is missing a string "id"`}
	}
	decision := make(map[string]any, len(obj))
	for k, v := range obj {
		if k == "id" {
			continue
		}
		decision[k] = v
	}
	return patchEntry{NodeID: id, Decision: decision}, nil
}

// sortedKeys gives map-shaped patches a deterministic application order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
