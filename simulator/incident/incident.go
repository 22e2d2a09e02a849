// Package incident tracks accidents and blocked edges, and the policies
// for creating, resolving, and expiring them.
package incident

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
)

// Severity is the closed set of accident severities.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// IsValid reports whether s is a recognized severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeveritySevere:
		return true
	default:
		return false
	}
}

// Boost returns the severity's multiplier boost.
func (s Severity) Boost() float64 {
	switch s {
	case SeverityMinor:
		return 2
	case SeverityModerate:
		return 4
	case SeveritySevere:
		return 10
	default:
		return 1
	}
}

// DurationRange returns the [min, max] seconds an accident of this severity
// lasts.
func (s Severity) DurationRange() (min, max float64) {
	switch s {
	case SeverityMinor:
		return 30, 60
	case SeverityModerate:
		return 60, 90
	case SeveritySevere:
		return 90, 120
	default:
		return 30, 60
	}
}

var (
	// ErrAlreadyAccidented is returned when CreateAccident targets an edge
	// that already has an active accident. The engine rejects rather than
	// overlays or silently overwrites (see DESIGN.md).
	ErrAlreadyAccidented = errors.New("incident: edge already has an active accident")
	// ErrEdgeBlocked is returned when CreateAccident targets a blocked edge.
	ErrEdgeBlocked = errors.New("incident: edge is blocked")
	// ErrUnknownAccident is returned by Resolve for an unknown accident id.
	ErrUnknownAccident = errors.New("incident: unknown accident id")
)

// Accident records a single active accident.
type Accident struct {
	ID              string
	Edge            agent.EdgeKey
	Severity        Severity
	CreatedAt       float64 // simulated seconds since start
	Duration        float64 // seconds
	Boost           float64 // post-multiplicative factor applied to the edge's field value
	PriorMultiplier float64 // edge's multiplier immediately before the boost, restored verbatim on resolve
}

// ExpiresAt returns the simulated time at which this accident auto-expires.
func (a Accident) ExpiresAt() float64 { return a.CreatedAt + a.Duration }

// Blockage records a manually blocked edge.
type Blockage struct {
	Edge      agent.EdgeKey
	Reason    string
	CreatedAt float64
}

// Table owns the accident set and the blocked-edge set. Table is not safe
// for concurrent use; the simulator core serializes access.
type Table struct {
	accidents map[string]*Accident
	byEdge    map[agent.EdgeKey]string // edge -> accident ID, for the at-most-one-per-edge invariant
	blocked   map[agent.EdgeKey]Blockage
	nextSeq   int
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{
		accidents: make(map[string]*Accident),
		byEdge:    make(map[agent.EdgeKey]string),
		blocked:   make(map[agent.EdgeKey]Blockage),
	}
}

// Create installs a new accident on edge, rejecting the call if the edge is
// blocked or already accidented. At most one accident is active per edge.
// priorMultiplier is the edge's multiplier immediately before the accident's
// boost is applied, recorded so Resolve can restore it verbatim.
func (t *Table) Create(edge agent.EdgeKey, severity Severity, now, durationSample, priorMultiplier float64) (*Accident, error) {
	if t.IsBlocked(edge) {
		return nil, fmt.Errorf("%w: %s", ErrEdgeBlocked, edge)
	}
	if _, exists := t.byEdge[edge]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAccidented, edge)
	}

	t.nextSeq++
	acc := &Accident{
		ID:              fmt.Sprintf("accident_%d", t.nextSeq),
		Edge:            edge,
		Severity:        severity,
		CreatedAt:       now,
		Duration:        durationSample,
		Boost:           severity.Boost(),
		PriorMultiplier: priorMultiplier,
	}
	t.accidents[acc.ID] = acc
	t.byEdge[edge] = acc.ID
	return acc, nil
}

// Resolve removes an accident immediately, restoring its edge to ordinary
// band-derived multipliers on the next refresh.
func (t *Table) Resolve(id string) error {
	acc, ok := t.accidents[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccident, id)
	}
	delete(t.accidents, id)
	delete(t.byEdge, acc.Edge)
	return nil
}

// ExpirePastDue removes every accident whose CreatedAt+Duration < now,
// returning the expired accidents.
func (t *Table) ExpirePastDue(now float64) []*Accident {
	var expired []*Accident
	for id, acc := range t.accidents {
		if acc.ExpiresAt() < now {
			expired = append(expired, acc)
			delete(t.accidents, id)
			delete(t.byEdge, acc.Edge)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })
	return expired
}

// ActiveOn returns the active accident on edge, if any.
func (t *Table) ActiveOn(edge agent.EdgeKey) (*Accident, bool) {
	id, ok := t.byEdge[edge]
	if !ok {
		return nil, false
	}
	return t.accidents[id], true
}

// Accidents returns every active accident, sorted by ID.
func (t *Table) Accidents() []*Accident {
	out := make([]*Accident, 0, len(t.accidents))
	for _, acc := range t.accidents {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Block inserts edge into the blocked set with the given reason. The table
// holds no multipliers; the caller sets the edge's sentinel multiplier.
// Idempotent: blocking an already-blocked edge refreshes its reason and
// timestamp.
func (t *Table) Block(edge agent.EdgeKey, reason string, now float64) {
	t.blocked[edge] = Blockage{Edge: edge, Reason: reason, CreatedAt: now}
}

// Unblock removes edge from the blocked set. A no-op (not an error) if the
// edge was not blocked.
func (t *Table) Unblock(edge agent.EdgeKey) {
	delete(t.blocked, edge)
}

// IsBlocked reports whether edge is currently blocked.
func (t *Table) IsBlocked(edge agent.EdgeKey) bool {
	_, ok := t.blocked[edge]
	return ok
}

// Blocked returns every blocked edge, sorted by (From, To).
func (t *Table) Blocked() []Blockage {
	out := make([]Blockage, 0, len(t.blocked))
	for _, b := range t.blocked {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Edge.From != out[j].Edge.From {
			return out[i].Edge.From < out[j].Edge.From
		}
		return out[i].Edge.To < out[j].Edge.To
	})
	return out
}

// Reset drops every accident and blockage.
func (t *Table) Reset() {
	t.accidents = make(map[string]*Accident)
	t.byEdge = make(map[agent.EdgeKey]string)
	t.blocked = make(map[agent.EdgeKey]Blockage)
}
