package session

import (
	"fmt"
	"sync"
	"time"

	"clinicsetup/domain/core"
	"clinicsetup/domain/record"
	"clinicsetup/internal/domains"
)

// Wizard steps in display order. StepPreSetup precedes the first form.
const (
	StepPreSetup = "pre_setup"
	StepSummary  = "summary"
)

// Steps lists every wizard step a session can be on.
var Steps = []string{
	StepPreSetup,
	domains.BusinessInformation,
	domains.ClinicLocations,
	domains.Staff,
	domains.Services,
	domains.Equipment,
	domains.Inventory,
	domains.Packages,
	domains.Memberships,
	StepSummary,
}

// Aggregate is the in-memory state of one clinic setup: one record
// collection per domain plus wizard progress. Every read and write copies
// the collections so callers never share records with the aggregate.
type Aggregate struct {
	mu          sync.RWMutex
	id          string
	collections map[string]record.Collection
	step        string
	preSetup    bool
	createdAt   time.Time
	updatedAt   time.Time
}

// Snapshot is a point-in-time copy of an aggregate.
type Snapshot struct {
	ID           string                       `json:"id"`
	CurrentStep  string                       `json:"current_step"`
	PreSetupDone bool                         `json:"pre_setup_done"`
	Collections  map[string]record.Collection `json:"collections"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

// NewAggregate creates an aggregate with every collection empty.
func NewAggregate(id string) *Aggregate {
	now := time.Now()
	a := &Aggregate{
		id:          id,
		collections: make(map[string]record.Collection),
		step:        StepPreSetup,
		createdAt:   now,
		updatedAt:   now,
	}
	for _, name := range domains.CollectionNames() {
		a.collections[name] = record.Collection{}
	}
	return a
}

// ID returns the session identifier.
func (a *Aggregate) ID() string {
	return a.id
}

// Get returns a copy of the named collection.
func (a *Aggregate) Get(domain string) (record.Collection, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	c, ok := a.collections[domain]
	if !ok {
		return nil, core.NewUnknownDomainError(domain)
	}
	return c.Clone(), nil
}

// Replace stores a copy of records as the named collection.
func (a *Aggregate) Replace(domain string, records record.Collection) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.collections[domain]; !ok {
		return core.NewUnknownDomainError(domain)
	}
	a.collections[domain] = records.Clone()
	a.updatedAt = time.Now()
	return nil
}

// ReplaceAll stores several collections at once. Nothing is stored when any
// name is unknown.
func (a *Aggregate) ReplaceAll(collections map[string]record.Collection) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for name := range collections {
		if _, ok := a.collections[name]; !ok {
			return core.NewUnknownDomainError(name)
		}
	}
	for name, records := range collections {
		a.collections[name] = records.Clone()
	}
	a.updatedAt = time.Now()
	return nil
}

// CurrentStep returns the wizard step the session is on.
func (a *Aggregate) CurrentStep() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.step
}

// SetStep moves the wizard to step.
func (a *Aggregate) SetStep(step string) error {
	if !validStep(step) {
		return fmt.Errorf("%w: unknown wizard step %q", core.ErrInvalidInput, step)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.step = step
	a.updatedAt = time.Now()
	return nil
}

// CompletePreSetup seeds the aggregate with initial collections, marks the
// pre-setup phase done and moves the wizard to the first form.
func (a *Aggregate) CompletePreSetup(initial map[string]record.Collection) error {
	if err := a.ReplaceAll(initial); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.preSetup = true
	a.step = domains.BusinessInformation
	return nil
}

// Snapshot copies the whole aggregate.
func (a *Aggregate) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	collections := make(map[string]record.Collection, len(a.collections))
	for name, c := range a.collections {
		collections[name] = c.Clone()
	}
	return Snapshot{
		ID:           a.id,
		CurrentStep:  a.step,
		PreSetupDone: a.preSetup,
		Collections:  collections,
		CreatedAt:    a.createdAt,
		UpdatedAt:    a.updatedAt,
	}
}

func validStep(step string) bool {
	for _, s := range Steps {
		if s == step {
			return true
		}
	}
	return false
}
