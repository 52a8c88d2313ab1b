package app

import (
	"clinicsetup/domain/normalize"
	"clinicsetup/domain/record"
	"clinicsetup/internal"
	"clinicsetup/internal/domains"
	"clinicsetup/internal/session"
)

// SessionService exposes wizard sessions and their collections to the
// outer surfaces. Records written by hand are normalized with the same
// schemas the import pipeline uses.
type SessionService struct {
	sessions   *session.Store
	normalizer *normalize.Normalizer
	logger     *internal.Logger
}

// NewSessionService creates a session service
func NewSessionService(sessions *session.Store, logger *internal.Logger) *SessionService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SessionService{
		sessions:   sessions,
		normalizer: normalize.NewNormalizer(nil),
		logger:     logger,
	}
}

// Create starts a new wizard session.
func (s *SessionService) Create() session.Snapshot {
	agg := s.sessions.Create()
	s.logger.Info("[SessionService] Created session %s", agg.ID())
	return agg.Snapshot()
}

// Snapshot returns the full state of a session.
func (s *SessionService) Snapshot(id string) (*session.Snapshot, error) {
	agg, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	snap := agg.Snapshot()
	return &snap, nil
}

// Delete ends a session.
func (s *SessionService) Delete(id string) error {
	if _, err := s.sessions.Get(id); err != nil {
		return err
	}
	s.sessions.Delete(id)
	s.logger.Info("[SessionService] Deleted session %s", id)
	return nil
}

// Collection returns one collection of a session.
func (s *SessionService) Collection(id, collection string) (record.Collection, error) {
	agg, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return agg.Get(collection)
}

// ReplaceCollection normalizes raw records with the collection schema and
// stores them in place of the current collection.
func (s *SessionService) ReplaceCollection(id, collection string, raw []any) (record.Collection, error) {
	agg, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	sch, err := domains.SchemaFor(collection)
	if err != nil {
		return nil, err
	}

	records, stats := s.normalizer.Normalize(raw, sch)
	if err := agg.Replace(collection, records); err != nil {
		return nil, err
	}
	s.logger.Debug("[SessionService] %s/%s replaced with %d records (%d dropped)", id, collection, len(records), stats.Dropped)
	return agg.Get(collection)
}

// SetStep moves the wizard of a session to step.
func (s *SessionService) SetStep(id, step string) error {
	agg, err := s.sessions.Get(id)
	if err != nil {
		return err
	}
	return agg.SetStep(step)
}

// CompletePreSetup seeds a session from initial collections, normalizing
// every record, and opens the first form.
func (s *SessionService) CompletePreSetup(id string, initial map[string][]any) error {
	agg, err := s.sessions.Get(id)
	if err != nil {
		return err
	}

	seeded := make(map[string]record.Collection, len(initial))
	for name, raw := range initial {
		sch, err := domains.SchemaFor(name)
		if err != nil {
			return err
		}
		seeded[name], _ = s.normalizer.Normalize(raw, sch)
	}
	return agg.CompletePreSetup(seeded)
}
