package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"clinicsetup/domain/core"
	"clinicsetup/domain/normalize"
	"clinicsetup/domain/record"
	"clinicsetup/domain/sheet"
	"clinicsetup/internal"
	"clinicsetup/internal/domains"
	apperrors "clinicsetup/internal/errors"
	"clinicsetup/internal/extraction"
	"clinicsetup/internal/session"
	"clinicsetup/ports"
)

// Import phases reported to the caller while an import runs.
const (
	PhaseValidating = "Validating file…"
	PhaseReading    = "Reading…"
	PhaseExtracting = "Processing with AI…"
	PhaseMerging    = "Merging…"
	PhaseComplete   = "Complete"
)

// DefaultMaxUploadBytes caps uploads when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

// ProgressFunc receives each phase as the import enters it.
type ProgressFunc func(phase string)

// ImportRequest describes one spreadsheet upload for one domain.
type ImportRequest struct {
	SessionID string
	Domain    string
	Filename  string
	Data      []byte
	Progress  ProgressFunc
}

// ImportResult is the outcome of a successful import.
type ImportResult struct {
	ImportID    string                       `json:"import_id"`
	SessionID   string                       `json:"session_id"`
	Domain      string                       `json:"domain"`
	UploadURL   string                       `json:"upload_url"`
	Checksum    string                       `json:"checksum"`
	Rows        int                          `json:"rows"`
	Collections map[string]record.Collection `json:"collections"`
	Stats       map[string]normalize.Stats   `json:"stats"`
	Usage       *ports.UsageData             `json:"usage,omitempty"`
	DurationMs  int64                        `json:"duration_ms"`
}

// ImportStatus reports whether an import of a domain is running.
type ImportStatus struct {
	SessionID string `json:"session_id"`
	Domain    string `json:"domain"`
	InFlight  bool   `json:"in_flight"`
	Phase     string `json:"phase,omitempty"`
}

// PreviewResult is everything an import would send to extraction.
type PreviewResult struct {
	Domain  string                   `json:"domain"`
	Sheets  []string                 `json:"sheets"`
	Tables  []sheet.Table            `json:"tables"`
	Request *ports.ExtractionRequest `json:"request"`
}

// ImportConfig holds the tunables of the import service.
type ImportConfig struct {
	MaxUploadBytes int64
}

// ImportService runs the spreadsheet import pipeline: locate headers, filter
// rows, extract candidates, normalize them and merge them into the session.
type ImportService struct {
	sessions   *session.Store
	reader     ports.WorkbookReader
	uploads    ports.UploadStore
	extractor  ports.Extractor
	prompts    ports.PromptSource
	normalizer *normalize.Normalizer
	config     ImportConfig
	logger     *internal.Logger

	mu    sync.Mutex
	gates map[string]*importGate
}

// importGate admits one import per (session, domain). phase and inFlight are
// guarded by ImportService.mu.
type importGate struct {
	sem      *semaphore.Weighted
	inFlight bool
	phase    string
}

// NewImportService creates an import service
func NewImportService(
	sessions *session.Store,
	reader ports.WorkbookReader,
	uploads ports.UploadStore,
	extractor ports.Extractor,
	prompts ports.PromptSource,
	config ImportConfig,
	logger *internal.Logger,
) *ImportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if prompts == nil {
		prompts = extraction.NewPromptManager("")
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &ImportService{
		sessions:   sessions,
		reader:     reader,
		uploads:    uploads,
		extractor:  extractor,
		prompts:    prompts,
		normalizer: normalize.NewNormalizer(nil),
		config:     config,
		logger:     logger,
		gates:      make(map[string]*importGate),
	}
}

// Import runs the whole pipeline for one upload. On any failure the session
// is left untouched and the error carries the pipeline sentinel.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	startTime := time.Now()

	domain, err := domains.Lookup(req.Domain)
	if err != nil {
		return nil, apperrors.ImportFailed(req.Domain, err)
	}
	agg, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, apperrors.ImportFailed(req.Domain, err)
	}

	gate := s.gate(req.SessionID, domain.Name)
	if !gate.sem.TryAcquire(1) {
		s.logger.Warn("[ImportService] %s import rejected for session %s: already in progress", domain.Name, req.SessionID)
		return nil, apperrors.ImportFailed(domain.Name, core.ErrImportInFlight)
	}
	s.setInFlight(gate, true)
	defer func() {
		s.setInFlight(gate, false)
		gate.sem.Release(1)
	}()

	report := func(phase string) {
		s.setPhase(gate, phase)
		if req.Progress != nil {
			req.Progress(phase)
		}
	}

	importID := core.NewID().String()
	checksum := core.NewHash(req.Data)
	s.logger.Info("[ImportService] Starting %s import %s (session: %s, file: %s, %d bytes, sha256: %s)",
		domain.Name, importID, req.SessionID, req.Filename, len(req.Data), checksum.Short())

	// A started import runs to completion even if the caller goes away;
	// the extractor's own timeout still bounds it.
	result, err := s.run(context.WithoutCancel(ctx), importID, domain, agg, req, report)
	if err != nil {
		s.logFailure(domain.Name, importID, err)
		return nil, apperrors.ImportFailed(domain.Name, err)
	}

	result.Checksum = checksum.String()
	result.DurationMs = time.Since(startTime).Milliseconds()
	s.logger.Info("[ImportService] %s import %s completed in %dms (%d rows)",
		domain.Name, importID, result.DurationMs, result.Rows)
	return result, nil
}

// logFailure logs workbook rejections at warn level. Extraction and
// internal failures are errors.
func (s *ImportService) logFailure(domain, importID string, err error) {
	switch {
	case core.IsExtractionError(err):
		s.logger.Error("[ImportService] %s import %s extraction failed: %v", domain, importID, err)
	case core.IsImportError(err):
		s.logger.Warn("[ImportService] %s import %s rejected: %v", domain, importID, err)
	default:
		s.logger.Error("[ImportService] %s import %s failed: %v", domain, importID, err)
	}
}

func (s *ImportService) run(ctx context.Context, importID string, domain *domains.Domain, agg *session.Aggregate, req ImportRequest, report ProgressFunc) (*ImportResult, error) {
	report(PhaseValidating)
	if err := s.validate(req.Filename, req.Data); err != nil {
		return nil, err
	}

	namespace := req.SessionID + "/" + domain.Name
	stored, err := s.uploads.Put(ctx, namespace, req.Filename, req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	data, err := s.uploads.Fetch(ctx, stored.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upload: %w", err)
	}

	report(PhaseReading)
	tables, err := s.tables(domain, req.Filename, data)
	if err != nil {
		return nil, err
	}
	extractionReq, err := s.buildRequest(domain, tables)
	if err != nil {
		return nil, err
	}
	rows := extraction.RowCount(tables)
	s.logger.Debug("[ImportService] %s: %d tables, %d data rows sent to extraction", domain.Name, len(tables), rows)

	report(PhaseExtracting)
	resp, err := s.extractor.Extract(ctx, extractionReq)
	if err != nil {
		return nil, err
	}

	report(PhaseMerging)
	merged := make(map[string]record.Collection, len(domain.Outputs))
	stats := make(map[string]normalize.Stats, len(domain.Outputs))
	for _, out := range domain.Outputs {
		// Incoming records stay sparse through the merge so a field the
		// collaborator left out never overwrites an existing value.
		incoming, st := s.normalizer.NormalizeSparse(resp.Collections[out.ResponseKey], out.Schema)
		existing, err := agg.Get(out.Collection)
		if err != nil {
			return nil, err
		}
		merged[out.Collection] = s.normalizer.Complete(out.Policy.Merge(existing, incoming), out.Schema)
		stats[out.Collection] = st
		s.logger.Debug("[ImportService] %s: %d existing + %d incoming -> %d (%s, %d dropped, %d defaulted)",
			out.Collection, len(existing), len(incoming), len(merged[out.Collection]), out.Policy.Name(), st.Dropped, st.Defaulted)
	}
	if err := agg.ReplaceAll(merged); err != nil {
		return nil, err
	}

	report(PhaseComplete)
	return &ImportResult{
		ImportID:    importID,
		SessionID:   req.SessionID,
		Domain:      domain.Name,
		UploadURL:   stored.URL,
		Rows:        rows,
		Collections: merged,
		Stats:       stats,
		Usage:       resp.Usage,
	}, nil
}

func (s *ImportService) validate(filename string, data []byte) error {
	if !s.reader.Supports(filename) {
		return core.NewInvalidFileTypeError(filename)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %q is empty", core.ErrInvalidFileType, filename)
	}
	if int64(len(data)) > s.config.MaxUploadBytes {
		return fmt.Errorf("%w: upload of %d bytes exceeds the %d byte limit", core.ErrInvalidInput, len(data), s.config.MaxUploadBytes)
	}
	return nil
}

// MaxUploadBytes is the largest workbook Import and Preview accept.
func (s *ImportService) MaxUploadBytes() int64 {
	return s.config.MaxUploadBytes
}

// tables reads the workbook and slices every sheet the domain declares.
// Absent optional sheets are left out.
func (s *ImportService) tables(domain *domains.Domain, filename string, data []byte) ([]sheet.Table, error) {
	wb, err := s.reader.Read(filename, data)
	if err != nil {
		return nil, err
	}

	tables := make([]sheet.Table, 0, len(domain.Sheets))
	for _, spec := range domain.Sheets {
		if spec.Optional {
			if raw, _ := wb.Select(spec); raw == nil {
				continue
			}
		}
		table, err := sheet.TableFor(wb, spec)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("[ImportService] %s sheet: header at row %d, %d data rows", table.Kind, table.HeaderIndex+1, len(table.Rows))
		tables = append(tables, table)
	}
	return tables, nil
}

func (s *ImportService) buildRequest(domain *domains.Domain, tables []sheet.Table) (*ports.ExtractionRequest, error) {
	instructions, err := s.prompts.Resolve(domain.Name, domain.Instructions, map[string]string{
		"DOMAIN": domain.Name,
	})
	if err != nil {
		return nil, err
	}
	return extraction.Build(tables, domain.Envelope(), instructions)
}

// Preview runs the pipeline up to the extraction request without calling
// the extractor or touching any session.
func (s *ImportService) Preview(domainName, filename string, data []byte) (*PreviewResult, error) {
	domain, err := domains.Lookup(domainName)
	if err != nil {
		return nil, err
	}
	if err := s.validate(filename, data); err != nil {
		return nil, err
	}
	tables, err := s.tables(domain, filename, data)
	if err != nil {
		return nil, err
	}
	req, err := s.buildRequest(domain, tables)
	if err != nil {
		return nil, err
	}

	kinds := make([]string, len(tables))
	for i, t := range tables {
		kinds[i] = t.Kind
	}
	return &PreviewResult{Domain: domain.Name, Sheets: kinds, Tables: tables, Request: req}, nil
}

// Status reports whether an import of domain is running for the session.
func (s *ImportService) Status(sessionID, domainName string) (*ImportStatus, error) {
	if _, err := domains.Lookup(domainName); err != nil {
		return nil, err
	}
	if _, err := s.sessions.Get(sessionID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status := &ImportStatus{SessionID: sessionID, Domain: domainName}
	if gate, ok := s.gates[gateKey(sessionID, domainName)]; ok {
		status.InFlight = gate.inFlight
		status.Phase = gate.phase
	}
	return status, nil
}

// Forget drops the import gates held for a deleted session.
func (s *ImportService) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range domains.Names() {
		delete(s.gates, gateKey(sessionID, name))
	}
}

func (s *ImportService) gate(sessionID, domain string) *importGate {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := gateKey(sessionID, domain)
	g, ok := s.gates[key]
	if !ok {
		g = &importGate{sem: semaphore.NewWeighted(1)}
		s.gates[key] = g
	}
	return g
}

func (s *ImportService) setInFlight(g *importGate, inFlight bool) {
	s.mu.Lock()
	g.inFlight = inFlight
	if !inFlight {
		g.phase = ""
	}
	s.mu.Unlock()
}

func (s *ImportService) setPhase(g *importGate, phase string) {
	s.mu.Lock()
	g.phase = phase
	s.mu.Unlock()
}

func gateKey(sessionID, domain string) string {
	return sessionID + "/" + domain
}
