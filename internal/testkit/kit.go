package testkit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"clinicsetup/ports"
)

// SheetData is one worksheet of a generated workbook fixture.
type SheetData struct {
	Name string
	Rows [][]any
}

// Workbook renders sheets as .xlsx bytes. The first sheet replaces the
// default one so sheet order follows the arguments.
func Workbook(t testing.TB, sheets ...SheetData) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.Name))
		} else {
			_, err := f.NewSheet(s.Name)
			require.NoError(t, err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := append([]any{}, row...)
			require.NoError(t, f.SetSheetRow(s.Name, cell, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// MockExtractor implements ports.Extractor for testing
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, req *ports.ExtractionRequest) (*ports.ExtractionResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*ports.ExtractionResponse)
	return resp, args.Error(1)
}

// Response builds an extraction response from record lists keyed by
// response key.
func Response(collections map[string][]any) *ports.ExtractionResponse {
	return &ports.ExtractionResponse{Collections: collections}
}

// MemoryUploadStore keeps uploads in memory under mem:// URLs.
type MemoryUploadStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	FailPut error
}

var _ ports.UploadStore = (*MemoryUploadStore)(nil)

// NewMemoryUploadStore creates an empty in-memory upload store
func NewMemoryUploadStore() *MemoryUploadStore {
	return &MemoryUploadStore{objects: make(map[string][]byte)}
}

func (s *MemoryUploadStore) Put(ctx context.Context, namespace, filename string, data []byte) (*ports.StoredObject, error) {
	if s.FailPut != nil {
		return nil, s.FailPut
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := fmt.Sprintf("%s/%d-%s", namespace, len(s.objects), filename)
	s.objects[path] = append([]byte{}, data...)
	return &ports.StoredObject{URL: "mem://" + path, Path: path}, nil
}

func (s *MemoryUploadStore) Fetch(ctx context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.objects[strings.TrimPrefix(url, "mem://")]
	if !ok {
		return nil, fmt.Errorf("upload not found: %s", url)
	}
	return append([]byte{}, data...), nil
}

// Paths lists the stored object paths.
func (s *MemoryUploadStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.objects))
	for p := range s.objects {
		paths = append(paths, p)
	}
	return paths
}
