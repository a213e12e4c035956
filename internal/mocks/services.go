package mocks

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/service"
	"github.com/journal-content-api/internal/youtube"
)

// MockImportService is a mock implementation of ImportService
type MockImportService struct {
	mu            sync.Mutex
	CreateJobFunc func(ctx context.Context, req *models.ImportRequest, filePath string) (*models.Job, error)
	ProcessFunc   func(ctx context.Context, job *models.Job) error
	ProcessedJobs []*models.Job
	CreatedJobs   []*models.Job
}

// Verify interface compliance
var _ service.ImportService = (*MockImportService)(nil)

func NewMockImportService() *MockImportService {
	return &MockImportService{
		ProcessedJobs: make([]*models.Job, 0),
		CreatedJobs:   make([]*models.Job, 0),
	}
}

func (m *MockImportService) CreateImportJob(ctx context.Context, req *models.ImportRequest, filePath string) (*models.Job, error) {
	if m.CreateJobFunc != nil {
		return m.CreateJobFunc(ctx, req, filePath)
	}
	job := &models.Job{
		ID:             "test-job-id",
		Type:           models.JobTypeImport,
		Resource:       req.Resource,
		Status:         models.JobStatusPending,
		IdempotencyKey: req.IdempotencyKey,
		FilePath:       filePath,
		CreatedBy:      req.CreatedBy,
	}
	m.mu.Lock()
	m.CreatedJobs = append(m.CreatedJobs, job)
	m.mu.Unlock()
	return job, nil
}

func (m *MockImportService) ProcessImport(ctx context.Context, job *models.Job) error {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, job)
	}
	m.mu.Lock()
	m.ProcessedJobs = append(m.ProcessedJobs, job)
	m.mu.Unlock()
	job.Status = models.JobStatusCompleted
	return nil
}

// Processed returns the jobs handed to ProcessImport so far
func (m *MockImportService) Processed() []*models.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Job(nil), m.ProcessedJobs...)
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamFunc func(ctx context.Context, w http.ResponseWriter, resource, format string) error
	Counts     map[string]int
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Counts: map[string]int{
			models.ResourceArticles: 0,
			models.ResourceVideos:   0,
			models.ResourcePodcasts: 0,
		},
	}
}

func (m *MockExportService) stream(ctx context.Context, w http.ResponseWriter, resource, format string) error {
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, w, resource, format)
	}
	return nil
}

func (m *MockExportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	return m.stream(ctx, w, models.ResourceArticles, format)
}

func (m *MockExportService) StreamVideos(ctx context.Context, w http.ResponseWriter, format string) error {
	return m.stream(ctx, w, models.ResourceVideos, format)
}

func (m *MockExportService) StreamPodcasts(ctx context.Context, w http.ResponseWriter, format string) error {
	return m.stream(ctx, w, models.ResourcePodcasts, format)
}

func (m *MockExportService) StreamResource(ctx context.Context, w io.Writer, resource, format string) error {
	hw, _ := w.(http.ResponseWriter)
	return m.stream(ctx, hw, resource, format)
}

func (m *MockExportService) GetCount(ctx context.Context, resource string) (int, error) {
	return m.Counts[resource], nil
}

// MockJobService is a mock implementation of JobService
type MockJobService struct {
	Jobs          map[string]*models.JobResponse
	Errors        map[string][]models.ValidationError
	ImportService service.ImportService
}

// Verify interface compliance
var _ service.JobService = (*MockJobService)(nil)

func NewMockJobService() *MockJobService {
	return &MockJobService{
		Jobs:   make(map[string]*models.JobResponse),
		Errors: make(map[string][]models.ValidationError),
	}
}

func (m *MockJobService) StartProcessor(ctx context.Context) {}

func (m *MockJobService) StopProcessor() {}

func (m *MockJobService) GetJob(ctx context.Context, id string) (*models.JobResponse, error) {
	job, ok := m.Jobs[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return job, nil
}

func (m *MockJobService) GetJobByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	for _, job := range m.Jobs {
		if job.IdempotencyKey == key {
			return &job.Job, nil
		}
	}
	return nil, nil
}

func (m *MockJobService) GetJobErrors(ctx context.Context, id string) ([]models.ValidationError, error) {
	if _, ok := m.Jobs[id]; !ok {
		return nil, service.ErrNotFound
	}
	return m.Errors[id], nil
}

func (m *MockJobService) SetImportService(importService service.ImportService) {
	m.ImportService = importService
}

// StubFetcher is a youtube.MetadataFetcher returning canned metadata
type StubFetcher struct {
	mu       sync.Mutex
	Metadata *youtube.Metadata
	Err      error
	Calls    []string
}

var _ youtube.MetadataFetcher = (*StubFetcher)(nil)

func (f *StubFetcher) Fetch(ctx context.Context, videoID string) (*youtube.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, videoID)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Metadata, nil
}
