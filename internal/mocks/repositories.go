package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/repository"
)

var (
	_ repository.ArticleRepository = (*MockArticleRepository)(nil)
	_ repository.VideoRepository   = (*MockVideoRepository)(nil)
	_ repository.PodcastRepository = (*MockPodcastRepository)(nil)
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.JobRepository     = (*MockJobRepository)(nil)
)

// NewRepositories wires fresh in-memory mocks into a Repositories aggregate
func NewRepositories() (*repository.Repositories, *MockArticleRepository, *MockVideoRepository, *MockPodcastRepository, *MockUserRepository, *MockJobRepository) {
	articles := NewMockArticleRepository()
	videos := NewMockVideoRepository()
	podcasts := NewMockPodcastRepository()
	users := NewMockUserRepository()
	jobs := NewMockJobRepository()
	return &repository.Repositories{
		Article: articles,
		Video:   videos,
		Podcast: podcasts,
		User:    users,
		Job:     jobs,
	}, articles, videos, podcasts, users, jobs
}

// stampStatus mirrors the SQL status update: published_at is set on first publish
func stampStatus(status *models.Status, publishedAt **time.Time, next models.Status) {
	*status = next
	if next == models.StatusPublished && *publishedAt == nil {
		now := time.Now().UTC()
		*publishedAt = &now
	}
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func emptyCounts() map[models.Status]int {
	counts := make(map[models.Status]int, len(models.ValidStatuses))
	for s := range models.ValidStatuses {
		counts[s] = 0
	}
	return counts
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	mu               sync.Mutex
	Articles         map[string]*models.Article
	order            []string
	InsertError      error
	InsertedCount    int
	BatchInsertFunc  func(ctx context.Context, articles []*models.Article) (int, error)
	BatchInsertCalls int
	// FailIDs makes mutations of the listed IDs return the mapped error
	FailIDs map[string]error
	Views   map[string]int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[string]*models.Article),
		FailIDs:  make(map[string]error),
		Views:    make(map[string]int),
	}
}

func (m *MockArticleRepository) put(a *models.Article) {
	if _, ok := m.Articles[a.ID]; !ok {
		m.order = append(m.order, a.ID)
	}
	m.Articles[a.ID] = a
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	m.put(article)
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailIDs[article.ID]; err != nil {
		return false, err
	}
	if _, ok := m.Articles[article.ID]; !ok {
		return false, nil
	}
	m.Articles[article.ID] = article
	return true, nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailIDs[id]; err != nil {
		return false, err
	}
	if _, ok := m.Articles[id]; !ok {
		return false, nil
	}
	delete(m.Articles, id)
	m.order = without(m.order, id)
	return true, nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Articles[id]; ok {
		dup := *a
		return &dup, nil
	}
	return nil, nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Articles {
		if a.Slug == slug {
			dup := *a
			return &dup, nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	a, _ := m.GetBySlug(ctx, slug)
	return a != nil, nil
}

func (m *MockArticleRepository) List(ctx context.Context, status models.Status) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Article{}
	for _, id := range m.order {
		a, ok := m.Articles[id]
		if ok && (status == "" || a.Status == status) {
			dup := *a
			out = append(out, &dup)
		}
	}
	return out, nil
}

func (m *MockArticleRepository) UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailIDs[id]; err != nil {
		return false, err
	}
	a, ok := m.Articles[id]
	if !ok {
		return false, nil
	}
	stampStatus(&a.Status, &a.PublishedAt, status)
	return true, nil
}

func (m *MockArticleRepository) SetEditorsPick(ctx context.Context, id string, pick bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[id]
	if !ok {
		return false, nil
	}
	a.IsEditorsPick = pick
	return true, nil
}

func (m *MockArticleRepository) IncrementViews(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Articles[id]; ok {
		a.Views++
	}
	m.Views[id]++
	return nil
}

func (m *MockArticleRepository) ViewCounts(ctx context.Context, status models.Status) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int64, len(m.Articles))
	for id, a := range m.Articles {
		if status == "" || a.Status == status {
			counts[id] = a.Views
		}
	}
	return counts, nil
}

func (m *MockArticleRepository) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	m.mu.Lock()
	m.BatchInsertCalls++
	m.mu.Unlock()
	if m.BatchInsertFunc != nil {
		return m.BatchInsertFunc(ctx, articles)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, a := range articles {
		m.put(a)
	}
	m.InsertedCount += len(articles)
	return len(articles), nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Articles), nil
}

func (m *MockArticleRepository) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := emptyCounts()
	for _, a := range m.Articles {
		counts[a.Status]++
	}
	return counts, nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	articles, _ := m.List(ctx, "")
	for _, article := range articles {
		if err := callback(article); err != nil {
			return err
		}
	}
	return nil
}

// MockVideoRepository is a mock implementation of VideoRepository
type MockVideoRepository struct {
	mu               sync.Mutex
	Videos           map[string]*models.Video
	order            []string
	InsertError      error
	InsertedCount    int
	BatchInsertCalls int
	FailIDs          map[string]error
}

func NewMockVideoRepository() *MockVideoRepository {
	return &MockVideoRepository{
		Videos:  make(map[string]*models.Video),
		FailIDs: make(map[string]error),
	}
}

func (m *MockVideoRepository) put(v *models.Video) {
	if _, ok := m.Videos[v.ID]; !ok {
		m.order = append(m.order, v.ID)
	}
	m.Videos[v.ID] = v
}

func (m *MockVideoRepository) Create(ctx context.Context, video *models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	m.put(video)
	return nil
}

func (m *MockVideoRepository) Update(ctx context.Context, video *models.Video) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailIDs[video.ID]; err != nil {
		return false, err
	}
	if _, ok := m.Videos[video.ID]; !ok {
		return false, nil
	}
	m.Videos[video.ID] = video
	return true, nil
}

func (m *MockVideoRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailIDs[id]; err != nil {
		return false, err
	}
	if _, ok := m.Videos[id]; !ok {
		return false, nil
	}
	delete(m.Videos, id)
	m.order = without(m.order, id)
	return true, nil
}

func (m *MockVideoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.Videos[id]; ok {
		dup := *v
		return &dup, nil
	}
	return nil, nil
}

func (m *MockVideoRepository) List(ctx context.Context, status models.Status) ([]*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Video{}
	for _, id := range m.order {
		v, ok := m.Videos[id]
		if ok && (status == "" || v.Status == status) {
			dup := *v
			out = append(out, &dup)
		}
	}
	return out, nil
}

func (m *MockVideoRepository) UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailIDs[id]; err != nil {
		return false, err
	}
	v, ok := m.Videos[id]
	if !ok {
		return false, nil
	}
	stampStatus(&v.Status, &v.PublishedAt, status)
	return true, nil
}

func (m *MockVideoRepository) BatchInsert(ctx context.Context, videos []*models.Video) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchInsertCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, v := range videos {
		m.put(v)
	}
	m.InsertedCount += len(videos)
	return len(videos), nil
}

func (m *MockVideoRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Videos), nil
}

func (m *MockVideoRepository) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := emptyCounts()
	for _, v := range m.Videos {
		counts[v.Status]++
	}
	return counts, nil
}

func (m *MockVideoRepository) StreamAll(ctx context.Context, callback func(*models.Video) error) error {
	videos, _ := m.List(ctx, "")
	for _, video := range videos {
		if err := callback(video); err != nil {
			return err
		}
	}
	return nil
}

// MockPodcastRepository is a mock implementation of PodcastRepository
type MockPodcastRepository struct {
	mu          sync.Mutex
	Podcasts    map[string]*models.Podcast
	order       []string
	InsertError error
	FailIDs     map[string]error
}

func NewMockPodcastRepository() *MockPodcastRepository {
	return &MockPodcastRepository{
		Podcasts: make(map[string]*models.Podcast),
		FailIDs:  make(map[string]error),
	}
}

func (m *MockPodcastRepository) Create(ctx context.Context, podcast *models.Podcast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	if _, ok := m.Podcasts[podcast.ID]; !ok {
		m.order = append(m.order, podcast.ID)
	}
	m.Podcasts[podcast.ID] = podcast
	return nil
}

func (m *MockPodcastRepository) Update(ctx context.Context, podcast *models.Podcast) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailIDs[podcast.ID]; err != nil {
		return false, err
	}
	if _, ok := m.Podcasts[podcast.ID]; !ok {
		return false, nil
	}
	m.Podcasts[podcast.ID] = podcast
	return true, nil
}

func (m *MockPodcastRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailIDs[id]; err != nil {
		return false, err
	}
	if _, ok := m.Podcasts[id]; !ok {
		return false, nil
	}
	delete(m.Podcasts, id)
	m.order = without(m.order, id)
	return true, nil
}

func (m *MockPodcastRepository) GetByID(ctx context.Context, id string) (*models.Podcast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Podcasts[id]; ok {
		dup := *p
		return &dup, nil
	}
	return nil, nil
}

func (m *MockPodcastRepository) GetBySlug(ctx context.Context, slug string) (*models.Podcast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Podcasts {
		if p.Slug == slug {
			dup := *p
			return &dup, nil
		}
	}
	return nil, nil
}

func (m *MockPodcastRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	p, _ := m.GetBySlug(ctx, slug)
	return p != nil, nil
}

func (m *MockPodcastRepository) List(ctx context.Context, status models.Status) ([]*models.Podcast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Podcast{}
	for _, id := range m.order {
		p, ok := m.Podcasts[id]
		if ok && (status == "" || p.Status == status) {
			dup := *p
			out = append(out, &dup)
		}
	}
	return out, nil
}

func (m *MockPodcastRepository) UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailIDs[id]; err != nil {
		return false, err
	}
	p, ok := m.Podcasts[id]
	if !ok {
		return false, nil
	}
	stampStatus(&p.Status, &p.PublishedAt, status)
	return true, nil
}

func (m *MockPodcastRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Podcasts), nil
}

func (m *MockPodcastRepository) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := emptyCounts()
	for _, p := range m.Podcasts {
		counts[p.Status]++
	}
	return counts, nil
}

func (m *MockPodcastRepository) StreamAll(ctx context.Context, callback func(*models.Podcast) error) error {
	podcasts, _ := m.List(ctx, "")
	for _, podcast := range podcasts {
		if err := callback(podcast); err != nil {
			return err
		}
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[string]*models.User
	EmailToUser map[string]*models.User
	InsertError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:       make(map[string]*models.User),
		EmailToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Users[user.ID] = user
	m.EmailToUser[strings.ToLower(user.Email)] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.EmailToUser[strings.ToLower(email)], nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	u, _ := m.GetByEmail(ctx, email)
	return u != nil, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

// MockJobRepository is a mock implementation of JobRepository
type MockJobRepository struct {
	mu              sync.Mutex
	Jobs            map[string]*models.Job
	IdempotencyJobs map[string]*models.Job
	Errors          map[string][]models.ValidationError
	CreateError     error
	UpdateError     error
}

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{
		Jobs:            make(map[string]*models.Job),
		IdempotencyJobs: make(map[string]*models.Job),
		Errors:          make(map[string][]models.ValidationError),
	}
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	dup := *job
	m.Jobs[job.ID] = &dup
	if job.IdempotencyKey != "" {
		m.IdempotencyJobs[job.IdempotencyKey] = &dup
	}
	return nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	dup := *job
	m.Jobs[job.ID] = &dup
	if job.IdempotencyKey != "" {
		m.IdempotencyJobs[job.IdempotencyKey] = &dup
	}
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyJob(m.Jobs[id]), nil
}

func (m *MockJobRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyJob(m.IdempotencyJobs[key]), nil
}

func copyJob(job *models.Job) *models.Job {
	if job == nil {
		return nil
	}
	dup := *job
	return &dup
}

func (m *MockJobRepository) GetPendingJobs(ctx context.Context) ([]*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*models.Job
	for _, job := range m.Jobs {
		if job.Status == models.JobStatusPending {
			pending = append(pending, copyJob(job))
		}
	}
	return pending, nil
}

func (m *MockJobRepository) MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, exists := m.Jobs[jobID]
	if !exists || job.Status != models.JobStatusPending {
		return false, nil
	}
	job.Status = models.JobStatusProcessing
	return true, nil
}

func (m *MockJobRepository) AddErrors(ctx context.Context, jobID string, errors []models.ValidationError) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[jobID] = append(m.Errors[jobID], errors...)
	return nil
}

func (m *MockJobRepository) GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	errors := m.Errors[jobID]
	if limit > 0 && len(errors) > limit {
		errors = errors[:limit]
	}
	return append([]models.ValidationError(nil), errors...), nil
}
