package service_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/journal-content-api/internal/auth"
	"github.com/journal-content-api/internal/cache"
	"github.com/journal-content-api/internal/config"
	"github.com/journal-content-api/internal/metrics"
	"github.com/journal-content-api/internal/mocks"
	"github.com/journal-content-api/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// testdataPath returns the absolute path to a file in the testdata directory.
func testdataPath(t testing.TB, filename string) string {
	t.Helper()
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(currentFile)))
	path := filepath.Join(projectRoot, "testdata", filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("testdata file not found: %s", path)
	}
	return path
}

type testHarness struct {
	services    *service.Services
	articleRepo *mocks.MockArticleRepository
	videoRepo   *mocks.MockVideoRepository
	podcastRepo *mocks.MockPodcastRepository
	userRepo    *mocks.MockUserRepository
	jobRepo     *mocks.MockJobRepository
	fetcher     *mocks.StubFetcher
	metrics     *metrics.Metrics
	redis       *miniredis.Miniredis
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	repos, articleRepo, videoRepo, podcastRepo, userRepo, jobRepo := repositoriesForTest()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{
		Import: config.ImportConfig{
			BatchSize:     2,
			MaxUploadSize: 10 * 1024 * 1024,
			UploadDir:     t.TempDir(),
		},
	}

	log := zerolog.Nop()
	fetcher := &mocks.StubFetcher{}
	m := metrics.New()
	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: strings.Repeat("s", 32),
		Issuer:    "journal-content-api",
		TokenTTL:  time.Hour,
	})

	services := service.NewServices(repos, cfg, service.Options{
		Cache:   cache.NewRedis(client, time.Minute, log),
		Metrics: m,
		Tokens:  tokens,
		YouTube: fetcher,
	}, log)

	return &testHarness{
		services:    services,
		articleRepo: articleRepo,
		videoRepo:   videoRepo,
		podcastRepo: podcastRepo,
		userRepo:    userRepo,
		jobRepo:     jobRepo,
		fetcher:     fetcher,
		metrics:     m,
		redis:       mr,
	}
}

var repositoriesForTest = mocks.NewRepositories
