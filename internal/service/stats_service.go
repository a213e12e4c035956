package service

import (
	"context"

	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

type statsService struct {
	repos *repository.Repositories
}

func newStatsService(repos *repository.Repositories) *statsService {
	return &statsService{repos: repos}
}

// Stats runs the per-table counts concurrently
func (s *statsService) Stats(ctx context.Context) (*models.ContentStats, error) {
	stats := &models.ContentStats{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Articles, err = s.repos.Article.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Videos, err = s.repos.Video.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Podcasts, err = s.repos.Podcast.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Users, err = s.repos.User.Count(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
