package listing

import (
	"sort"
	"time"

	"github.com/journal-content-api/internal/models"
)

// MediaQuery holds the listing filters for videos and podcasts
type MediaQuery struct {
	Search   string
	Category string
	Status   models.Status
	Sort     SortKey
}

// FilterVideos matches the search term against title and description.
// Videos carry no view counter, so most_viewed falls back to newest.
func FilterVideos(videos []*models.Video, q MediaQuery) []*models.Video {
	term := normalizeTerm(q.Search)

	out := make([]*models.Video, 0, len(videos))
	for _, v := range videos {
		if !containsFold(term, v.Title, v.Description) {
			continue
		}
		if !matchesCategory(q.Category, v.Category) {
			continue
		}
		if q.Status != "" && v.Status != q.Status {
			continue
		}
		out = append(out, v)
	}

	switch q.Sort {
	case SortOldest:
		sortByTime(out, videoTime, false)
	case SortAlphabetical:
		sortByTitle(out, func(v *models.Video) string { return v.Title })
	default:
		sortByTime(out, videoTime, true)
	}
	return out
}

// FilterPodcasts matches the search term against title, description and host.
// Podcasts carry no view counter, so most_viewed falls back to newest.
func FilterPodcasts(podcasts []*models.Podcast, q MediaQuery) []*models.Podcast {
	term := normalizeTerm(q.Search)

	out := make([]*models.Podcast, 0, len(podcasts))
	for _, p := range podcasts {
		if !containsFold(term, p.Title, p.Description, p.HostName) {
			continue
		}
		if !matchesCategory(q.Category, p.Category) {
			continue
		}
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortOldest:
		sortByTime(out, podcastTime, false)
	case SortAlphabetical:
		sortByTitle(out, func(p *models.Podcast) string { return p.Title })
	default:
		sortByTime(out, podcastTime, true)
	}
	return out
}

func videoTime(v *models.Video) time.Time     { return v.SortTime() }
func podcastTime(p *models.Podcast) time.Time { return p.SortTime() }

func sortStableDesc[T any](items []T, value func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool {
		return value(items[i]) > value(items[j])
	})
}
