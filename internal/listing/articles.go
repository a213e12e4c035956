package listing

import (
	"time"

	"github.com/journal-content-api/internal/models"
)

// ArticleQuery holds the listing filters for articles. Zero values disable a filter.
type ArticleQuery struct {
	Search      string
	Category    string
	EditorsPick *bool
	Status      models.Status
	Sort        SortKey
}

// FilterArticles applies search, category, editor's pick and status filters
// (AND-ed) and returns the matches in the requested order.
func FilterArticles(articles []*models.Article, q ArticleQuery) []*models.Article {
	term := normalizeTerm(q.Search)

	out := make([]*models.Article, 0, len(articles))
	for _, a := range articles {
		if !containsFold(term, a.Title, a.Excerpt, a.Author.DisplayName) {
			continue
		}
		if !matchesCategory(q.Category, a.Category) {
			continue
		}
		if q.EditorsPick != nil && a.IsEditorsPick != *q.EditorsPick {
			continue
		}
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		out = append(out, a)
	}

	SortArticles(out, q.Sort)
	return out
}

// SortArticles orders articles in place. Missing view counters count as zero.
func SortArticles(articles []*models.Article, key SortKey) {
	switch key {
	case SortOldest:
		sortByTime(articles, articleTime, false)
	case SortMostViewed:
		sortByViews(articles)
	case SortAlphabetical:
		sortByTitle(articles, func(a *models.Article) string { return a.Title })
	default:
		sortByTime(articles, articleTime, true)
	}
}

func articleTime(a *models.Article) time.Time {
	return a.SortTime()
}

func sortByViews(articles []*models.Article) {
	sortStableDesc(articles, func(a *models.Article) int64 { return a.Views })
}

// ArticleCategories returns the distinct categories present in articles
func ArticleCategories(articles []*models.Article) []string {
	values := make([]string, 0, len(articles))
	for _, a := range articles {
		values = append(values, a.Category)
	}
	return sortedStrings(values)
}
