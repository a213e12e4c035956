package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/journal-content-api/internal/content"
	"github.com/journal-content-api/internal/models"
)

const (
	maxTitleLength    = 200
	maxExcerptLength  = 500
	maxTags           = 20
	minPasswordLength = 8
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a set of field errors returned as one error value
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = fmt.Sprintf("%s: %s", ve.Field, ve.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsError returns nil for an empty list so callers can write `if err := ...; err != nil`
func AsError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return Errors(errs)
}

// Validator provides validation methods. It remembers slugs accepted earlier in
// an import batch so duplicates inside one file are reported per line.
type Validator struct {
	articleSlugCache map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		articleSlugCache: make(map[string]bool),
	}
}

// AddArticleSlug adds a slug to the uniqueness cache
func (v *Validator) AddArticleSlug(slug string) {
	v.articleSlugCache[slug] = true
}

// HasArticleSlug reports whether slug was already accepted in this batch
func (v *Validator) HasArticleSlug(slug string) bool {
	return v.articleSlugCache[slug]
}

// ValidateArticle validates an article submitted from the admin console
func (v *Validator) ValidateArticle(in *models.ArticleInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateTitle(in.Title)...)

	if utf8.RuneCountInString(in.Excerpt) > maxExcerptLength {
		errors = append(errors, ValidationError{
			Field:   "excerpt",
			Message: fmt.Sprintf("excerpt exceeds %d characters", maxExcerptLength),
		})
	}

	if in.Author.IsZero() {
		errors = append(errors, ValidationError{Field: "author", Message: "author is required"})
	}

	if in.FeaturedImage != "" && !isHTTPURL(in.FeaturedImage) {
		errors = append(errors, ValidationError{Field: "featured_image", Message: "featured_image must be an http(s) URL", Value: in.FeaturedImage})
	}

	if len(in.Tags) > maxTags {
		errors = append(errors, ValidationError{Field: "tags", Message: fmt.Sprintf("at most %d tags are allowed", maxTags)})
	}

	errors = append(errors, validateStatus(in.Status)...)

	return errors
}

// ValidateVideo validates a video submitted from the admin console. The URL
// must yield a YouTube ID before anything is persisted.
func (v *Validator) ValidateVideo(in *models.VideoInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateTitle(in.Title)...)
	errors = append(errors, validateYouTubeURL(in.YouTubeURL)...)
	errors = append(errors, validateStatus(in.Status)...)

	return errors
}

// ValidatePodcast validates a podcast episode submitted from the admin console
func (v *Validator) ValidatePodcast(in *models.PodcastInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateTitle(in.Title)...)

	if in.AudioURL == "" {
		errors = append(errors, ValidationError{Field: "audio_url", Message: "audio_url is required"})
	} else if !isHTTPURL(in.AudioURL) {
		errors = append(errors, ValidationError{Field: "audio_url", Message: "audio_url must be an http(s) URL", Value: in.AudioURL})
	}

	if in.EpisodeNumber < 0 {
		errors = append(errors, ValidationError{Field: "episode_number", Message: "episode_number must not be negative", Value: in.EpisodeNumber})
	}
	if in.DurationSeconds < 0 {
		errors = append(errors, ValidationError{Field: "duration_seconds", Message: "duration_seconds must not be negative", Value: in.DurationSeconds})
	}

	errors = append(errors, validateStatus(in.Status)...)

	return errors
}

// ValidateArticleNDJSON validates an article record from an import file
func (v *Validator) ValidateArticleNDJSON(article *models.ArticleNDJSON) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateTitle(article.Title)...)

	// An explicit slug must already be normalized; otherwise one is derived from the title
	if article.Slug != "" {
		if !slugRegex.MatchString(article.Slug) {
			errors = append(errors, ValidationError{Field: "slug", Message: "slug must be lowercase words joined by hyphens", Value: article.Slug})
		} else if v.articleSlugCache[article.Slug] {
			errors = append(errors, ValidationError{Field: "slug", Message: "duplicate slug", Value: article.Slug})
		}
	}

	if article.Author.IsZero() {
		errors = append(errors, ValidationError{Field: "author", Message: "author is required"})
	}

	if article.FeaturedImage != "" && !isHTTPURL(article.FeaturedImage) {
		errors = append(errors, ValidationError{Field: "featured_image", Message: "featured_image must be an http(s) URL", Value: article.FeaturedImage})
	}

	errors = append(errors, validateStatus(article.Status)...)
	errors = append(errors, validatePublishedAt(article.Status, article.PublishedAt)...)

	return errors
}

// ValidateVideoNDJSON validates a video record from an import file
func (v *Validator) ValidateVideoNDJSON(video *models.VideoNDJSON) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateTitle(video.Title)...)
	errors = append(errors, validateYouTubeURL(video.YouTubeURL)...)
	errors = append(errors, validateStatus(video.Status)...)
	errors = append(errors, validatePublishedAt(video.Status, video.PublishedAt)...)

	return errors
}

// ValidateCredentials validates a sign-in request
func (v *Validator) ValidateCredentials(req *models.LoginRequest) []ValidationError {
	var errors []ValidationError

	if req.Email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(req.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: req.Email})
	}

	if req.Password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: "password is required"})
	}

	return errors
}

// ValidateNewUser validates an admin account before it is created
func (v *Validator) ValidateNewUser(email, name, role, password string) []ValidationError {
	errors := v.ValidateCredentials(&models.LoginRequest{Email: email, Password: password})

	if password != "" && len(password) < minPasswordLength {
		errors = append(errors, ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)})
	}
	if strings.TrimSpace(name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}
	if !models.ValidRoles[role] {
		errors = append(errors, ValidationError{
			Field:   "role",
			Message: "invalid role, must be one of: admin, editor",
			Value:   role,
		})
	}

	return errors
}

// ValidateStatus checks a status value used by status toggles and bulk updates
func ValidateStatus(status models.Status) []ValidationError {
	if status == "" {
		return []ValidationError{{Field: "status", Message: "status is required"}}
	}
	return validateStatus(status)
}

// NormalizeTags trims tags, drops empty ones and removes duplicates keeping the first occurrence
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func validateTitle(title string) []ValidationError {
	title = strings.TrimSpace(title)
	if title == "" {
		return []ValidationError{{Field: "title", Message: "title is required"}}
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return []ValidationError{{Field: "title", Message: fmt.Sprintf("title exceeds %d characters", maxTitleLength)}}
	}
	return nil
}

func validateYouTubeURL(raw string) []ValidationError {
	if raw == "" {
		return []ValidationError{{Field: "youtube_url", Message: "youtube_url is required"}}
	}
	if _, ok := content.ExtractYouTubeID(raw); !ok {
		return []ValidationError{{Field: "youtube_url", Message: "could not extract a YouTube video ID", Value: raw}}
	}
	return nil
}

// validateStatus accepts an empty status, which defaults to draft
func validateStatus(status models.Status) []ValidationError {
	if status != "" && !status.IsValid() {
		return []ValidationError{{
			Field:   "status",
			Message: "invalid status, must be one of: draft, published, archived",
			Value:   status,
		}}
	}
	return nil
}

func validatePublishedAt(status models.Status, publishedAt string) []ValidationError {
	if publishedAt == "" {
		return nil
	}
	var errors []ValidationError
	if status == models.StatusDraft {
		errors = append(errors, ValidationError{Field: "published_at", Message: "draft records must not have published_at"})
	}
	if _, err := time.Parse(time.RFC3339, publishedAt); err != nil {
		errors = append(errors, ValidationError{Field: "published_at", Message: "invalid ISO 8601 date format", Value: publishedAt})
	}
	return errors
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
