package models

// Status is the publication state shared by articles, videos and podcasts
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ValidStatuses defines allowed publication statuses
var ValidStatuses = map[Status]bool{
	StatusDraft:     true,
	StatusPublished: true,
	StatusArchived:  true,
}

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	return ValidStatuses[s]
}
