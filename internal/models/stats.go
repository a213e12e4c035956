package models

// ContentStats is the admin dashboard summary
type ContentStats struct {
	Articles map[Status]int `json:"articles"`
	Videos   map[Status]int `json:"videos"`
	Podcasts map[Status]int `json:"podcasts"`
	Users    int            `json:"users"`
}
