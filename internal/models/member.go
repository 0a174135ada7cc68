package models

import "time"

// GroupType scopes a roster member to one of the site's committees.
type GroupType string

const (
	GroupVestry    GroupType = "vestry"
	GroupMusicTeam GroupType = "music-team"
	GroupEndowment GroupType = "endowment"
	GroupClergy    GroupType = "clergy"
)

// ValidGroupType reports whether g is one of the defined groups.
func ValidGroupType(g GroupType) bool {
	switch g {
	case GroupVestry, GroupMusicTeam, GroupEndowment, GroupClergy:
		return true
	}
	return false
}

// Member is a committee roster entry, ordered by sort_order then name.
type Member struct {
	ID        int64     `json:"id"`
	GroupType GroupType `json:"group_type"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Term      *string   `json:"term,omitempty"`
	Image     *string   `json:"image,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
