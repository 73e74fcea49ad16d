package model

import "net/url"

// AuthorStat is the global aggregate for one author name.
type AuthorStat struct {
	SubscriberCount int64  `json:"subscriberCount"`
	VideoCount      int64  `json:"videoCount"`
	Avatar          string `json:"avatar,omitempty"`
}

// AuthorStats maps author name to its aggregate.
type AuthorStats map[string]AuthorStat

// Clone returns a copy of the map.
func (s AuthorStats) Clone() AuthorStats {
	out := make(AuthorStats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// DefaultAvatar is the deterministic avatar derived from a username.
func DefaultAvatar(username string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(username)
}
