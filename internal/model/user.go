package model

// User is a registered author. Users are seed-only; the API never writes them.
//
// Username is the primary key. Lookups by username are case-insensitive.
type User struct {
	Username  string `json:"username"   db:"username"`
	Name      string `json:"name"       db:"name"`
	AvatarURL string `json:"avatar_url" db:"avatar_url"`
}
