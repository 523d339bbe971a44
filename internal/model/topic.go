// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data. The `json:"..."` struct tags
// control the wire names, which are snake_case to match the database columns.
package model

// Topic is a category articles are filed under. Topics are seed-only.
type Topic struct {
	Slug        string `json:"slug"        db:"slug"`
	Description string `json:"description" db:"description"`
}
