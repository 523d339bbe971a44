package model

import "time"

// Article is a posted piece of content.
//
// COMMENT COUNT:
// CommentCount is never stored. Every read computes it from the live
// comments table with a correlated subquery, so it cannot drift.
type Article struct {
	ArticleID     int64     `json:"article_id"      db:"article_id"`
	Title         string    `json:"title"           db:"title"`
	Topic         string    `json:"topic"           db:"topic"`
	Author        string    `json:"author"          db:"author"`
	Body          string    `json:"body"            db:"body"`
	CreatedAt     time.Time `json:"created_at"      db:"created_at"`
	Votes         int       `json:"votes"           db:"votes"`
	ArticleImgURL string    `json:"article_img_url" db:"article_img_url"`
	CommentCount  int       `json:"comment_count"   db:"comment_count"`
}

// ArticleSummary is the list projection of an Article: everything but the body.
type ArticleSummary struct {
	ArticleID     int64     `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
	CommentCount  int       `json:"comment_count"`
}

// NewArticle holds the caller-supplied fields of an article being posted.
type NewArticle struct {
	Author        string
	Title         string
	Body          string
	Topic         string
	ArticleImgURL string
}
