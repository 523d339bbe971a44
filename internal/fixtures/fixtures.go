// Package fixtures holds the sample data used to seed a development database
// and every database-backed test.
//
// Articles and comments are listed in insertion order, so with a fresh
// database the first article gets article_id 1, the second 2, and so on.
// Comment.ArticleID values refer to those positions.
package fixtures

import (
	"time"

	"github.com/sakif/news-api/internal/model"
)

// Data is a complete seed set.
type Data struct {
	Topics   []model.Topic
	Users    []model.User
	Articles []model.Article
	Comments []model.Comment
}

func ts(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

const img = "https://images.pexels.com/photos/158651/news-newsletter-newspaper-information-158651.jpeg?w=700&h=700"

// Test returns a fresh copy of the seed set.
//
// Shape of the data the tests rely on:
//   - topic "paper" has no articles
//   - article 2 has no comments
//   - article 1 has the most comments and 100 votes
//   - user "lurker" has written nothing
func Test() Data {
	return Data{
		Topics: []model.Topic{
			{Slug: "mitch", Description: "The man, the Mitch, the legend"},
			{Slug: "cats", Description: "Not dogs"},
			{Slug: "paper", Description: "what books are made of"},
		},
		Users: []model.User{
			{Username: "butter_bridge", Name: "jonny", AvatarURL: "https://www.healthytherapies.com/wp-content/uploads/2016/06/Lime3.jpg"},
			{Username: "icellusedkars", Name: "sam", AvatarURL: "https://avatars2.githubusercontent.com/u/24604688?s=460&v=4"},
			{Username: "rogersop", Name: "paul", AvatarURL: "https://avatars2.githubusercontent.com/u/24394918?s=400&v=4"},
			{Username: "lurker", Name: "do_nothing", AvatarURL: "https://www.golenbock.com/wp-content/uploads/2015/01/placeholder-user.png"},
		},
		Articles: []model.Article{
			{
				Title: "Living in the shadow of a great man", Topic: "mitch", Author: "butter_bridge",
				Body: "I find this existence challenging", CreatedAt: ts(1594329060000), Votes: 100, ArticleImgURL: img,
			},
			{
				Title: "Sony Vaio; or, The Laptop", Topic: "mitch", Author: "icellusedkars",
				Body: "Call me Mitchell. Some years ago I had a laptop.", CreatedAt: ts(1602828180000), ArticleImgURL: img,
			},
			{
				Title: "Eight pug gifs that remind me of mitch", Topic: "mitch", Author: "icellusedkars",
				Body: "some gifs", CreatedAt: ts(1604394720000), ArticleImgURL: img,
			},
			{
				Title: "Student SUES Mitch!", Topic: "mitch", Author: "rogersop",
				Body: "We all love Mitch and his wonderful, unique typing style.", CreatedAt: ts(1588731240000), ArticleImgURL: img,
			},
			{
				Title: "UNCOVERED: catspiracy to bring down democracy", Topic: "cats", Author: "rogersop",
				Body: "Bastet walks amongst us, and the cats are taking arms!", CreatedAt: ts(1596464040000), ArticleImgURL: img,
			},
			{
				Title: "A", Topic: "mitch", Author: "icellusedkars",
				Body: "Delicious tin of cat food", CreatedAt: ts(1602986400000), ArticleImgURL: img,
			},
		},
		Comments: []model.Comment{
			{ArticleID: 1, Author: "butter_bridge", Body: "Oh, I've got compassion running out of my nose, pal! I'm the Sultan of Sentiment!", Votes: 16, CreatedAt: ts(1586179020000)},
			{ArticleID: 1, Author: "butter_bridge", Body: "The beautiful thing about treasure is that it exists.", Votes: 14, CreatedAt: ts(1604113380000)},
			{ArticleID: 1, Author: "icellusedkars", Body: "Replacing the quiet elegance of the dark suit and tie with the casual indifference of these muted earth tones.", Votes: 100, CreatedAt: ts(1583025180000)},
			{ArticleID: 1, Author: "icellusedkars", Body: "I hate streaming noses", Votes: 0, CreatedAt: ts(1604437200000)},
			{ArticleID: 1, Author: "icellusedkars", Body: "Lobster pot", Votes: 0, CreatedAt: ts(1589577540000)},
			{ArticleID: 3, Author: "icellusedkars", Body: "Ambidextrous marsupial", Votes: 0, CreatedAt: ts(1600560600000)},
			{ArticleID: 3, Author: "butter_bridge", Body: "git push origin master", Votes: 0, CreatedAt: ts(1592641440000)},
			{ArticleID: 5, Author: "butter_bridge", Body: "What do you see? I have no idea where this will lead us.", Votes: 16, CreatedAt: ts(1591438200000)},
			{ArticleID: 5, Author: "icellusedkars", Body: "I am 100% sure that we're not completely sure.", Votes: 1, CreatedAt: ts(1606176480000)},
		},
	}
}

// CommentCount returns how many seed comments belong to the article at
// 1-based position articleID.
func (d Data) CommentCount(articleID int64) int {
	n := 0
	for _, c := range d.Comments {
		if c.ArticleID == articleID {
			n++
		}
	}
	return n
}
