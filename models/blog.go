package models

import (
	"time"
)

const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

type BlogPost struct {
	ID            string     `bson:"_id,omitempty" json:"id"`
	Title         string     `bson:"title" json:"title"`
	Slug          string     `bson:"slug" json:"slug"`
	Excerpt       string     `bson:"excerpt" json:"excerpt"`
	Content       string     `bson:"content" json:"content"`
	FeaturedImage string     `bson:"featuredImage" json:"featured_image"`
	Author        string     `bson:"author" json:"author"`
	Status        string     `bson:"status" json:"status"`
	PublishedAt   *time.Time `bson:"publishedAt" json:"published_at"`
	Tags          []string   `bson:"tags" json:"tags"`
	Views         int64      `bson:"views" json:"views"`
	CreatedAt     time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updated_at"`
}
