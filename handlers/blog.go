package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aliblock43/point-property-hub/config"
	"github.com/aliblock43/point-property-hub/feed"
	"github.com/aliblock43/point-property-hub/models"
	"github.com/aliblock43/point-property-hub/utils"
)

const blogCacheTTL = 2 * time.Minute

type BlogController struct {
	collection *mongo.Collection
}

func NewBlogController() *BlogController {
	return &BlogController{
		collection: config.GetCollection(feed.CollectionBlogPosts),
	}
}

// ListPosts serves the public blog index: published posts only, newest
// published first, cached per query.
func (bc *BlogController) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()

	cacheKey := utils.QueryCacheKey(feed.CollectionBlogPosts, map[string]string{"scope": "published"})
	var cached []models.BlogPost
	if found, err := utils.GetCached(ctx, cacheKey, &cached); err == nil && found {
		return c.JSON(http.StatusOK, cached)
	}

	opts := options.Find().SetSort(bson.D{{Key: "publishedAt", Value: -1}})
	posts, err := bc.find(ctx, bson.M{"status": models.BlogStatusPublished}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch posts"})
	}

	utils.SetCached(ctx, cacheKey, posts, blogCacheTTL)
	return c.JSON(http.StatusOK, posts)
}

// GetPostBySlug resolves a public /blog/:slug URL: published posts only,
// 404 on a miss, view counter incremented per hit.
func (bc *BlogController) GetPostBySlug(c echo.Context) error {
	slug := c.Param("slug")

	var post models.BlogPost
	err := bc.collection.FindOneAndUpdate(
		c.Request().Context(),
		bson.M{"slug": slug, "status": models.BlogStatusPublished},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Post not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch post"})
	}
	return c.JSON(http.StatusOK, post)
}

// AdminListPosts returns drafts and published posts alike, newest first.
func (bc *BlogController) AdminListPosts(c echo.Context) error {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	posts, err := bc.find(c.Request().Context(), bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch posts"})
	}
	return c.JSON(http.StatusOK, posts)
}

func (bc *BlogController) AdminGetPost(c echo.Context) error {
	id := c.Param("id")
	var post models.BlogPost
	err := bc.collection.FindOne(c.Request().Context(), bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Post not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch post"})
	}
	return c.JSON(http.StatusOK, post)
}

// CreatePost inserts a post. The slug is derived once from the title;
// published_at is stamped only when the post is created already published.
func (bc *BlogController) CreatePost(c echo.Context) error {
	var post models.BlogPost
	if err := c.Bind(&post); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if post.Title == "" || post.Content == "" || post.Author == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title, content and author are required"})
	}
	if post.Status == "" {
		post.Status = models.BlogStatusDraft
	}
	if post.Status != models.BlogStatusDraft && post.Status != models.BlogStatusPublished {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status"})
	}

	ctx := c.Request().Context()
	post.ID = uuid.NewString()
	post.Slug = utils.UniqueSlug(post.Title, func(s string) bool {
		count, err := bc.collection.CountDocuments(ctx, bson.M{"slug": s})
		return err != nil || count > 0
	})
	post.Views = 0
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	if post.Status == models.BlogStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	} else {
		post.PublishedAt = nil
	}

	if _, err := bc.collection.InsertOne(ctx, post); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create post"})
	}
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost edits a post. Slug stays stable across title edits;
// published_at is stamped at the moment of the draft-to-published
// transition and never again.
func (bc *BlogController) UpdatePost(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	var existing models.BlogPost
	err := bc.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Post not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch post"})
	}

	var update models.BlogPost
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if update.Status == "" {
		update.Status = existing.Status
	}
	if update.Status != models.BlogStatusDraft && update.Status != models.BlogStatusPublished {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status"})
	}

	updateDoc := bson.M{
		"title":         update.Title,
		"excerpt":       update.Excerpt,
		"content":       update.Content,
		"featuredImage": update.FeaturedImage,
		"author":        update.Author,
		"status":        update.Status,
		"tags":          update.Tags,
		"updatedAt":     time.Now(),
	}
	if existing.PublishedAt == nil && update.Status == models.BlogStatusPublished {
		updateDoc["publishedAt"] = time.Now()
	}
	if _, err := bc.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateDoc}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update post"})
	}

	var updated models.BlogPost
	if err := bc.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch updated post"})
	}
	return c.JSON(http.StatusOK, updated)
}

func (bc *BlogController) DeletePost(c echo.Context) error {
	id := c.Param("id")
	result, err := bc.collection.DeleteOne(c.Request().Context(), bson.M{"_id": id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete post"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Post not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

func (bc *BlogController) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.BlogPost, error) {
	cursor, err := bc.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.BlogPost{}
	for cursor.Next(ctx) {
		var post models.BlogPost
		if err := cursor.Decode(&post); err != nil {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}
