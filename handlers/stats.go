package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aliblock43/point-property-hub/config"
	"github.com/aliblock43/point-property-hub/feed"
	"github.com/aliblock43/point-property-hub/models"
)

type StatsController struct {
	properties *mongo.Collection
	posts      *mongo.Collection
	messages   *mongo.Collection
}

func NewStatsController() *StatsController {
	return &StatsController{
		properties: config.GetCollection(feed.CollectionProperties),
		posts:      config.GetCollection(feed.CollectionBlogPosts),
		messages:   config.GetCollection(feed.CollectionMessages),
	}
}

type dashboardStats struct {
	TotalProperties  int64             `json:"total_properties"`
	ActiveProperties int64             `json:"active_properties"`
	TotalPosts       int64             `json:"total_posts"`
	PublishedPosts   int64             `json:"published_posts"`
	TotalMessages    int64             `json:"total_messages"`
	UnreadMessages   int64             `json:"unread_messages"`
	MostViewed       []models.Property `json:"most_viewed"`
}

// Dashboard aggregates the counters behind the admin landing page.
func (sc *StatsController) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	var stats dashboardStats
	var err error

	if stats.TotalProperties, err = sc.properties.CountDocuments(ctx, bson.M{}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	if stats.ActiveProperties, err = sc.properties.CountDocuments(ctx, bson.M{"status": models.PropertyStatusActive}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	if stats.TotalPosts, err = sc.posts.CountDocuments(ctx, bson.M{}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	if stats.PublishedPosts, err = sc.posts.CountDocuments(ctx, bson.M{"status": models.BlogStatusPublished}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	if stats.TotalMessages, err = sc.messages.CountDocuments(ctx, bson.M{}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	if stats.UnreadMessages, err = sc.messages.CountDocuments(ctx, bson.M{"status": models.MessageStatusUnread}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}

	opts := options.Find().SetSort(bson.D{{Key: "views", Value: -1}}).SetLimit(5)
	cursor, err := sc.properties.Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	defer cursor.Close(ctx)

	stats.MostViewed = []models.Property{}
	for cursor.Next(ctx) {
		var property models.Property
		if err := cursor.Decode(&property); err != nil {
			continue
		}
		stats.MostViewed = append(stats.MostViewed, property)
	}

	return c.JSON(http.StatusOK, stats)
}
