package handlers

import (
	"context"
	"net/http"
	"strconv"
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

const propertyCacheTTL = 2 * time.Minute

type PropertyController struct {
	collection *mongo.Collection
}

func NewPropertyController() *PropertyController {
	return &PropertyController{
		collection: config.GetCollection(feed.CollectionProperties),
	}
}

// ListProperties serves the public listings page: active properties only,
// newest first, filterable. Results are cached per query in Redis; the
// change-feed invalidator drops the cache whenever the collection changes.
func (pc *PropertyController) ListProperties(c echo.Context) error {
	ctx := c.Request().Context()

	cacheParams := map[string]string{}
	for _, name := range []string{"type", "location", "bedrooms", "featured", "page", "limit"} {
		if v := c.QueryParam(name); v != "" {
			cacheParams[name] = v
		}
	}
	cacheKey := utils.QueryCacheKey(feed.CollectionProperties, cacheParams)

	var cached []models.Property
	if found, err := utils.GetCached(ctx, cacheKey, &cached); err == nil && found {
		return c.JSON(http.StatusOK, cached)
	}

	query := bson.M{"status": models.PropertyStatusActive}
	if propType := c.QueryParam("type"); propType != "" {
		query["type"] = propType
	}
	if location := c.QueryParam("location"); location != "" {
		query["location"] = bson.M{"$regex": location, "$options": "i"}
	}
	if bedrooms := c.QueryParam("bedrooms"); bedrooms != "" {
		if num, err := strconv.Atoi(bedrooms); err == nil {
			query["bedrooms"] = num
		}
	}
	if featured := c.QueryParam("featured"); featured != "" {
		switch featured {
		case "true":
			query["featured"] = true
		case "false":
			query["featured"] = false
		}
	}

	page := 1
	limit := 24
	if p := c.QueryParam("page"); p != "" {
		if num, err := strconv.Atoi(p); err == nil && num > 0 {
			page = num
		}
	}
	if l := c.QueryParam("limit"); l != "" {
		if num, err := strconv.Atoi(l); err == nil && num > 0 && num <= 100 {
			limit = num
		}
	}
	skip := (page - 1) * limit

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	properties, err := pc.find(ctx, query, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch properties"})
	}

	utils.SetCached(ctx, cacheKey, properties, propertyCacheTTL)
	return c.JSON(http.StatusOK, properties)
}

// GetPropertyBySlug resolves a public /properties/:slug URL. Only active
// properties are visible; a miss is a plain 404. Each hit increments the
// view counter atomically.
func (pc *PropertyController) GetPropertyBySlug(c echo.Context) error {
	slug := c.Param("slug")

	var property models.Property
	err := pc.collection.FindOneAndUpdate(
		c.Request().Context(),
		bson.M{"slug": slug, "status": models.PropertyStatusActive},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}
	return c.JSON(http.StatusOK, property)
}

// AdminListProperties returns every property including drafts, newest first.
func (pc *PropertyController) AdminListProperties(c echo.Context) error {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	properties, err := pc.find(c.Request().Context(), bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch properties"})
	}
	return c.JSON(http.StatusOK, properties)
}

func (pc *PropertyController) AdminGetProperty(c echo.Context) error {
	id := c.Param("id")
	var property models.Property
	err := pc.collection.FindOne(c.Request().Context(), bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}
	return c.JSON(http.StatusOK, property)
}

// CreateProperty inserts a new listing. The slug is derived from the title
// exactly once here and never recomputed on later edits.
func (pc *PropertyController) CreateProperty(c echo.Context) error {
	var property models.Property
	if err := c.Bind(&property); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if property.Title == "" || property.Location == "" || property.Type == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title, location and type are required"})
	}
	if property.Status == "" {
		property.Status = models.PropertyStatusActive
	}
	if !models.IsValidPropertyStatus(property.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status"})
	}

	ctx := c.Request().Context()
	property.ID = uuid.NewString()
	property.Slug = utils.UniqueSlug(property.Title, func(s string) bool {
		count, err := pc.collection.CountDocuments(ctx, bson.M{"slug": s})
		return err != nil || count > 0
	})
	property.Views = 0
	property.CreatedAt = time.Now()
	property.UpdatedAt = time.Now()

	if _, err := pc.collection.InsertOne(ctx, property); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create property"})
	}
	return c.JSON(http.StatusCreated, property)
}

// UpdateProperty edits a listing in place. Slug, views and creation time
// are immutable here.
func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	var existing models.Property
	err := pc.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}

	var update models.Property
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if update.Status != "" && !models.IsValidPropertyStatus(update.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status"})
	}
	if update.Status == "" {
		update.Status = existing.Status
	}

	updateDoc := bson.M{
		"title":       update.Title,
		"price":       update.Price,
		"location":    update.Location,
		"type":        update.Type,
		"bedrooms":    update.Bedrooms,
		"bathrooms":   update.Bathrooms,
		"area":        update.Area,
		"yearBuilt":   update.YearBuilt,
		"description": update.Description,
		"images":      update.Images,
		"amenities":   update.Amenities,
		"featured":    update.Featured,
		"status":      update.Status,
		"updatedAt":   time.Now(),
	}
	if _, err := pc.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateDoc}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update property"})
	}

	var updated models.Property
	if err := pc.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch updated property"})
	}
	return c.JSON(http.StatusOK, updated)
}

func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	id := c.Param("id")
	result, err := pc.collection.DeleteOne(c.Request().Context(), bson.M{"_id": id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete property"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Property deleted successfully"})
}

func (pc *PropertyController) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Property, error) {
	cursor, err := pc.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	for cursor.Next(ctx) {
		var property models.Property
		if err := cursor.Decode(&property); err != nil {
			continue
		}
		properties = append(properties, property)
	}
	return properties, nil
}
