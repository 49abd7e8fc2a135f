package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aliblock43/point-property-hub/config"
	"github.com/aliblock43/point-property-hub/feed"
	"github.com/aliblock43/point-property-hub/models"
)

type MessageController struct {
	collection *mongo.Collection
}

func NewMessageController() *MessageController {
	return &MessageController{
		collection: config.GetCollection(feed.CollectionMessages),
	}
}

// CreateMessage accepts an anonymous contact form submission. This is the
// only public write in the system: insert only, no public read or update.
func (mc *MessageController) CreateMessage(c echo.Context) error {
	var message models.ContactMessage
	if err := c.Bind(&message); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	message.Name = strings.TrimSpace(message.Name)
	message.Email = strings.TrimSpace(message.Email)
	message.Subject = strings.TrimSpace(message.Subject)
	if message.Name == "" || message.Email == "" || message.Subject == "" || message.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name, email, subject and message are required"})
	}
	if !strings.Contains(message.Email, "@") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid email address"})
	}
	if message.InquiryType == "" {
		message.InquiryType = "general"
	}
	if !models.IsValidInquiryType(message.InquiryType) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid inquiry type"})
	}

	message.ID = uuid.NewString()
	message.Status = models.MessageStatusUnread
	message.CreatedAt = time.Now()

	if _, err := mc.collection.InsertOne(c.Request().Context(), message); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to send message"})
	}
	return c.JSON(http.StatusCreated, message)
}

// AdminListMessages returns every message, newest first.
func (mc *MessageController) AdminListMessages(c echo.Context) error {
	ctx := c.Request().Context()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := mc.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch messages"})
	}
	defer cursor.Close(ctx)

	messages := []models.ContactMessage{}
	for cursor.Next(ctx) {
		var message models.ContactMessage
		if err := cursor.Decode(&message); err != nil {
			continue
		}
		messages = append(messages, message)
	}
	return c.JSON(http.StatusOK, messages)
}

// MarkMessageRead performs the only status transition a message has:
// unread to read. Marking an already-read message again is a no-op.
func (mc *MessageController) MarkMessageRead(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	result, err := mc.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.MessageStatusUnread},
		bson.M{"$set": bson.M{"status": models.MessageStatusRead}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update message"})
	}
	if result.MatchedCount == 0 {
		// either unknown id or already read; distinguish for the caller
		count, err := mc.collection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update message"})
		}
		if count == 0 {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Message not found"})
		}
	}

	var message models.ContactMessage
	if err := mc.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&message); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch message"})
	}
	return c.JSON(http.StatusOK, message)
}

func (mc *MessageController) DeleteMessage(c echo.Context) error {
	id := c.Param("id")
	result, err := mc.collection.DeleteOne(c.Request().Context(), bson.M{"_id": id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete message"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Message not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Message deleted successfully"})
}
