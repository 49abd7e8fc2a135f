package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aliblock43/point-property-hub/config"
	"github.com/aliblock43/point-property-hub/models"
	"github.com/aliblock43/point-property-hub/utils"
)

type AdminController struct {
	collection *mongo.Collection
}

func NewAdminController() *AdminController {
	collectionName := os.Getenv("MONGODB_COLLECTION_ADMINS")
	if collectionName == "" {
		collectionName = "admins"
	}
	return &AdminController{
		collection: config.GetCollection(collectionName),
	}
}

// Login exchanges admin credentials for a signed session token. Admin
// identity is verified server-side on every guarded request; there is no
// client-trusted flag anywhere.
func (ac *AdminController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	var admin models.AdminUser
	err := ac.collection.FindOne(c.Request().Context(), bson.M{"email": req.Email}).Decode(&admin)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}
	if !admin.IsActive {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Account is deactivated"})
	}
	if err := utils.CheckPassword(admin.Password, req.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}

	token, err := utils.GenerateJWT(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	admin.Password = ""
	return c.JSON(http.StatusOK, models.LoginResponse{
		Token: token,
		User:  admin,
	})
}

// Profile returns the authenticated admin.
func (ac *AdminController) Profile(c echo.Context) error {
	adminID := c.Get("admin_id").(string)

	var admin models.AdminUser
	err := ac.collection.FindOne(c.Request().Context(), bson.M{"_id": adminID}).Decode(&admin)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Admin not found"})
	}
	admin.Password = ""
	return c.JSON(http.StatusOK, admin)
}

// EnsureDefaultAdmin seeds the admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when the collection is empty, so a fresh deployment has a
// way in.
func (ac *AdminController) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := ac.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("No admin account exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set; admin login disabled")
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.AdminUser{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hashed,
		Name:      "Administrator",
		Role:      "admin",
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := ac.collection.InsertOne(ctx, admin); err != nil {
		return err
	}
	log.Printf("Seeded default admin account %s", email)
	return nil
}
