package authController

import (
	"fmt"
	"strings"

	"coursebox/config"
	"coursebox/logger"
	"coursebox/middleware"
	"coursebox/models"
	authValidator "coursebox/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Controller serves registration and login.
type Controller struct {
	DB  *gorm.DB
	Log *logger.Logger
}

func NewController(db *gorm.DB, log *logger.Logger) *Controller {
	return &Controller{DB: db, Log: log}
}

// Register handles POST /users/register.
func (ctl *Controller) Register(c *fiber.Ctx) error {
	reqData := c.Locals("registerRequest").(*authValidator.RegisterRequest)

	// Check if email already exists
	if err := ctl.DB.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, "Email is already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		ctl.Log.Error("failed to hash password", "error", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to register user")
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     reqData.Role,
	}

	if err := ctl.DB.Create(&newUser).Error; err != nil {
		ctl.Log.Error("failed to save user", "error", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to register user")
	}

	return middleware.MessageResponse(c, fiber.StatusCreated, "User registered successfully")
}

// Login handles POST /users/login.
func (ctl *Controller) Login(c *fiber.Ctx) error {
	reqData := c.Locals("loginRequest").(*authValidator.LoginRequest)

	var user models.User
	if err := ctl.DB.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Incorrect email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Incorrect email or password")
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		ctl.Log.Error("failed to sign token", "userId", user.ID, "error", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to log in")
	}

	// Clean response
	user.Password = ""

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Authenticate handles POST /users/auth: it resolves a Bearer token back to
// the stored user so the client can restore a session.
func (ctl *Controller) Authenticate(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "No token provided")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token")
	}
	userID := uint(claims["userId"].(float64))

	var user models.User
	if err := ctl.DB.First(&user, userID).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token")
	}

	user.Password = ""

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}
