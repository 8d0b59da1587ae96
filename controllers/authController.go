package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/shopkart-dev/shopkart-api/middlewares"
	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	// Standard response messages
	msgInvalidInput          = "invalid input"
	msgAllFieldsRequired     = "All fields are required"
	msgAlreadyRegistered     = "Already registered, please login"
	msgInvalidCredentials    = "Invalid email or password"
	msgWrongSecurityAnswer   = "Wrong email or security answer"
	msgFailedToHashPassword  = "failed to hash password"
	msgFailedToGenerateToken = "failed to generate token"
	msgInternalServerError   = "Internal server error"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"success": false, "message": message})
}

// currentUserID reads the authenticated user id set by RequireAuth.
func currentUserID(ctx *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(ctx.GetString(middlewares.ContextUserID))
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return primitive.NilObjectID, false
	}
	return id, true
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

type AuthController struct {
	users     repositories.UserRepository
	jwtSecret []byte
	logger    zerolog.Logger
}

func NewAuthController(users repositories.UserRepository, jwtSecret []byte, logger zerolog.Logger) *AuthController {
	return &AuthController{users: users, jwtSecret: jwtSecret, logger: logger}
}

func (c *AuthController) generateJWT(user *models.User) (string, error) {
	claims := middlewares.Claims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.jwtSecret)
}

// Register handles user registration.
func (c *AuthController) Register(ctx *gin.Context) {
	var registerData models.RegisterData
	if err := ctx.ShouldBindJSON(&registerData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if registerData.Name == "" || registerData.Email == "" || registerData.Password == "" ||
		registerData.Phone == "" || registerData.Address == "" || registerData.Answer == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, msgAllFieldsRequired)
		return
	}

	if _, err := c.users.FindByEmail(ctx.Request.Context(), registerData.Email); err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgAlreadyRegistered)
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		c.logger.Error().Err(err).Msg("Database error during user check")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	hashedPassword, err := hashPassword(registerData.Password)
	if err != nil {
		c.logger.Error().Err(err).Msg("Password hashing error")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	user := models.User{
		Name:     registerData.Name,
		Email:    registerData.Email,
		Password: hashedPassword,
		Phone:    registerData.Phone,
		Address:  registerData.Address,
		Answer:   registerData.Answer,
		Role:     models.RoleCustomer,
	}
	if err := c.users.Create(ctx.Request.Context(), &user); err != nil {
		c.logger.Error().Err(err).Msg("User creation error")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles user authentication.
func (c *AuthController) Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := c.users.FindByEmail(ctx.Request.Context(), loginData.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	tokenString, err := c.generateJWT(user)
	if err != nil {
		c.logger.Error().Err(err).Msg("JWT generation error")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user,
		"token":   tokenString,
	})
}

// ForgotPassword resets a password after verifying the security answer.
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var body struct {
		Email       string `json:"email"`
		Answer      string `json:"answer"`
		NewPassword string `json:"newPassword"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if body.Email == "" || body.Answer == "" || body.NewPassword == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, msgAllFieldsRequired)
		return
	}

	user, err := c.users.FindByEmail(ctx.Request.Context(), body.Email)
	if err != nil || user.Answer != body.Answer {
		sendErrorResponse(ctx, http.StatusNotFound, msgWrongSecurityAnswer)
		return
	}

	hashedPassword, err := hashPassword(body.NewPassword)
	if err != nil {
		c.logger.Error().Err(err).Msg("Password hashing error")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	user.Password = hashedPassword
	if err := c.users.Update(ctx.Request.Context(), user); err != nil {
		c.logger.Error().Err(err).Msg("Password reset error")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully",
	})
}

// UpdateProfile applies partial updates to the authenticated user.
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var body struct {
		Name     string `json:"name"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := c.users.FindByID(ctx.Request.Context(), userID)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "User not found")
		return
	}

	if body.Name != "" {
		user.Name = body.Name
	}
	if body.Phone != "" {
		user.Phone = body.Phone
	}
	if body.Address != "" {
		user.Address = body.Address
	}
	if body.Password != "" && len(body.Password) < 6 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}
	if body.Password != "" {
		hashedPassword, err := hashPassword(body.Password)
		if err != nil {
			c.logger.Error().Err(err).Msg("Password hashing error")
			sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
			return
		}
		user.Password = hashedPassword
	}

	if err := c.users.Update(ctx.Request.Context(), user); err != nil {
		c.logger.Error().Err(err).Msg("Profile update error")
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":     true,
		"message":     "Profile updated successfully",
		"updatedUser": user,
	})
}
