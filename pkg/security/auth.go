package security

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

// Resolved lazily so packages importing this one can be tested without a
// configured environment; signing or verifying a token still requires it.
func secretKey() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			// The server may be started before the environment is exported.
			if err := godotenv.Load(); err != nil {
				log.Printf("Warning: no .env file found while resolving JWT_SECRET: %v", err)
			}
			secret = os.Getenv("JWT_SECRET")
		}

		if secret == "" {
			log.Fatal("JWT_SECRET environment variable is not set")
		}

		jwtSecret = []byte(secret)
	})

	return jwtSecret
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id", "username", "password_hash", "role").
		From("users").
		Where(goqu.Ex{"username": username})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("unknown user %q", username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID string, role string, username string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 120).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// GetUserID resolves the authenticated caller's numeric ID from the claims the
// middleware stored on the context.
func GetUserID(c *gin.Context) (int, error) {
	raw, exists := c.Get("userID")
	if !exists {
		return 0, fmt.Errorf("no authenticated user on context")
	}

	id, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("userID claim is not a string")
	}

	userID, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("userID claim is not numeric: %w", err)
	}

	return userID, nil
}
