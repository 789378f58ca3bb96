package middleware

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found")
	}
}

var (
	SecretKey      = os.Getenv("SECRET_KEY")
	tokenBlacklist = make(map[string]bool)
	mu             sync.Mutex
)

// GenerateJWT creates a JWT token carrying the user ID and role
func GenerateJWT(userID uint, role string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID
	claims["role"] = role
	claims["exp"] = time.Now().Add(time.Hour * 72).Unix() // Token expires in 72 hours

	tokenString, err := token.SignedString([]byte(SecretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT parses and validates a JWT token
func VerifyJWT(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(SecretKey), nil
	})
}

// BlacklistToken adds a JWT token to the in-memory blacklist (used on logout)
func BlacklistToken(token string) {
	mu.Lock()
	defer mu.Unlock()
	tokenBlacklist[token] = true
}

// IsTokenBlacklisted checks if the JWT is blacklisted
func IsTokenBlacklisted(token string) bool {
	mu.Lock()
	defer mu.Unlock()
	return tokenBlacklist[token]
}

// tokenFromRequest reads the JWT from the "jwt" cookie or the
// Authorization bearer header.
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies("jwt"); token != "" {
		return token
	}
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// JWTMiddleware checks for a valid JWT and sets the user ID and role in context
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c)

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: No token provided",
			})
		}

		if IsTokenBlacklisted(tokenString) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: Token has been invalidated",
			})
		}

		token, err := VerifyJWT(tokenString)
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: Invalid token",
			})
		}

		claims := token.Claims.(jwt.MapClaims)
		c.Locals("user", claims["user_id"])
		c.Locals("role", claims["role"])

		return c.Next()
	}
}

// AdminMiddleware allows only accounts with the admin role through.
// Must run after JWTMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Access denied: admin privilege required",
			})
		}
		return c.Next()
	}
}

// CurrentUserID extracts the authenticated user's ID from context.
// JWT numeric claims decode as float64.
func CurrentUserID(c *fiber.Ctx) uint {
	switch v := c.Locals("user").(type) {
	case float64:
		return uint(v)
	case uint:
		return v
	case int:
		return uint(v)
	}
	return 0
}
