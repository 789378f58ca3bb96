package middleware

import (
	"fmt"
	"log"
	"os"

	"faceattend_v1/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DBConn *gorm.DB
	DBErr  error
)

// GetEnv returns the value of an environment variable, or the fallback
// when the variable is unset. godotenv has already loaded .env by the
// time handlers run (see auth.go init).
func GetEnv(key string, fallback ...string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

// ConnectDB initializes the connection to the PostgreSQL database using
// environment variables for configuration and assigns the connection
// to the global variable DBConn. It returns true if there was an error
// establishing the connection, otherwise false.
func ConnectDB() bool {
	dns := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s TimeZone=%s",
		GetEnv("DB_HOST", "localhost"), GetEnv("DB_PORT", "5432"), GetEnv("DB_NAME"),
		GetEnv("DB_UNME"), GetEnv("DB_PWRD"), GetEnv("DB_SSLM", "disable"),
		GetEnv("DB_TMEZ", "UTC"))

	DBConn, DBErr = gorm.Open(postgres.Open(dns), &gorm.Config{})
	if DBErr != nil {
		log.Println("Failed to connect to database:", DBErr)
		return true
	}

	MigrateDB()

	return false
}

func MigrateDB() {
	if DBConn == nil {
		log.Fatal("Database connection is not initialized")
		return
	}

	err := DBConn.AutoMigrate(
		&model.User{},
		&model.Department{},
		&model.Employee{},
		&model.Attendance{},
		&model.LeaveRequest{},
	)
	if err != nil {
		log.Fatal("Migration failed:", err)
	} else {
		fmt.Println("Database migration completed successfully!")
	}
}
