package config

import (
	"context"
	"log"
	"os"

	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// FirebaseApp is a global variable for the Firebase app instance.
// It stays nil when no service account file is configured; push
// notifications are skipped in that case.
var FirebaseApp *firebase.App

// InitializeFirebase initializes the Firebase app for push notifications.
// Missing credentials are not fatal: notifications are best-effort.
func InitializeFirebase() {
	credFile := os.Getenv("FIREBASE_CREDENTIALS")
	if credFile == "" {
		credFile = "config/service-account.json"
	}

	if _, err := os.Stat(credFile); err != nil {
		log.Println("Firebase credentials not found, push notifications disabled")
		return
	}

	opt := option.WithCredentialsFile(credFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Printf("Failed to initialize Firebase: %v", err)
		return
	}

	FirebaseApp = app
	log.Println("Firebase initialized successfully!")
}
