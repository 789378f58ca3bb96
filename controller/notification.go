package controller

import (
	"context"
	"fmt"
	"log"

	"faceattend_v1/config"

	"firebase.google.com/go/messaging"
)

// SendPushNotification sends a notification to a specific employee's device
func SendPushNotification(token string, title string, body string) error {
	if config.FirebaseApp == nil {
		return fmt.Errorf("firebase is not configured")
	}

	client, err := config.FirebaseApp.Messaging(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get Firebase Messaging client: %w", err)
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Token: token,
	}

	response, err := client.Send(context.Background(), message)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	log.Printf("Successfully sent notification: %s\n", response)
	return nil
}

// NotifyByPush sends a push notification in the background. Failures
// are logged, never propagated.
func NotifyByPush(token, title, body string) {
	if token == "" {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Println("Push notification panic:", r)
			}
		}()
		if err := SendPushNotification(token, title, body); err != nil {
			log.Printf("Failed to send push notification: %v\n", err)
		}
	}()
}
