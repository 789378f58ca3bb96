package main

import (
	"log"

	"faceattend_v1/config"
	"faceattend_v1/controller"
	"faceattend_v1/facerec"
	"faceattend_v1/middleware"
	"faceattend_v1/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {
	if middleware.ConnectDB() {
		log.Fatal("Could not connect to the database")
	}

	config.InitializeFirebase()

	// FACE_MODE=simulation selects the development stub; anything else
	// runs the detector-backed recognizer.
	controller.Recognizer = facerec.Select(middleware.GetEnv("FACE_MODE"))

	app := fiber.New()
	routes.AppRoutes(app)

	port := middleware.GetEnv("PORT", "8080")
	log.Println("Server running on port", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
