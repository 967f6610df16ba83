package v1

import (
	"github.com/SahilDudhatWork/Synthia.AI/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func registerImages(r fiber.Router, svc Services) {
	h := handlers.NewImageHandler(svc.Images, svc.Generator)

	r.Post("/storeImage", h.StoreImage)
	r.Post("/saveGeneratedImage", h.SaveGeneratedImage)
	r.Post("/generateImage", h.GenerateImage)
}
