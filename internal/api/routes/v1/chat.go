package v1

import (
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/workflow"
	"github.com/SahilDudhatWork/Synthia.AI/internal/handlers"
	"github.com/SahilDudhatWork/Synthia.AI/internal/libraries"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var hub *libraries.Hub

func init() {
	// Initialize the Hub once
	hub = libraries.NewHub()
	// Start the Hub in a goroutine
	go hub.Run()
}

func newWorkflow(db *gorm.DB, svc Services) *workflow.Workflow {
	return workflow.NewWorkflow(
		repo.NewChatRepository(db),
		repo.NewWorkspaceRepository(db),
		repo.NewAIModelRepository(db),
		svc.Agent,
		svc.Images,
	)
}

func registerChat(r fiber.Router, db *gorm.DB, svc Services) {
	chatRepo := repo.NewChatRepository(db)
	wf := newWorkflow(db, svc)
	chatHandler := handlers.NewChatHandler(chatRepo, wf)
	aiHandler := handlers.NewAIHandler(wf)

	r.Post("/ai", aiHandler.Generate)

	r.Post("/chats/messages", chatHandler.SendMessage)
	r.Get("/chats", chatHandler.ListChats)
	r.Get("/chats/:chatId/messages", chatHandler.ListMessages)
	r.Patch("/chats/:chatId", chatHandler.RenameChat)
	r.Delete("/chats/:chatId", chatHandler.DeleteChat)

	// Use the Hub-based WebSocket handler
	r.Get("/ws", libraries.WebSocketHandler(hub, wf))
}
