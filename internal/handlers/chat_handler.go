package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/auth"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/workflow"
	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MessageSender runs a chat turn. *workflow.Workflow satisfies it.
type MessageSender interface {
	SendMessage(ctx context.Context, req workflow.SendMessageRequest) (*workflow.SendMessageResult, error)
}

type ChatHandler struct {
	chatRepo repo.ChatRepoInterface
	sender   MessageSender
	now      func() time.Time
}

func NewChatHandler(chatRepo repo.ChatRepoInterface, sender MessageSender) *ChatHandler {
	return &ChatHandler{chatRepo: chatRepo, sender: sender, now: time.Now}
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var dto struct {
		Message         string   `json:"message"`
		UserID          string   `json:"userId"`
		WorkspaceID     string   `json:"workspaceId"`
		AIModelID       string   `json:"AIModelId"`
		ChatID          string   `json:"chatId"`
		SystemPrompt    string   `json:"systemPrompt"`
		ImageGeneration bool     `json:"isValidForImageGen"`
		ImageURL        string   `json:"imageUrl"`
		UploadedFiles   []string `json:"uploadedFiles"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}

	userID, err := uuid.Parse(dto.UserID)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	workspaceID, err := uuid.Parse(dto.WorkspaceID)
	if err != nil {
		return badRequest(c, "Invalid workspace ID")
	}
	aiModelID, err := uuid.Parse(dto.AIModelID)
	if err != nil {
		return badRequest(c, "Invalid AI model ID")
	}
	if err := auth.CheckUser(c, dto.UserID); err != nil {
		return err
	}

	result, err := h.sender.SendMessage(c.UserContext(), workflow.SendMessageRequest{
		Message:         dto.Message,
		UserID:          userID,
		WorkspaceID:     workspaceID,
		AIModelID:       aiModelID,
		ChatID:          dto.ChatID,
		SystemPrompt:    dto.SystemPrompt,
		ImageGeneration: dto.ImageGeneration,
		ImageURL:        dto.ImageURL,
		UploadedFiles:   dto.UploadedFiles,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// ListChats returns the chat history of one user with one persona, newest
// first, along with the same chats grouped by age.
func (h *ChatHandler) ListChats(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	workspaceID, err := uuid.Parse(c.Query("workspaceId"))
	if err != nil {
		return badRequest(c, "Invalid workspace ID")
	}
	aiModelID, err := parseID(c.Query("AIModelId"))
	if err != nil {
		return badRequest(c, "Invalid AI model ID")
	}
	if err := auth.CheckUser(c, userID.String()); err != nil {
		return err
	}

	chats, total, err := h.chatRepo.ListChats(repo.ChatFilter{
		UserID:      userID,
		WorkspaceID: workspaceID,
		AIModelID:   aiModelID,
	}, queryInt(c, "page", 1), queryInt(c, "pageSize", 50))
	if err != nil {
		logger.Log.WithError(err).Error("Error getting chats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get chats",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"chats":  chats,
		"total":  total,
		"groups": workflow.GroupChatsByDate(chats, h.now()),
	})
}

// ownedChat loads the chat in the route and checks it belongs to the caller.
func (h *ChatHandler) ownedChat(c *fiber.Ctx) (uuid.UUID, error) {
	chatID, err := uuid.Parse(c.Params("chatId"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid chat ID")
	}
	chat, err := h.chatRepo.GetChat(chatID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := auth.CheckUser(c, chat.UserID.String()); err != nil {
		return uuid.Nil, err
	}
	return chatID, nil
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	chatID, err := h.ownedChat(c)
	if err != nil {
		return respondError(c, err)
	}

	messages, err := h.chatRepo.ListMessages(chatID, queryInt(c, "limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"messages": messages,
	})
}

func (h *ChatHandler) RenameChat(c *fiber.Ctx) error {
	var dto struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	title := strings.TrimSpace(dto.Title)
	if title == "" {
		return badRequest(c, "Title cannot be empty")
	}

	chatID, err := h.ownedChat(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.chatRepo.RenameChat(chatID, title); err != nil {
		return respondError(c, err)
	}

	chat, err := h.chatRepo.GetChat(chatID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(chat)
}

func (h *ChatHandler) DeleteChat(c *fiber.Ctx) error {
	chatID, err := h.ownedChat(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.chatRepo.DeleteChat(chatID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Chat deleted successfully",
	})
}
