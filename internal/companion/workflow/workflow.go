package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/prompts"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/uploads"
	"github.com/SahilDudhatWork/Synthia.AI/internal/libraries"
	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"
	"github.com/SahilDudhatWork/Synthia.AI/internal/models"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	NewChatID       = "new"
	DefaultTitle    = "New Chat"
	maxTitleRunes   = 50
	completionLimit = 2 * time.Minute
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrChatCreate     = errors.New("failed to create chat")
	ErrContext        = errors.New("failed to load user context")
	ErrCompletion     = errors.New("failed to generate response")
	ErrImageSave      = errors.New("failed to save generated image")
	ErrMessageInsert  = errors.New("failed to insert message")
	ErrChatNotOwned   = errors.New("chat does not belong to this user and workspace")
)

// Completer produces the persona's reply. *agents.Agent satisfies it.
type Completer interface {
	ProcessRequest(ctx context.Context, systemMessage string, message string) (string, error)
}

// ImageSaver persists generated images. *uploads.Pipeline satisfies it.
type ImageSaver interface {
	SaveRemote(ctx context.Context, req uploads.RemoteRequest) (*models.Image, error)
}

type SendMessageRequest struct {
	Message     string
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
	AIModelID   uuid.UUID
	// ChatID is an existing chat id, or empty / "new" to start a chat.
	ChatID          string
	SystemPrompt    string
	ImageGeneration bool
	ImageURL        string
	UploadedFiles   []string
}

type SendMessageResult struct {
	ChatID  uuid.UUID       `json:"chatId"`
	Message *models.Message `json:"message"`
}

type Workflow struct {
	chatRepo      repo.ChatRepoInterface
	workspaceRepo repo.WorkspaceRepoInterface
	aiModelRepo   repo.AIModelRepoInterface
	agent         Completer
	images        ImageSaver
}

func NewWorkflow(chatRepo repo.ChatRepoInterface, workspaceRepo repo.WorkspaceRepoInterface, aiModelRepo repo.AIModelRepoInterface, agent Completer, images ImageSaver) *Workflow {
	return &Workflow{
		chatRepo:      chatRepo,
		workspaceRepo: workspaceRepo,
		aiModelRepo:   aiModelRepo,
		agent:         agent,
		images:        images,
	}
}

// ChatTitle is the first 50 characters of the opening message.
func ChatTitle(message string) string {
	if strings.TrimSpace(message) == "" {
		return DefaultTitle
	}
	runes := []rune(message)
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}
	return string(runes)
}

// PromptWithFiles appends uploaded file URLs to the prompt, one per line.
func PromptWithFiles(message string, files []string) string {
	var b strings.Builder
	b.WriteString(message)
	for _, f := range files {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f)
	}
	return b.String()
}

// SendMessage runs one turn: it opens the chat if needed, gets the reply (or
// uses the supplied image) and records the message. Steps already done are
// not undone when a later one fails.
func (w *Workflow) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error) {
	if req.UserID == uuid.Nil || req.WorkspaceID == uuid.Nil || req.AIModelID == uuid.Nil {
		return nil, fmt.Errorf("%w: userId, workspaceId and AIModelId are required", ErrInvalidRequest)
	}
	prompt := PromptWithFiles(req.Message, req.UploadedFiles)
	if strings.TrimSpace(prompt) == "" && req.ImageURL == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrInvalidRequest)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id":      req.UserID,
		"workspace_id": req.WorkspaceID,
		"ai_model_id":  req.AIModelID,
	})

	chatID, err := w.resolveChat(req)
	if err != nil {
		return nil, err
	}
	log = log.WithField("chat_id", chatID)

	response := req.ImageURL
	if response == "" {
		response, err = w.reply(ctx, req, prompt, chatID)
		if err != nil {
			log.WithError(err).Error("chat turn failed")
			return nil, err
		}
	}

	message := &models.Message{
		ChatID:      chatID,
		UserID:      req.UserID,
		WorkspaceID: req.WorkspaceID,
		AIModelID:   req.AIModelID,
		Prompt:      prompt,
		Response:    response,
	}
	if err := w.chatRepo.CreateMessage(message); err != nil {
		log.WithError(err).Error("failed to insert message")
		return nil, fmt.Errorf("%w: %w", ErrMessageInsert, err)
	}

	log.WithField("message_id", message.ID).Info("chat turn completed")
	return &SendMessageResult{ChatID: chatID, Message: message}, nil
}

func (w *Workflow) resolveChat(req SendMessageRequest) (uuid.UUID, error) {
	if req.ChatID != "" && req.ChatID != NewChatID {
		id, err := uuid.Parse(req.ChatID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: invalid chatId", ErrInvalidRequest)
		}
		chat, err := w.chatRepo.GetChat(id)
		if err != nil {
			return uuid.Nil, err
		}
		if chat.UserID != req.UserID || chat.WorkspaceID != req.WorkspaceID {
			return uuid.Nil, ErrChatNotOwned
		}
		return chat.ID, nil
	}

	chat := &models.Chat{
		UserID:      req.UserID,
		WorkspaceID: req.WorkspaceID,
		AIModelID:   req.AIModelID,
		Title:       ChatTitle(req.Message),
	}
	if err := w.chatRepo.CreateChat(chat); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrChatCreate, err)
	}
	return chat.ID, nil
}

// Complete answers one prompt as the persona, with the workspace profile as
// context. It makes exactly one completion call.
func (w *Workflow) Complete(ctx context.Context, workspaceID, aiModelID uuid.UUID, systemPrompt, prompt string) (string, error) {
	system, err := w.systemMessage(workspaceID, aiModelID, systemPrompt)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, completionLimit)
	defer cancel()

	result, err := w.agent.ProcessRequest(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	return result, nil
}

// reply asks the persona and, for image generation, stores the returned image
// and answers with the stored URL.
func (w *Workflow) reply(ctx context.Context, req SendMessageRequest, prompt string, chatID uuid.UUID) (string, error) {
	result, err := w.Complete(ctx, req.WorkspaceID, req.AIModelID, req.SystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	if !req.ImageGeneration || result == "" {
		return result, nil
	}

	image, err := w.images.SaveRemote(ctx, uploads.RemoteRequest{
		ImageURL:    result,
		UserID:      req.UserID,
		WorkspaceID: req.WorkspaceID,
		ChatID:      &chatID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageSave, err)
	}
	if image == nil || image.URL == "" {
		return result, nil
	}
	return image.URL, nil
}

// systemMessage composes the workspace context with the persona prompt. The
// prompt sent by the client wins over the one stored on the persona.
func (w *Workflow) systemMessage(workspaceID, aiModelID uuid.UUID, systemPrompt string) (string, error) {
	var ws *models.Workspace
	if workspaceID != uuid.Nil {
		found, err := w.workspaceRepo.Get(repo.WorkspaceLookup{WorkspaceID: workspaceID})
		switch {
		case err == nil:
			ws = found
		case !errors.Is(err, repo.ErrNotFound):
			return "", fmt.Errorf("%w: %w", ErrContext, err)
		}
	}

	personaPrompt := systemPrompt
	if personaPrompt == "" && aiModelID != uuid.Nil && w.aiModelRepo != nil {
		model, err := w.aiModelRepo.Resolve(aiModelID, workspaceID)
		switch {
		case err == nil:
			personaPrompt = model.SystemPrompt
		case errors.Is(err, repo.ErrNotFound):
			logger.Log.WithField("ai_model_id", aiModelID).Warn("persona not visible to workspace, sending profile only")
		default:
			return "", fmt.Errorf("%w: %w", ErrContext, err)
		}
	}

	return prompts.Compose(ws, personaPrompt), nil
}

// ProcessChatMessage runs a chat turn for a websocket client.
func (w *Workflow) ProcessChatMessage(hub *libraries.Hub, client *libraries.Client, payload *libraries.ChatMessagePayload) {
	req, err := requestFromPayload(payload)
	if err != nil {
		libraries.SendErrorMessage(hub, client, err.Error())
		return
	}

	libraries.SendEventType(hub, client, libraries.WebSocketMessageTypeChatStarting)

	result, err := w.SendMessage(context.Background(), req)
	if err != nil {
		libraries.SendErrorMessage(hub, client, FriendlyError(err))
		return
	}

	libraries.SendChatMessageResponse(hub, client, libraries.WebSocketMessageTypeChatResponse, &libraries.ChatMessageResponsePayload{
		ChatID:    result.ChatID.String(),
		MessageID: result.Message.ID.String(),
		Message:   result.Message.Response,
		Data:      result.Message,
	})
	libraries.SendEventType(hub, client, libraries.WebSocketMessageTypeChatCompleted)
}

func requestFromPayload(p *libraries.ChatMessagePayload) (SendMessageRequest, error) {
	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		return SendMessageRequest{}, fmt.Errorf("invalid userId")
	}
	workspaceID, err := uuid.Parse(p.WorkspaceID)
	if err != nil {
		return SendMessageRequest{}, fmt.Errorf("invalid workspaceId")
	}
	aiModelID, err := uuid.Parse(p.AIModelID)
	if err != nil {
		return SendMessageRequest{}, fmt.Errorf("invalid AIModelId")
	}
	return SendMessageRequest{
		Message:         p.Message,
		UserID:          userID,
		WorkspaceID:     workspaceID,
		AIModelID:       aiModelID,
		ChatID:          p.ChatID,
		SystemPrompt:    p.SystemPrompt,
		ImageGeneration: p.ImageGeneration,
		ImageURL:        p.ImageURL,
		UploadedFiles:   p.UploadedFiles,
	}, nil
}
