package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/auth"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/uploads"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/workflow"
	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"
	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ImageStore is the upload pipeline. *uploads.Pipeline satisfies it.
type ImageStore interface {
	Save(ctx context.Context, req uploads.Request) (*models.Image, error)
	SaveAll(ctx context.Context, reqs []uploads.Request) ([]*models.Image, error)
	SaveRemote(ctx context.Context, req uploads.RemoteRequest) (*models.Image, error)
}

// ImageGenerator renders an image for a prompt. *libraries.ImagenGenerator
// satisfies it.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, string, error)
}

type ImageHandler struct {
	store     ImageStore
	generator ImageGenerator
}

// NewImageHandler builds the handler. generator may be nil when image
// generation is not configured.
func NewImageHandler(store ImageStore, generator ImageGenerator) *ImageHandler {
	return &ImageHandler{store: store, generator: generator}
}

func uploadStatus(err error) int {
	var verr *uploads.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, uploads.ErrUpload), errors.Is(err, uploads.ErrMetadata):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func uploadError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

type imageIDs struct {
	userID      uuid.UUID
	workspaceID uuid.UUID
	chatID      *uuid.UUID
}

func parseImageIDs(userID, workspaceID, chatID string) (imageIDs, error) {
	var ids imageIDs
	if userID == "" || workspaceID == "" {
		return ids, fmt.Errorf("userId and workspaceId are required")
	}
	var err error
	if ids.userID, err = uuid.Parse(userID); err != nil {
		return ids, fmt.Errorf("invalid userId")
	}
	if ids.workspaceID, err = uuid.Parse(workspaceID); err != nil {
		return ids, fmt.Errorf("invalid workspaceId")
	}
	if chatID != "" && chatID != workflow.NewChatID {
		id, err := uuid.Parse(chatID)
		if err != nil {
			return ids, fmt.Errorf("invalid chatId")
		}
		ids.chatID = &id
	}
	return ids, nil
}

func readFormFile(fh *multipart.FileHeader) (uploads.File, error) {
	f, err := fh.Open()
	if err != nil {
		return uploads.File{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return uploads.File{}, err
	}

	name := fh.Filename
	if name == "" {
		name = fmt.Sprintf("upload-%d", time.Now().UnixMilli())
	}
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return uploads.File{Name: name, Data: data, MimeType: mimeType}, nil
}

// StoreImage takes a multipart form with userId, workspaceId, optional
// chatId and one or more "file" parts.
func (h *ImageHandler) StoreImage(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return uploadError(c, fiber.StatusBadRequest, "Invalid form data")
	}

	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	ids, err := parseImageIDs(value("userId"), value("workspaceId"), value("chatId"))
	if err != nil {
		return uploadError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := auth.CheckUser(c, ids.userID.String()); err != nil {
		return uploadError(c, fiber.StatusForbidden, err.Error())
	}

	files := form.File["file"]
	if len(files) == 0 {
		return uploadError(c, fiber.StatusBadRequest, "file is required")
	}

	reqs := make([]uploads.Request, 0, len(files))
	for _, fh := range files {
		file, err := readFormFile(fh)
		if err != nil {
			return uploadError(c, fiber.StatusBadRequest, "uploaded file could not be read")
		}
		reqs = append(reqs, uploads.Request{
			UserID:      ids.userID,
			WorkspaceID: ids.workspaceID,
			ChatID:      ids.chatID,
			File:        file,
		})
	}

	if len(reqs) == 1 {
		image, err := h.store.Save(c.UserContext(), reqs[0])
		if err != nil {
			return uploadError(c, uploadStatus(err), workflow.FriendlyError(err))
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"image":   image,
		})
	}

	images, err := h.store.SaveAll(c.UserContext(), reqs)
	if err != nil {
		return c.Status(uploadStatus(err)).JSON(fiber.Map{
			"success": false,
			"error":   workflow.FriendlyError(err),
			"images":  images,
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"images":  images,
	})
}

// SaveGeneratedImage copies an externally hosted image into the bucket.
func (h *ImageHandler) SaveGeneratedImage(c *fiber.Ctx) error {
	var dto struct {
		ImageURL    string `json:"imageUrl"`
		UserID      string `json:"userId"`
		WorkspaceID string `json:"workspaceId"`
		ChatID      string `json:"chatId"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return uploadError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if dto.ImageURL == "" || dto.UserID == "" || dto.WorkspaceID == "" {
		return uploadError(c, fiber.StatusBadRequest, "Missing required fields: imageUrl, userId, and workspaceId are required")
	}
	ids, err := parseImageIDs(dto.UserID, dto.WorkspaceID, dto.ChatID)
	if err != nil {
		return uploadError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := auth.CheckUser(c, ids.userID.String()); err != nil {
		return uploadError(c, fiber.StatusForbidden, err.Error())
	}

	image, err := h.store.SaveRemote(c.UserContext(), uploads.RemoteRequest{
		ImageURL:    dto.ImageURL,
		UserID:      ids.userID,
		WorkspaceID: ids.workspaceID,
		ChatID:      ids.chatID,
	})
	if err != nil {
		logger.Log.WithError(err).Warn("saveGeneratedImage failed")
		var verr *uploads.ValidationError
		status := fiber.StatusInternalServerError
		if errors.As(err, &verr) {
			status = fiber.StatusBadRequest
		}
		return uploadError(c, status, workflow.FriendlyError(err))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"url":     image.URL,
		"imageId": image.ID,
	})
}

// GenerateImage renders an image with Imagen and stores it like an upload.
func (h *ImageHandler) GenerateImage(c *fiber.Ctx) error {
	if h.generator == nil {
		return uploadError(c, fiber.StatusServiceUnavailable, "image generation is not configured")
	}

	var dto struct {
		Prompt      string `json:"prompt"`
		UserID      string `json:"userId"`
		WorkspaceID string `json:"workspaceId"`
		ChatID      string `json:"chatId"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return uploadError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(dto.Prompt) == "" {
		return uploadError(c, fiber.StatusBadRequest, "prompt is required")
	}
	ids, err := parseImageIDs(dto.UserID, dto.WorkspaceID, dto.ChatID)
	if err != nil {
		return uploadError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := auth.CheckUser(c, ids.userID.String()); err != nil {
		return uploadError(c, fiber.StatusForbidden, err.Error())
	}

	data, mimeType, err := h.generator.Generate(c.UserContext(), dto.Prompt)
	if err != nil {
		logger.Log.WithError(err).Error("image generation failed")
		return uploadError(c, fiber.StatusBadGateway, workflow.FriendlyError(err))
	}

	ext, ok := uploads.ImageExtension(mimeType)
	if !ok {
		ext = "png"
	}
	image, err := h.store.Save(c.UserContext(), uploads.Request{
		UserID:      ids.userID,
		WorkspaceID: ids.workspaceID,
		ChatID:      ids.chatID,
		File: uploads.File{
			Name:     fmt.Sprintf("generated-%d.%s", time.Now().UnixMilli(), ext),
			Data:     data,
			MimeType: mimeType,
		},
	})
	if err != nil {
		return uploadError(c, uploadStatus(err), workflow.FriendlyError(err))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"url":     image.URL,
		"imageId": image.ID,
	})
}
