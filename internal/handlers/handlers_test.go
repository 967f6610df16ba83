package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/onboarding"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/uploads"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/workflow"
	"github.com/SahilDudhatWork/Synthia.AI/internal/models"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode, decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return out
}

func TestAIModelHandler(t *testing.T) {
	db := newTestDB(t)
	aiModels := repo.NewAIModelRepository(db)
	h := NewAIModelHandler(aiModels, onboarding.NewWizard(repo.NewWorkspaceRepository(db), aiModels))

	app := fiber.New()
	app.Post("/ai-models", h.CreateAIModel)
	app.Get("/ai-models", h.ListAIModels)
	app.Get("/ai-models/:id", h.GetAIModel)
	app.Post("/ai-models/complete", h.CompleteAIModel)

	workspaceID := uuid.NewString()

	status, body := doJSON(t, app, "POST", "/ai-models", map[string]interface{}{"name": "Luna", "role": "Romantic Companion"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Name, role, and personality are required", body["error"])

	status, body = doJSON(t, app, "POST", "/ai-models", map[string]interface{}{
		"workspace_id": workspaceID, "name": "Luna", "role": "Romantic Companion", "personality": "caring",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["is_active"])
	assert.Equal(t, []interface{}{}, body["topics"])

	status, body = doJSON(t, app, "GET", "/ai-models/"+body["id"].(string)+"?workspaceId="+workspaceID, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Luna", body["name"])

	status, _ = doJSON(t, app, "GET", "/ai-models/"+uuid.NewString()+"?workspaceId="+workspaceID, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = doJSON(t, app, "POST", "/ai-models/complete", map[string]interface{}{
		"workspaceId": workspaceID, "modelName": "Nova", "modelRole": "Travel Buddy", "modelPersonality": []string{"adventurous"},
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, false, body["predefined"])

	status, body = doJSON(t, app, "POST", "/ai-models/complete", map[string]interface{}{"workspaceId": workspaceID, "modelName": "Nova"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Model name and role are required", body["error"])

	status, body = doJSON(t, app, "GET", "/ai-models?workspaceId="+workspaceID, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["models"], 2)
}

type fakeSender struct {
	SendMessageFunc func(req workflow.SendMessageRequest) (*workflow.SendMessageResult, error)
}

func (f *fakeSender) SendMessage(_ context.Context, req workflow.SendMessageRequest) (*workflow.SendMessageResult, error) {
	return f.SendMessageFunc(req)
}

func TestChatHandler(t *testing.T) {
	db := newTestDB(t)
	chats := repo.NewChatRepository(db)
	sender := &fakeSender{SendMessageFunc: func(req workflow.SendMessageRequest) (*workflow.SendMessageResult, error) {
		chat := &models.Chat{UserID: req.UserID, WorkspaceID: req.WorkspaceID, AIModelID: req.AIModelID, Title: workflow.ChatTitle(req.Message)}
		if err := chats.CreateChat(chat); err != nil {
			return nil, err
		}
		msg := &models.Message{ChatID: chat.ID, Prompt: req.Message, Response: "hey"}
		return &workflow.SendMessageResult{ChatID: chat.ID, Message: msg}, nil
	}}
	h := NewChatHandler(chats, sender)

	app := fiber.New()
	app.Post("/chats/messages", h.SendMessage)
	app.Get("/chats", h.ListChats)
	app.Patch("/chats/:chatId", h.RenameChat)
	app.Delete("/chats/:chatId", h.DeleteChat)

	userID, workspaceID, aiModelID := uuid.NewString(), uuid.NewString(), uuid.NewString()

	status, body := doJSON(t, app, "POST", "/chats/messages", map[string]interface{}{
		"message": "Hello", "userId": userID, "workspaceId": workspaceID, "AIModelId": aiModelID, "chatId": "new",
	})
	require.Equal(t, fiber.StatusOK, status)
	chatID := body["chatId"].(string)

	status, _ = doJSON(t, app, "POST", "/chats/messages", map[string]interface{}{"message": "Hello", "userId": "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = doJSON(t, app, "GET", "/chats?userId="+userID+"&workspaceId="+workspaceID+"&AIModelId="+aiModelID, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])
	groups := body["groups"].([]interface{})
	require.Len(t, groups, 1)
	assert.Equal(t, "Today", groups[0].(map[string]interface{})["label"])

	status, _ = doJSON(t, app, "PATCH", "/chats/"+chatID, map[string]interface{}{"title": "   "})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = doJSON(t, app, "PATCH", "/chats/"+chatID, map[string]interface{}{"title": " Renamed "})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Renamed", body["title"])

	status, _ = doJSON(t, app, "DELETE", "/chats/"+chatID, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = doJSON(t, app, "DELETE", "/chats/"+chatID, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestChatHandler_SendMessageErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"chat create", workflow.ErrChatCreate, fiber.StatusInternalServerError, "failed to create chat"},
		{"foreign chat", workflow.ErrChatNotOwned, fiber.StatusForbidden, "chat does not belong to this user and workspace"},
		{"unknown chat", fmt.Errorf("get chat: %w", repo.ErrNotFound), fiber.StatusNotFound, "get chat: record not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewChatHandler(nil, &fakeSender{SendMessageFunc: func(workflow.SendMessageRequest) (*workflow.SendMessageResult, error) {
				return nil, tc.err
			}})
			app := fiber.New()
			app.Post("/chats/messages", h.SendMessage)

			status, body := doJSON(t, app, "POST", "/chats/messages", map[string]interface{}{
				"message": "Hello", "userId": uuid.NewString(), "workspaceId": uuid.NewString(), "AIModelId": uuid.NewString(), "chatId": uuid.NewString(),
			})
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, body["error"])
		})
	}
}

type fakeCompletion struct {
	CompleteFunc func(workspaceID, aiModelID uuid.UUID, systemPrompt, prompt string) (string, error)
}

func (f *fakeCompletion) Complete(_ context.Context, workspaceID, aiModelID uuid.UUID, systemPrompt, prompt string) (string, error) {
	return f.CompleteFunc(workspaceID, aiModelID, systemPrompt, prompt)
}

func TestAIHandler_Generate(t *testing.T) {
	var gotModel uuid.UUID
	completion := &fakeCompletion{CompleteFunc: func(_, aiModelID uuid.UUID, _, prompt string) (string, error) {
		gotModel = aiModelID
		if prompt == "fail" {
			return "", errors.New("upstream 500")
		}
		return "hello there", nil
	}}
	app := fiber.New()
	app.Post("/ai", NewAIHandler(completion).Generate)

	t.Run("ai_model_id", func(t *testing.T) {
		modelID := uuid.New()
		status, body := doJSON(t, app, "POST", "/ai", map[string]interface{}{"prompt": "hi", "ai_model_id": modelID.String()})
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "text", body["type"])
		assert.Equal(t, "hello there", body["result"])
		assert.Equal(t, modelID, gotModel)
	})

	t.Run("AIModelId", func(t *testing.T) {
		modelID := uuid.New()
		status, _ := doJSON(t, app, "POST", "/ai", map[string]interface{}{"prompt": "hi", "AIModelId": modelID.String()})
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, modelID, gotModel)
	})

	t.Run("ai_model_id wins", func(t *testing.T) {
		modelID := uuid.New()
		status, _ := doJSON(t, app, "POST", "/ai", map[string]interface{}{
			"prompt": "hi", "ai_model_id": modelID.String(), "AIModelId": uuid.NewString(),
		})
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, modelID, gotModel)
	})

	t.Run("errors", func(t *testing.T) {
		status, body := doJSON(t, app, "POST", "/ai", map[string]interface{}{"prompt": ""})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Prompt cannot be empty", body["error"])

		status, _ = doJSON(t, app, "POST", "/ai", map[string]interface{}{"prompt": "hi", "ai_model_id": "nope"})
		assert.Equal(t, fiber.StatusBadRequest, status)

		status, body = doJSON(t, app, "POST", "/ai", map[string]interface{}{"prompt": "fail"})
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, "upstream 500", body["details"])
	})
}

type fakeImageStore struct {
	SaveFunc func(req uploads.Request) (*models.Image, error)
	saved    []uploads.Request
}

func (f *fakeImageStore) Save(_ context.Context, req uploads.Request) (*models.Image, error) {
	f.saved = append(f.saved, req)
	return f.SaveFunc(req)
}

func (f *fakeImageStore) SaveAll(ctx context.Context, reqs []uploads.Request) ([]*models.Image, error) {
	out := []*models.Image{}
	for _, r := range reqs {
		img, err := f.Save(ctx, r)
		if err != nil {
			return out, err
		}
		out = append(out, img)
	}
	return out, nil
}

func (f *fakeImageStore) SaveRemote(context.Context, uploads.RemoteRequest) (*models.Image, error) {
	return &models.Image{ID: uuid.New(), URL: "https://cdn.test/remote.png"}, nil
}

func multipartRequest(t *testing.T, fields map[string]string, fileName, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/storeImage", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestImageHandler_StoreImage(t *testing.T) {
	store := &fakeImageStore{SaveFunc: func(req uploads.Request) (*models.Image, error) {
		return &models.Image{ID: uuid.New(), URL: "https://cdn.test/a.png", FileName: req.File.Name}, nil
	}}
	app := fiber.New()
	app.Post("/storeImage", NewImageHandler(store, nil).StoreImage)
	app.Post("/generateImage", NewImageHandler(store, nil).GenerateImage)

	ids := map[string]string{"userId": uuid.NewString(), "workspaceId": uuid.NewString()}

	resp, err := app.Test(multipartRequest(t, ids, "cat.png", "image/png"), -1)
	require.NoError(t, err)
	body := decode(t, resp)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	require.Len(t, store.saved, 1)
	assert.Equal(t, "image/png", store.saved[0].File.MimeType)
	assert.Nil(t, store.saved[0].ChatID)

	resp, err = app.Test(multipartRequest(t, map[string]string{"userId": uuid.NewString()}, "cat.png", "image/png"), -1)
	require.NoError(t, err)
	body = decode(t, resp)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "userId and workspaceId are required", body["error"])

	resp, err = app.Test(multipartRequest(t, ids, "", ""), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	store.SaveFunc = func(uploads.Request) (*models.Image, error) {
		return nil, &uploads.ValidationError{Message: "unsupported file type: application/zip"}
	}
	resp, err = app.Test(multipartRequest(t, ids, "a.zip", "application/zip"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	status, _ := doJSON(t, app, "POST", "/generateImage", map[string]interface{}{"prompt": "a cat"})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestImageHandler_SaveGeneratedImage(t *testing.T) {
	app := fiber.New()
	app.Post("/saveGeneratedImage", NewImageHandler(&fakeImageStore{}, nil).SaveGeneratedImage)

	status, body := doJSON(t, app, "POST", "/saveGeneratedImage", map[string]interface{}{"imageUrl": "https://x.test/a.png"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	status, body = doJSON(t, app, "POST", "/saveGeneratedImage", map[string]interface{}{
		"imageUrl": "https://x.test/a.png", "userId": uuid.NewString(), "workspaceId": uuid.NewString(),
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "https://cdn.test/remote.png", body["url"])
}

type fakePasswords struct {
	UpdatePasswordFunc func(userID, password string) error
}

func (f *fakePasswords) UpdatePassword(_ context.Context, userID, password string) error {
	return f.UpdatePasswordFunc(userID, password)
}

type fakeCheckout struct {
	email string
}

func (f *fakeCheckout) CustomerEmail(context.Context, string) (string, error) {
	return f.email, nil
}

func TestUserHandler(t *testing.T) {
	db := newTestDB(t)
	users := repo.NewUserRepository(db)
	user := &models.User{Email: "alex@example.com", Name: "Alex"}
	require.NoError(t, users.Upsert(user))
	require.NoError(t, db.Create(&models.AppUser{ID: uuid.New(), Email: "alex@example.com", Plan: "pro"}).Error)

	var setFor string
	passwords := &fakePasswords{UpdatePasswordFunc: func(userID, _ string) error {
		setFor = userID
		return nil
	}}
	checkout := &fakeCheckout{email: "alex@example.com"}
	h := NewUserHandler(users, repo.NewAppUserRepository(db), passwords, checkout)

	app := fiber.New()
	app.Put("/users/:userId", h.UpdateUser)
	app.Post("/create-user-password", h.CreateUserPassword)
	app.Get("/checkout-session", h.CheckoutSession)

	status, body := doJSON(t, app, "PUT", "/users/"+user.ID.String(), map[string]interface{}{"timezone": "Europe/Berlin"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Europe/Berlin", body["timezone"])
	assert.Equal(t, "Alex", body["name"])

	status, _ = doJSON(t, app, "POST", "/create-user-password", map[string]interface{}{"email": "alex@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "POST", "/create-user-password", map[string]interface{}{"email": "nobody@example.com", "password": "pw123456"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = doJSON(t, app, "POST", "/create-user-password", map[string]interface{}{"email": "alex@example.com", "password": "pw123456"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, user.ID.String(), setFor)

	status, body = doJSON(t, app, "GET", "/checkout-session?session_id=cs_test_1", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alex@example.com", body["email"])
	assert.Equal(t, "pro", body["user"].(map[string]interface{})["plan"])

	checkout.email = ""
	status, body = doJSON(t, app, "GET", "/checkout-session?session_id=cs_test_2", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No email found", body["error"])
}

func TestWorkspaceHandler_Steps(t *testing.T) {
	db := newTestDB(t)
	workspaces := repo.NewWorkspaceRepository(db)
	h := NewWorkspaceHandler(workspaces, onboarding.NewWizard(workspaces, repo.NewAIModelRepository(db)))

	app := fiber.New()
	app.Post("/workspaces", h.CreateWorkspace)
	app.Get("/workspaces", h.GetWorkspace)
	app.Post("/workspaces/steps/:step", h.SubmitStep)

	userID := uuid.NewString()

	status, body := doJSON(t, app, "GET", "/workspaces?userId="+userID, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["resume_step"])
	assert.Nil(t, body["workspace"])

	status, body = doJSON(t, app, "POST", "/workspaces", map[string]interface{}{"userId": userID, "name": "  "})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = doJSON(t, app, "POST", "/workspaces", map[string]interface{}{"userId": userID, "name": "Alex"})
	require.Equal(t, fiber.StatusCreated, status)
	workspaceID := body["workspace"].(map[string]interface{})["id"].(string)

	status, body = doJSON(t, app, "POST", "/workspaces/steps/2", map[string]interface{}{
		"workspaceId": workspaceID, "preferred_communication": []string{"chat"}, "privacy_level": "low",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 3, body["current_step"])

	status, _ = doJSON(t, app, "POST", "/workspaces/steps/2", map[string]interface{}{
		"workspaceId": workspaceID, "privacy_level": "public",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = doJSON(t, app, "GET", "/workspaces?userId="+userID, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 3, body["resume_step"])
}
