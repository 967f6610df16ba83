package repo

import (
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepo struct {
	db *gorm.DB
}

// ChatFilter selects the chats of one user with one persona in one workspace.
type ChatFilter struct {
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
	AIModelID   uuid.UUID
}

type ChatRepoInterface interface {
	CreateChat(chat *models.Chat) error
	GetChat(id uuid.UUID) (*models.Chat, error)
	ListChats(filter ChatFilter, page int, pageSize int, fields ...string) ([]models.Chat, int64, error)
	RenameChat(id uuid.UUID, title string) error
	DeleteChat(id uuid.UUID) error
	CreateMessage(message *models.Message) error
	ListMessages(chatID uuid.UUID, limit int) ([]models.Message, error)
}

func NewChatRepository(db *gorm.DB) ChatRepoInterface {
	return &ChatRepo{db: db}
}

func (r *ChatRepo) CreateChat(chat *models.Chat) error {
	if chat.ID == uuid.Nil {
		chat.ID = uuid.New()
	}
	chat.CreatedAt = time.Now()
	chat.UpdatedAt = time.Now()
	return r.db.Create(chat).Error
}

func (r *ChatRepo) GetChat(id uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.Where("id = ?", id).First(&chat).Error; err != nil {
		return nil, notFound(err, "get chat")
	}
	return &chat, nil
}

// signature returns chats, totalCount, error
func (r *ChatRepo) ListChats(filter ChatFilter, page int, pageSize int, fields ...string) ([]models.Chat, int64, error) {
	var chats []models.Chat
	var total int64

	// sane defaults + cap
	if page < 1 {
		page = 1
	}
	const DefaultPageSize = 50
	const MaxPageSize = 200
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := (page - 1) * pageSize

	base := r.db.Model(&models.Chat{}).
		Where("user_id = ? AND workspace_id = ?", filter.UserID, filter.WorkspaceID)
	if filter.AIModelID != uuid.Nil {
		base = base.Where("ai_model_id = ?", filter.AIModelID)
	}

	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base
	if len(fields) > 0 {
		query = query.Select(fields)
	}

	if err := query.Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&chats).Error; err != nil {
		return nil, 0, err
	}

	return chats, total, nil
}

func (r *ChatRepo) RenameChat(id uuid.UUID, title string) error {
	result := r.db.Model(&models.Chat{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":      title,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "rename chat")
	}
	return nil
}

// DeleteChat removes the chat's messages and then the chat itself.
func (r *ChatRepo) DeleteChat(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Chat{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "delete chat")
		}
		return nil
	})
}

func (r *ChatRepo) CreateMessage(message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	message.CreatedAt = time.Now()
	return r.db.Create(message).Error
}

// ListMessages returns a chat's messages oldest first.
func (r *ChatRepo) ListMessages(chatID uuid.UUID, limit int) ([]models.Message, error) {
	var messages []models.Message

	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	err := r.db.Where("chat_id = ?", chatID).
		Order("created_at asc").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
