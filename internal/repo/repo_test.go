package repo

import (
	"errors"
	"testing"
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
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
	// a single connection keeps the in-memory database alive for the test
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestAIModelRepo_ResolvePrefersWorkspaceScoped(t *testing.T) {
	db := newTestDB(t)
	r := NewAIModelRepository(db)
	workspaceID := uuid.New()

	global := &models.AIModel{Name: "Luna", Role: "Romantic Companion", Personality: "caring", IsActive: true}
	require.NoError(t, r.Create(global))
	scoped := &models.AIModel{WorkspaceID: &workspaceID, Name: "Luna", Role: "Romantic Companion", Personality: "playful", IsActive: true}
	require.NoError(t, r.Create(scoped))

	got, err := r.Resolve(scoped.ID, workspaceID)
	require.NoError(t, err)
	assert.Equal(t, scoped.ID, got.ID)

	got, err = r.Resolve(global.ID, workspaceID)
	require.NoError(t, err)
	assert.True(t, got.IsGlobal())

	list, err := r.ListForWorkspace(workspaceID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, scoped.ID, list[0].ID)
	assert.Equal(t, "playful", list[0].Personality)
}

func TestAIModelRepo_ResolveHidesOtherWorkspaces(t *testing.T) {
	db := newTestDB(t)
	r := NewAIModelRepository(db)
	owner := uuid.New()

	m := &models.AIModel{WorkspaceID: &owner, Name: "Maya", Role: "Best Friend", Personality: "humorous", IsActive: true}
	require.NoError(t, r.Create(m))

	_, err := r.Resolve(m.ID, uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPreferWorkspaceScoped(t *testing.T) {
	workspaceID := uuid.New()
	other := uuid.New()
	globalRow := models.AIModel{ID: uuid.New(), Name: "Aria"}
	otherRow := models.AIModel{ID: uuid.New(), Name: "Aria", WorkspaceID: &other}
	ownRow := models.AIModel{ID: uuid.New(), Name: "Aria", WorkspaceID: &workspaceID}

	got := PreferWorkspaceScoped([]models.AIModel{globalRow, otherRow, ownRow}, workspaceID)
	require.NotNil(t, got)
	assert.Equal(t, ownRow.ID, got.ID)

	got = PreferWorkspaceScoped([]models.AIModel{otherRow, globalRow}, workspaceID)
	require.NotNil(t, got)
	assert.Equal(t, globalRow.ID, got.ID)

	assert.Nil(t, PreferWorkspaceScoped([]models.AIModel{otherRow}, workspaceID))
}

func TestWorkspaceRepo_StepsAndCompletion(t *testing.T) {
	db := newTestDB(t)
	r := NewWorkspaceRepository(db)
	userID := uuid.New()

	ws := &models.Workspace{UserID: userID, Name: "Alex"}
	require.NoError(t, r.Create(ws))
	assert.Equal(t, 1, ws.CurrentStep)

	err := r.SaveStep(WorkspaceLookup{WorkspaceID: ws.ID}, map[string]interface{}{
		"interests": datatypes.JSONSlice[string]{"music", "travel"},
	}, 4)
	require.NoError(t, err)

	got, err := r.Get(WorkspaceLookup{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentStep)
	assert.Equal(t, []string{"music", "travel"}, []string(got.Interests))
	assert.False(t, got.OnboardingComplete)

	require.NoError(t, r.MarkOnboardingComplete(WorkspaceLookup{UserID: userID}))
	got, err = r.Get(WorkspaceLookup{WorkspaceID: ws.ID})
	require.NoError(t, err)
	assert.True(t, got.OnboardingComplete)

	_, err = r.Get(WorkspaceLookup{})
	assert.ErrorIs(t, err, ErrMissingIdentifier)

	_, err = r.Get(WorkspaceLookup{WorkspaceID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkspaceRepo_MissingRowsAreNotFound(t *testing.T) {
	db := newTestDB(t)
	r := NewWorkspaceRepository(db)
	missing := WorkspaceLookup{WorkspaceID: uuid.New()}

	err := r.SaveStep(missing, map[string]interface{}{"gender": "female"}, 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = r.MarkOnboardingComplete(missing)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = r.MarkOnboardingComplete(WorkspaceLookup{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotFound_KeepsDriverError(t *testing.T) {
	err := notFound(gorm.ErrRecordNotFound, "get chat")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, "get chat: record not found", err.Error())

	other := notFound(errors.New("connection reset"), "get chat")
	assert.NotErrorIs(t, other, ErrNotFound)
	assert.Equal(t, "get chat: connection reset", other.Error())

	assert.NoError(t, notFound(nil, "get chat"))
}

func TestChatRepo_ListRenameDelete(t *testing.T) {
	db := newTestDB(t)
	r := NewChatRepository(db)
	filter := ChatFilter{UserID: uuid.New(), WorkspaceID: uuid.New(), AIModelID: uuid.New()}

	first := &models.Chat{UserID: filter.UserID, WorkspaceID: filter.WorkspaceID, AIModelID: filter.AIModelID, Title: "first"}
	require.NoError(t, r.CreateChat(first))
	time.Sleep(2 * time.Millisecond)
	second := &models.Chat{UserID: filter.UserID, WorkspaceID: filter.WorkspaceID, AIModelID: filter.AIModelID, Title: "second"}
	require.NoError(t, r.CreateChat(second))
	// another persona, must not show up
	require.NoError(t, r.CreateChat(&models.Chat{UserID: filter.UserID, WorkspaceID: filter.WorkspaceID, AIModelID: uuid.New(), Title: "other"}))

	chats, total, err := r.ListChats(filter, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, chats, 2)
	assert.Equal(t, "second", chats[0].Title)

	require.NoError(t, r.RenameChat(first.ID, "renamed"))
	got, err := r.GetChat(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	require.NoError(t, r.CreateMessage(&models.Message{ChatID: first.ID, UserID: filter.UserID, WorkspaceID: filter.WorkspaceID, AIModelID: filter.AIModelID, Prompt: "hi", Response: "hey"}))
	msgs, err := r.ListMessages(first.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	require.NoError(t, r.DeleteChat(first.ID))
	msgs, err = r.ListMessages(first.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	_, err = r.GetChat(first.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, r.RenameChat(uuid.New(), "x"), ErrNotFound)
}

func TestUserRepo_UpsertAndUpdate(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)

	u := &models.User{Email: "alex@example.com", Name: "Alex"}
	require.NoError(t, r.Upsert(u))
	require.NoError(t, r.Update(u.ID, map[string]interface{}{"timezone": "Europe/Berlin"}))

	got, err := r.GetByEmail("alex@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", got.Timezone)
	assert.Equal(t, u.ID, got.ID)

	assert.ErrorIs(t, r.Update(uuid.New(), map[string]interface{}{"name": "x"}), ErrNotFound)
}
