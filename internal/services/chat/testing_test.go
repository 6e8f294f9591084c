package chat

import (
	"os"
	"testing"

	"messenger_backend/database"
	"messenger_backend/internal/models"
	"messenger_backend/internal/repositories"
	repoChat "messenger_backend/internal/repositories/chat"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupTestDB opens the database named by TEST_DATABASE_URL, migrates it and
// wipes every table. Tests are skipped when the variable is not set.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	tables := []string{
		"message_reactions", "message_attachments", "deleted_messages",
		"messages", "deleted_chats", "group_block_list", "chat_participants",
		"chats", "block_list", "activate_tokens", "users",
	}
	for _, table := range tables {
		require.NoError(t, db.Exec("TRUNCATE TABLE "+table+" CASCADE").Error)
	}
	return db
}

type testEnv struct {
	DB          *gorm.DB
	Chats       *ChatService
	Messages    *MessageService
	Users       *repositories.UserRepository
	Blocks      *repositories.BlockListRepository
	GroupBlocks *repoChat.GroupBlockListRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	userRepo := repositories.NewUserRepository(db)
	blockRepo := repositories.NewBlockListRepository(db)
	chatRepo := repoChat.NewChatRepository(db)
	participantRepo := repoChat.NewParticipantRepository(db)
	messageRepo := repoChat.NewMessageRepository(db)
	reactionRepo := repoChat.NewMessageReactionRepository(db)
	deletedChatRepo := repoChat.NewDeletedChatRepository(db)
	deletedMessageRepo := repoChat.NewDeletedMessageRepository(db)
	groupBlockRepo := repoChat.NewGroupBlockListRepository(db)

	return &testEnv{
		DB:          db,
		Users:       userRepo,
		Blocks:      blockRepo,
		GroupBlocks: groupBlockRepo,
		Chats: NewChatService(
			db, chatRepo, participantRepo, messageRepo,
			deletedChatRepo, groupBlockRepo, userRepo, blockRepo,
		),
		Messages: NewMessageService(
			db, chatRepo, participantRepo, messageRepo, reactionRepo,
			deletedMessageRepo, groupBlockRepo, blockRepo,
		),
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "$2a$10$unusedunusedunusedunusedunusedunusedunusedunused",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
