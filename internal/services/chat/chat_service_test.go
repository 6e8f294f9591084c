package chat

import (
	"sync"
	"testing"

	modelChat "messenger_backend/internal/models/chat"
	"messenger_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePrivateChat_SelfChatRejected(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")

	_, _, err := env.Chats.CreatePrivateChat(alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfChat)
}

func TestCreatePrivateChat_PairIsUnique(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	first, restored, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, restored)

	// Same pair again, from either side.
	_, _, err = env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrChatAlreadyExists)

	_, _, err = env.Chats.CreatePrivateChat(bob.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrChatAlreadyExists)

	var count int64
	require.NoError(t, env.DB.Model(&modelChat.Chat{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Len(t, first.Participants, 2)
}

func TestCreatePrivateChat_ConcurrentCreatesYieldOneChat(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = env.Chats.CreatePrivateChat(alice.ID, bob.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrChatAlreadyExists)
		}
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, env.DB.Model(&modelChat.Chat{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreatePrivateChat_BlockedByReceiver(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	require.NoError(t, env.Blocks.Block(bob.ID, alice.ID))

	_, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrBlockedByUser)

	// The block is directional: bob can still start the chat.
	_, _, err = env.Chats.CreatePrivateChat(bob.ID, alice.ID)
	assert.NoError(t, err)
}

func TestDeleteChat_IsAsymmetric(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: alice.ID, Body: "hi"})
	require.NoError(t, err)

	require.NoError(t, env.Chats.DeleteChat(alice.ID, c.ID))

	// Deleting twice is a conflict.
	assert.ErrorIs(t, env.Chats.DeleteChat(alice.ID, c.ID), apperrors.ErrChatAlreadyDeleted)

	aliceChats, err := env.Chats.ListChats(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, aliceChats)

	bobChats, err := env.Chats.ListChats(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobChats, 1)
	require.NotNil(t, bobChats[0].LastMessage)
	assert.Equal(t, "hi", bobChats[0].LastMessage.Body)
}

func TestCreatePrivateChat_RestoreHidesOldHistory(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: bob.ID, Body: "old news"})
	require.NoError(t, err)

	require.NoError(t, env.Chats.DeleteChat(alice.ID, c.ID))

	restoredChat, restored, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, c.ID, restoredChat.ID)

	// Alice's view starts clean, bob keeps the history.
	_, err = env.Messages.ListMessages(alice.ID, c.ID, "", nil)
	assert.ErrorIs(t, err, apperrors.ErrNoMessages)

	bobMessages, err := env.Messages.ListMessages(bob.ID, c.ID, "", nil)
	require.NoError(t, err)
	assert.Len(t, bobMessages, 1)
}

func TestGroupChat_OwnerAuthority(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.DB, "owner@test.dev")
	admin := createTestUser(t, env.DB, "admin@test.dev")
	member := createTestUser(t, env.DB, "member@test.dev")

	g, err := env.Chats.CreateGroupChat(owner.ID, "launch crew")
	require.NoError(t, err)

	require.NoError(t, env.Chats.AddUser(owner.ID, admin.ID, g.ID))
	require.NoError(t, env.Chats.AddUser(owner.ID, member.ID, g.ID))

	// Only the owner may change roles.
	err = env.Chats.ChangeRole(admin.ID, member.ID, g.ID, "admin")
	assert.ErrorIs(t, err, apperrors.ErrRoleChangeDenied)

	require.NoError(t, env.Chats.ChangeRole(owner.ID, admin.ID, g.ID, "admin"))

	err = env.Chats.ChangeRole(owner.ID, member.ID, g.ID, "boss")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)

	// Only the owner may delete the group.
	err = env.Chats.DeleteChat(admin.ID, g.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	require.NoError(t, env.Chats.DeleteChat(owner.ID, g.ID))

	_, err = env.Chats.ListParticipants(g.ID)
	assert.ErrorIs(t, err, apperrors.ErrChatNotFound)
}

func TestGroupChat_MembershipRules(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.DB, "owner@test.dev")
	member := createTestUser(t, env.DB, "member@test.dev")
	outsider := createTestUser(t, env.DB, "outsider@test.dev")

	g, err := env.Chats.CreateGroupChat(owner.ID, "book club")
	require.NoError(t, err)

	require.NoError(t, env.Chats.AddUser(owner.ID, member.ID, g.ID))
	assert.ErrorIs(t, env.Chats.AddUser(owner.ID, member.ID, g.ID), apperrors.ErrAlreadyMember)

	require.NoError(t, env.Chats.Join(outsider.ID, g.ID))
	require.NoError(t, env.Chats.Leave(outsider.ID, g.ID))

	// Renaming a private chat is rejected, a group rename sticks.
	require.NoError(t, env.Chats.RenameChat(owner.ID, g.ID, "film club"))

	p, _, err := env.Chats.CreatePrivateChat(owner.ID, member.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, env.Chats.RenameChat(owner.ID, p.ID, "nope"), apperrors.ErrPrivateChatRename)
	assert.ErrorIs(t, env.Chats.AddUser(owner.ID, outsider.ID, p.ID), apperrors.ErrPrivateChatOp)
}

func TestGroupChat_BlockListEnforced(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.DB, "owner@test.dev")
	banned := createTestUser(t, env.DB, "banned@test.dev")

	g, err := env.Chats.CreateGroupChat(owner.ID, "strict club")
	require.NoError(t, err)
	require.NoError(t, env.Chats.AddUser(owner.ID, banned.ID, g.ID))

	require.NoError(t, env.GroupBlocks.Block(banned.ID, g.ID))

	// A blocked member can no longer post.
	_, err = env.Messages.SendMessage(SendMessageInput{ChatID: g.ID, SenderID: banned.ID, Body: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrBlockedFromGroup)

	// Once out, the block keeps them out through both doors.
	require.NoError(t, env.Chats.RemoveUser(owner.ID, banned.ID, g.ID))
	assert.ErrorIs(t, env.Chats.Join(banned.ID, g.ID), apperrors.ErrBlockedFromGroup)
	assert.ErrorIs(t, env.Chats.AddUser(owner.ID, banned.ID, g.ID), apperrors.ErrBlockedFromGroup)

	// Unblocking restores normal membership rules.
	require.NoError(t, env.GroupBlocks.Unblock(banned.ID, g.ID))
	require.NoError(t, env.Chats.Join(banned.ID, g.ID))

	_, err = env.Messages.SendMessage(SendMessageInput{ChatID: g.ID, SenderID: banned.ID, Body: "back"})
	assert.NoError(t, err)
}

func TestListChats_UnreadCounts(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	for _, body := range []string{"one", "two", "three"} {
		_, err = env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: alice.ID, Body: body})
		require.NoError(t, err)
	}

	bobChats, err := env.Chats.ListChats(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobChats, 1)
	assert.Equal(t, int64(3), bobChats[0].UnreadCount)

	// The sender's own messages never count as unread.
	aliceChats, err := env.Chats.ListChats(alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceChats, 1)
	assert.Equal(t, int64(0), aliceChats[0].UnreadCount)

	require.NoError(t, env.Messages.MarkMessagesRead(c.ID, bob.ID))

	bobChats, err = env.Chats.ListChats(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bobChats[0].UnreadCount)
}
