package chat

import (
	"testing"

	modelChat "messenger_backend/internal/models/chat"
	"messenger_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_BlockedSenderIsDirectional(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, env.Blocks.Block(bob.ID, alice.ID))

	_, err = env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: alice.ID, Body: "hello?"})
	assert.ErrorIs(t, err, apperrors.ErrBlockedByUser)

	// The blocker can still write.
	_, err = env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: bob.ID, Body: "talk later"})
	assert.NoError(t, err)
}

func TestSendMessage_ReplyTargetMustExistInChat(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	bogus := "00000000-0000-0000-0000-000000000000"
	_, err = env.Messages.SendMessage(SendMessageInput{
		ChatID: c.ID, SenderID: alice.ID, Body: "re", RepliedMessageID: &bogus,
	})
	assert.ErrorIs(t, err, apperrors.ErrReplyTargetInvalid)

	original, err := env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: bob.ID, Body: "original"})
	require.NoError(t, err)

	reply, err := env.Messages.SendMessage(SendMessageInput{
		ChatID: c.ID, SenderID: alice.ID, Body: "re", RepliedMessageID: &original.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.RepliedMessageID)
	assert.Equal(t, original.ID, *reply.RepliedMessageID)
}

func TestSendMessage_NonMemberSeesChatAsMissing(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")
	eve := createTestUser(t, env.DB, "eve@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: eve.ID, Body: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNotAMember)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestEditMessage_OnlyAuthorAndMarksEdited(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	m, err := env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: alice.ID, Body: "draft"})
	require.NoError(t, err)
	assert.False(t, m.IsEdited)

	_, err = env.Messages.EditMessage(c.ID, m.ID, bob.ID, "hijacked", nil)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)

	edited, err := env.Messages.EditMessage(c.ID, m.ID, alice.ID, "final", nil)
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Body)
	assert.True(t, edited.IsEdited)
}

func TestEditMessage_ReplacesAttachments(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	m, err := env.Messages.SendMessage(SendMessageInput{
		ChatID:   c.ID,
		SenderID: alice.ID,
		Body:     "holiday pics",
		Type:     "image",
		Attachments: []AttachmentInput{
			{FileURL: "https://cdn.test.dev/old.jpg"},
		},
	})
	require.NoError(t, err)
	require.Len(t, m.Attachments, 1)

	edited, err := env.Messages.EditMessage(c.ID, m.ID, alice.ID, "better pics", []AttachmentInput{
		{FileURL: "https://cdn.test.dev/new-1.jpg"},
		{FileURL: "https://cdn.test.dev/new-2.jpg"},
	})
	require.NoError(t, err)

	// The attachment set is swapped whole, no stale rows survive.
	require.Len(t, edited.Attachments, 2)
	urls := []string{edited.Attachments[0].FileURL, edited.Attachments[1].FileURL}
	assert.ElementsMatch(t, []string{"https://cdn.test.dev/new-1.jpg", "https://cdn.test.dev/new-2.jpg"}, urls)

	var count int64
	require.NoError(t, env.DB.Model(&modelChat.MessageAttachment{}).
		Where("message_id = ?", m.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// A body-only edit leaves the attachments alone.
	edited, err = env.Messages.EditMessage(c.ID, m.ID, alice.ID, "final pics", nil)
	require.NoError(t, err)
	assert.Len(t, edited.Attachments, 2)
}

func TestDeleteMessage_ConvergesToHardDelete(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	m, err := env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: alice.ID, Body: "going away"})
	require.NoError(t, err)

	require.NoError(t, env.Messages.DeleteMessage(c.ID, m.ID, alice.ID))

	// Hidden for alice, still there for bob.
	_, err = env.Messages.GetMessage(alice.ID, c.ID, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)

	visible, err := env.Messages.GetMessage(bob.ID, c.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "going away", visible.Body)

	// Second tombstone converges to a physical delete.
	require.NoError(t, env.Messages.DeleteMessage(c.ID, m.ID, bob.ID))

	var count int64
	require.NoError(t, env.DB.Model(&modelChat.Message{}).Where("id = ?", m.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	require.NoError(t, env.DB.Model(&modelChat.DeletedMessage{}).Where("message_id = ?", m.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteMessage_GroupRoles(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.DB, "owner@test.dev")
	admin := createTestUser(t, env.DB, "admin@test.dev")
	member := createTestUser(t, env.DB, "member@test.dev")

	g, err := env.Chats.CreateGroupChat(owner.ID, "mods")
	require.NoError(t, err)
	require.NoError(t, env.Chats.AddUser(owner.ID, admin.ID, g.ID))
	require.NoError(t, env.Chats.AddUser(owner.ID, member.ID, g.ID))
	require.NoError(t, env.Chats.ChangeRole(owner.ID, admin.ID, g.ID, "admin"))

	fromOwner, err := env.Messages.SendMessage(SendMessageInput{ChatID: g.ID, SenderID: owner.ID, Body: "rules"})
	require.NoError(t, err)
	fromMember, err := env.Messages.SendMessage(SendMessageInput{ChatID: g.ID, SenderID: member.ID, Body: "ok"})
	require.NoError(t, err)

	// A plain member can't delete someone else's message.
	err = env.Messages.DeleteMessage(g.ID, fromOwner.ID, member.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotYourMessage)

	// An admin deletes anything, a member their own.
	require.NoError(t, env.Messages.DeleteMessage(g.ID, fromOwner.ID, admin.ID))
	require.NoError(t, env.Messages.DeleteMessage(g.ID, fromMember.ID, member.ID))

	_, err = env.Messages.ListMessages(owner.ID, g.ID, "", nil)
	assert.ErrorIs(t, err, apperrors.ErrNoMessages)
}

func TestUnsendMessage_BlockedOnceRead(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	m, err := env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: alice.ID, Body: "oops"})
	require.NoError(t, err)

	// Only the author can unsend.
	err = env.Messages.UnsendMessage(c.ID, m.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)

	require.NoError(t, env.Messages.UnsendMessage(c.ID, m.ID, alice.ID))

	m2, err := env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: alice.ID, Body: "oops again"})
	require.NoError(t, err)
	require.NoError(t, env.Messages.MarkMessagesRead(c.ID, bob.ID))

	err = env.Messages.UnsendMessage(c.ID, m2.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrMessageAlreadyRead)
}

func TestReact_Toggles(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	m, err := env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: alice.ID, Body: "rate me"})
	require.NoError(t, err)

	res, err := env.Messages.React(c.ID, m.ID, bob.ID, "👍")
	require.NoError(t, err)
	assert.True(t, res.Applied)

	// A different value overwrites, never duplicates.
	res, err = env.Messages.React(c.ID, m.ID, bob.ID, "🔥")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "🔥", res.Reaction.Reaction)

	var count int64
	require.NoError(t, env.DB.Model(&modelChat.MessageReaction{}).
		Where("message_id = ? AND user_id = ?", m.ID, bob.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The same value removes.
	res, err = env.Messages.React(c.ID, m.ID, bob.ID, "🔥")
	require.NoError(t, err)
	assert.False(t, res.Applied)

	require.NoError(t, env.DB.Model(&modelChat.MessageReaction{}).
		Where("message_id = ?", m.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListMessages_SearchFilter(t *testing.T) {
	env := setupEnv(t)
	alice := createTestUser(t, env.DB, "alice@test.dev")
	bob := createTestUser(t, env.DB, "bob@test.dev")

	c, _, err := env.Chats.CreatePrivateChat(alice.ID, bob.ID)
	require.NoError(t, err)

	for _, body := range []string{"pizza tonight?", "salad instead", "pizza friday"} {
		_, err = env.Messages.SendMessage(SendMessageInput{ChatID: c.ID, SenderID: alice.ID, Body: body})
		require.NoError(t, err)
	}

	matches, err := env.Messages.ListMessages(bob.ID, c.ID, "pizza", nil)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	_, err = env.Messages.ListMessages(bob.ID, c.ID, "sushi", nil)
	assert.ErrorIs(t, err, apperrors.ErrNoMessages)

	// A broken pattern is a client error, not a query failure.
	_, err = env.Messages.ListMessages(bob.ID, c.ID, "pizza(", nil)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}
