package services_test

import (
	"testing"
	"time"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/models"
	"petnest_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_ResolvesReferences(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	pet := createTestPet(t, db, bob.ID, true)

	message, err := svc.Send(alice.ID, dto.SendMessageRequest{
		Receiver: "bob",
		PetID:    pet.ID,
		Content:  "Is Whiskers still available?",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, message.SenderID)
	assert.Equal(t, bob.ID, message.ReceiverID)
	assert.False(t, message.IsRead)
	require.NotNil(t, message.Sender)
	assert.Equal(t, "alice", message.Sender.Username)

	// Unknown receiver and unknown pet fail distinctly.
	_, err = svc.Send(alice.ID, dto.SendMessageRequest{Receiver: "ghost", PetID: pet.ID, Content: "hi"})
	require.Error(t, err)
	appErr, _ := apperrors.AsAppError(err)
	assert.Contains(t, appErr.Message, "Receiver")

	_, err = svc.Send(alice.ID, dto.SendMessageRequest{Receiver: "bob", PetID: "missing", Content: "hi"})
	require.Error(t, err)
	appErr, _ = apperrors.AsAppError(err)
	assert.Contains(t, appErr.Message, "Pet")
}

func TestConversations_Aggregation(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	carol := createTestUser(t, db, "carol", false)
	petOne := createTestPet(t, db, alice.ID, true)
	petTwo := createTestPet(t, db, alice.ID, false)

	// Two pets with bob make two conversations; carol adds a third.
	_, err := svc.SendByIDs(bob.ID, alice.ID, petOne.ID, "first about pet one")
	require.NoError(t, err)
	_, err = svc.SendByIDs(bob.ID, alice.ID, petOne.ID, "second about pet one")
	require.NoError(t, err)
	_, err = svc.SendByIDs(bob.ID, alice.ID, petTwo.ID, "about pet two")
	require.NoError(t, err)
	_, err = svc.SendByIDs(carol.ID, alice.ID, petOne.ID, "carol asks")
	require.NoError(t, err)

	conversations, err := svc.Conversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 3)

	// Newest conversation first.
	assert.Equal(t, "carol", conversations[0].OtherUser.Username)
	assert.Equal(t, "carol asks", conversations[0].LatestMessage.Content)

	// The (bob, petOne) entry carries its latest message and unread count.
	var bobPetOne *dto.ConversationResponse
	for i := range conversations {
		c := &conversations[i]
		if c.OtherUser.Username == "bob" && c.Pet.ID == petOne.ID {
			bobPetOne = c
		}
	}
	require.NotNil(t, bobPetOne)
	assert.Equal(t, "second about pet one", bobPetOne.LatestMessage.Content)
	assert.EqualValues(t, 2, bobPetOne.UnreadCount)
}

func TestConversations_OwnMessagesDoNotCountUnread(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	pet := createTestPet(t, db, alice.ID, true)

	_, err := svc.SendByIDs(alice.ID, bob.ID, pet.ID, "hello bob")
	require.NoError(t, err)

	conversations, err := svc.Conversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Zero(t, conversations[0].UnreadCount, "outgoing messages are not unread for the sender")
}

func TestConversationDetail_MarksReadScoped(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	carol := createTestUser(t, db, "carol", false)
	petOne := createTestPet(t, db, alice.ID, true)
	petTwo := createTestPet(t, db, alice.ID, false)

	_, err := svc.SendByIDs(bob.ID, alice.ID, petOne.ID, "one")
	require.NoError(t, err)
	_, err = svc.SendByIDs(bob.ID, alice.ID, petTwo.ID, "two")
	require.NoError(t, err)
	_, err = svc.SendByIDs(carol.ID, alice.ID, petOne.ID, "three")
	require.NoError(t, err)
	_, err = svc.SendByIDs(alice.ID, bob.ID, petOne.ID, "reply")
	require.NoError(t, err)

	messages, err := svc.ConversationDetail(alice.ID, "bob", petOne.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2, "both directions, this pet only")
	assert.Equal(t, "one", messages[0].Content, "oldest first")

	// Only (bob -> alice, petOne) was marked read.
	var unread []models.Message
	require.NoError(t, db.Where("is_read = ?", false).Find(&unread).Error)
	require.Len(t, unread, 3)
	for _, m := range unread {
		assert.False(t, m.SenderID == bob.ID && m.PetID == petOne.ID,
			"bob's petOne messages should have been marked read")
	}
}

func TestMarkRead_ReturnsAffectedCount(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	pet := createTestPet(t, db, alice.ID, true)

	_, err := svc.SendByIDs(bob.ID, alice.ID, pet.ID, "one")
	require.NoError(t, err)
	_, err = svc.SendByIDs(bob.ID, alice.ID, pet.ID, "two")
	require.NoError(t, err)

	count, err := svc.MarkRead(alice.ID, "bob", pet.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// Idempotent: a second pass touches nothing.
	count, err = svc.MarkRead(alice.ID, "bob", pet.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestConversations_TimestampTieBreaksOnID(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	pet := createTestPet(t, db, alice.ID, true)

	// Same timestamp, ids fixed so the ordering is observable. Inserted
	// higher id first so storage order cannot mask a missing sort key.
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	higher := &models.Message{
		ID:         "7f000000-0000-0000-0000-000000000002",
		SenderID:   bob.ID,
		ReceiverID: alice.ID,
		PetID:      pet.ID,
		Content:    "higher id wins",
		Timestamp:  ts,
	}
	lower := &models.Message{
		ID:         "7f000000-0000-0000-0000-000000000001",
		SenderID:   bob.ID,
		ReceiverID: alice.ID,
		PetID:      pet.ID,
		Content:    "lower id",
		Timestamp:  ts,
	}
	require.NoError(t, db.Create(higher).Error)
	require.NoError(t, db.Create(lower).Error)

	conversations, err := svc.Conversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "higher id wins", conversations[0].LatestMessage.Content)
}
