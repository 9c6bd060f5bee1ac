package service

import (
	"context"
	"fmt"
	"testing"

	"ragnar/training-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestChatService(t *testing.T) (ChatService, primitive.ObjectID) {
	t.Helper()
	athleteRepo := newFakeAthleteRepo()
	athleteID, err := athleteRepo.Create(context.Background(), &domain.Athlete{
		Name:      "Ana",
		TrainerID: primitive.NewObjectID(),
	})
	require.NoError(t, err)
	return NewChatService(newFakeMessageRepo(), athleteRepo), athleteID
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestChatService(t)

	_, err := svc.SendMessage(ctx, athleteID, domain.RoleTrainer, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.SendMessage(ctx, athleteID, "admin", "hola")
	assert.ErrorIs(t, err, ErrInvalidSender)

	_, err = svc.SendMessage(ctx, primitive.NewObjectID(), domain.RoleTrainer, "hola")
	assert.ErrorIs(t, err, ErrAthleteNotFound)
}

func TestConversationOrderedAscending(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestChatService(t)

	_, err := svc.SendMessage(ctx, athleteID, domain.RoleTrainer, "¿Cómo fue la sesión?")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, athleteID, domain.RoleStudent, "Muy bien, subí el peso")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, athleteID, domain.RoleTrainer, "Perfecto, seguimos así")
	require.NoError(t, err)

	history, err := svc.History(ctx, athleteID)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, "¿Cómo fue la sesión?", history[0].Text)
	assert.Equal(t, domain.RoleTrainer, history[0].Sender)
	assert.Equal(t, domain.RoleStudent, history[1].Sender)
	assert.Equal(t, "Perfecto, seguimos así", history[2].Text)

	for i := 1; i < len(history); i++ {
		assert.True(t, history[i].CreatedAt.After(history[i-1].CreatedAt))
	}
}

func TestHistoryCapKeepsNewest(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestChatService(t)

	total := domain.ChatHistoryLimit + 10
	for i := 0; i < total; i++ {
		_, err := svc.SendMessage(ctx, athleteID, domain.RoleStudent, fmt.Sprintf("mensaje %d", i))
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, athleteID)
	require.NoError(t, err)
	require.Len(t, history, domain.ChatHistoryLimit)

	// The oldest surviving message is the one right past the cutoff, and the
	// order is still ascending.
	assert.Equal(t, fmt.Sprintf("mensaje %d", total-domain.ChatHistoryLimit), history[0].Text)
	assert.Equal(t, fmt.Sprintf("mensaje %d", total-1), history[len(history)-1].Text)
}

func TestHistoryScopedToAthlete(t *testing.T) {
	ctx := context.Background()
	athleteRepo := newFakeAthleteRepo()
	messageRepo := newFakeMessageRepo()
	svc := NewChatService(messageRepo, athleteRepo)

	first, err := athleteRepo.Create(ctx, &domain.Athlete{Name: "Ana", TrainerID: primitive.NewObjectID()})
	require.NoError(t, err)
	second, err := athleteRepo.Create(ctx, &domain.Athlete{Name: "Carlos", TrainerID: primitive.NewObjectID()})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, first, domain.RoleTrainer, "para Ana")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, second, domain.RoleTrainer, "para Carlos")
	require.NoError(t, err)

	history, err := svc.History(ctx, first)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "para Ana", history[0].Text)
}
