package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		allowed  bool
	}{
		{RequestStatusPending, RequestStatusAccepted, true},
		{RequestStatusPending, RequestStatusRejected, true},
		{RequestStatusPending, RequestStatusInProgress, false},
		{RequestStatusPending, RequestStatusCompleted, false},
		{RequestStatusAccepted, RequestStatusQuestion, true},
		{RequestStatusAccepted, RequestStatusInProgress, true},
		{RequestStatusAccepted, RequestStatusCancelled, true},
		{RequestStatusAccepted, RequestStatusRejected, false},
		{RequestStatusQuestion, RequestStatusAccepted, true},
		{RequestStatusQuestion, RequestStatusRejected, true},
		{RequestStatusQuestion, RequestStatusInProgress, false},
		{RequestStatusInProgress, RequestStatusCompleted, true},
		{RequestStatusInProgress, RequestStatusCancelled, true},
		{RequestStatusInProgress, RequestStatusAccepted, false},
		{RequestStatusCompleted, RequestStatusPending, false},
		{RequestStatusRejected, RequestStatusAccepted, false},
		{RequestStatusCancelled, RequestStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionSameStatus(t *testing.T) {
	for from := range allowedTransitions {
		assert.True(t, CanTransition(from, from), "%s -> %s", from, from)
	}
}

func TestApplyStatusAppendsAuditNote(t *testing.T) {
	authorID := primitive.NewObjectID()
	request := &ServiceRequest{Status: RequestStatusPending}

	require.NoError(t, request.ApplyStatus(RequestStatusAccepted, authorID, time.Now()))

	assert.Equal(t, RequestStatusAccepted, request.Status)
	require.Len(t, request.Notes, 1)
	assert.Equal(t, "Status changed from pending to accepted", request.Notes[0].Text)
	assert.Equal(t, authorID, request.Notes[0].AuthorID)
	assert.Nil(t, request.CompletedAt)
}

func TestApplyStatusStampsCompletion(t *testing.T) {
	authorID := primitive.NewObjectID()
	now := time.Now()
	request := &ServiceRequest{Status: RequestStatusInProgress}

	require.NoError(t, request.ApplyStatus(RequestStatusCompleted, authorID, now))

	require.NotNil(t, request.CompletedAt)
	assert.Equal(t, now, *request.CompletedAt)
}

func TestApplyStatusRejectsIllegalTransition(t *testing.T) {
	request := &ServiceRequest{Status: RequestStatusPending}

	err := request.ApplyStatus(RequestStatusCompleted, primitive.NewObjectID(), time.Now())

	require.Error(t, err)
	assert.Equal(t, RequestStatusPending, request.Status)
	assert.Empty(t, request.Notes)
}

func TestApplyStatusSameStatusNoNote(t *testing.T) {
	request := &ServiceRequest{Status: RequestStatusAccepted}

	require.NoError(t, request.ApplyStatus(RequestStatusAccepted, primitive.NewObjectID(), time.Now()))

	assert.Empty(t, request.Notes)
}

func TestValidRequestStatus(t *testing.T) {
	for _, status := range []string{"pending", "accepted", "rejected", "question", "in_progress", "completed", "cancelled"} {
		assert.True(t, ValidRequestStatus(status), status)
	}
	assert.False(t, ValidRequestStatus("archived"))
	assert.False(t, ValidRequestStatus(""))
}
