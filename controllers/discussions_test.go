package controllers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCommentIDPrefersClientID(t *testing.T) {
	assert.Equal(t, "retry-key-1", commentID("retry-key-1"))
}

func TestCommentIDFallsBackToUUID(t *testing.T) {
	id := commentID("")
	require.NotEmpty(t, id)

	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	// Fresh id per call when the client supplies none.
	assert.NotEqual(t, id, commentID(""))
}

func TestCommentPushFilterIsIdempotent(t *testing.T) {
	discussionID := primitive.NewObjectID()

	filter := commentPushFilter(discussionID, "retry-key-1")

	assert.Equal(t, discussionID, filter["_id"])
	// A document already holding this comment id must not match, so a
	// retried append becomes a no-op instead of a duplicate.
	assert.Equal(t, bson.M{"$ne": "retry-key-1"}, filter["comments.id"])
}
