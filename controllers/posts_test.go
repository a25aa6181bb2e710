package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPostListFilterPublicPinsPublished(t *testing.T) {
	filter := postListFilter(true, "astronomy", "", "")

	assert.Equal(t, true, filter["published"])
	assert.Equal(t, "astronomy", filter["category"])
}

func TestPostListFilterPublicAlwaysPublished(t *testing.T) {
	// No combination of query parameters drops the published pin.
	for _, f := range []bson.M{
		postListFilter(true, "", "", ""),
		postListFilter(true, "", "true", ""),
		postListFilter(true, "astronomy", "true", "nebula"),
	} {
		assert.Equal(t, true, f["published"])
	}
}

func TestPostListFilterAdminSeesDrafts(t *testing.T) {
	filter := postListFilter(false, "astronomy", "", "")

	_, pinned := filter["published"]
	assert.False(t, pinned, "admin listing must not filter on published")
	assert.Equal(t, "astronomy", filter["category"])
}

func TestPostListFilterFeaturedAndSearch(t *testing.T) {
	filter := postListFilter(true, "", "true", "saturn")

	assert.Equal(t, true, filter["featured"])
	assert.Equal(t, bson.M{"$regex": "saturn", "$options": "i"}, filter["title"])

	// "featured" only filters when explicitly true.
	filter = postListFilter(true, "", "false", "")
	_, present := filter["featured"]
	assert.False(t, present)
}
