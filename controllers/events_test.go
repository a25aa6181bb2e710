package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/orionsociety/astroclub-backend/config"
	models "github.com/orionsociety/astroclub-backend/models"
)

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-14", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"2026-03-14 20:30", time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC)},
		{"2026-03-14 20:30:15", time.Date(2026, 3, 14, 20, 30, 15, 0, time.UTC)},
		{"2026-03-14T20:30:00Z", time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := parseEventDate(tt.in)
		require.NoErrorf(t, err, "input %q", tt.in)
		assert.Truef(t, got.Equal(tt.want), "input %q: got %v, want %v", tt.in, got, tt.want)
	}

	_, err := parseEventDate("march the third")
	assert.Error(t, err)
}

func TestGetEventRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "not-an-oid"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/events/not-an-oid", nil)

	GetEvent(&config.Config{})(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterForEventRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "507f1f77bcf86cd799439011"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/events/507f1f77bcf86cd799439011/register", nil)

	RegisterForEvent(&config.Config{})(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegistrationFilterGuardsCapacityAndMembership(t *testing.T) {
	eventID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	filter := registrationFilter(eventID, userID)

	// Only upcoming events admit registrations.
	assert.Equal(t, models.EventUpcoming, filter["status"])

	// A repeat registration must not match the document again.
	assert.Equal(t, bson.M{"$ne": userID}, filter["registered_users"])

	// The capacity check rides in the same filter: either unlimited, or
	// the live count compared against capacity inside the store.
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok, "filter is missing the capacity guard")
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"capacity": bson.M{"$lte": 0}}, or[0])
	assert.Equal(t,
		bson.M{"$expr": bson.M{"$lt": bson.A{"$registered_count", "$capacity"}}},
		or[1])
}

func TestRegistrationUpdateMovesArrayAndCounterTogether(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	update := registrationUpdate(userID, now)

	assert.Equal(t, bson.M{"registered_users": userID}, update["$addToSet"])
	assert.Equal(t, bson.M{"registered_count": 1}, update["$inc"])
	assert.Equal(t, bson.M{"updated_at": now}, update["$set"])
}

func TestRegistrationFailureReasons(t *testing.T) {
	userID := primitive.NewObjectID()

	full := &models.Event{
		Status:          models.EventUpcoming,
		Capacity:        2,
		RegisteredCount: 2,
		RegisteredUsers: []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
	}
	code, msg := registrationFailure(full, userID)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "event is full", msg)

	repeat := &models.Event{
		Status:          models.EventUpcoming,
		Capacity:        10,
		RegisteredCount: 1,
		RegisteredUsers: []primitive.ObjectID{userID},
	}
	code, msg = registrationFailure(repeat, userID)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "already registered for this event", msg)

	closed := &models.Event{Status: models.EventCancelled}
	code, msg = registrationFailure(closed, userID)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "registration is closed for this event", msg)
}

func TestParsePositiveInt(t *testing.T) {
	n, err := parsePositiveInt("25")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	_, err = parsePositiveInt("0")
	assert.Error(t, err)

	_, err = parsePositiveInt("-3")
	assert.Error(t, err)

	_, err = parsePositiveInt("many")
	assert.Error(t, err)
}
