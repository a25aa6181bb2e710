package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/orionsociety/astroclub-backend/config"
	models "github.com/orionsociety/astroclub-backend/models"
)

func TestCanTransitionProposal(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.ProposalPending, models.ProposalApproved, true},
		{models.ProposalPending, models.ProposalRejected, true},
		{models.ProposalPending, models.ProposalPending, false},
		{models.ProposalApproved, models.ProposalRejected, false},
		{models.ProposalApproved, models.ProposalPending, false},
		{models.ProposalRejected, models.ProposalApproved, false},
		{models.ProposalRejected, models.ProposalPending, false},
		{models.ProposalPending, "archived", false},
	}

	for _, tt := range tests {
		got := canTransitionProposal(tt.from, tt.to)
		assert.Equalf(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestCreateProposalRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", primitive.NewObjectID().Hex())

	body := `{"title":"Star party","date":"not-a-date","organizer":"Ada","organizer_email":"ada@club.org"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/proposals", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	CreateProposal(&config.Config{})(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date")
}

func TestCreateProposalRequiresFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", primitive.NewObjectID().Hex())

	c.Request = httptest.NewRequest(http.MethodPost, "/proposals", strings.NewReader(`{"title":"Star party"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	CreateProposal(&config.Config{})(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProposalStatusRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	c.Request = httptest.NewRequest(http.MethodPatch, "/proposals/nope/status", strings.NewReader(`{"status":"approved"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	UpdateProposalStatus(&config.Config{})(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNewProposalForcesPendingStatus(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	input := &proposalInput{
		Title:          "Messier marathon",
		Date:           "2026-03-21",
		Time:           "20:00",
		Organizer:      "Ada",
		OrganizerEmail: "ada@club.org",
		Capacity:       30,
		Status:         models.ProposalApproved,
	}

	p := newProposal(userID, input, now)

	assert.Equal(t, models.ProposalPending, p.Status)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, "Messier marathon", p.Title)
	assert.True(t, p.CreatedAt.Equal(now))
	assert.True(t, p.UpdatedAt.Equal(now))
}

func TestEventFromProposal(t *testing.T) {
	p := &models.EventProposal{
		ID:       primitive.NewObjectID(),
		Title:    "Perseid watch",
		Date:     "2026-08-12",
		Time:     "22:30",
		Location: "Dark Sky Hill",
		Category: "observation",
		Capacity: 40,
	}

	event := eventFromProposal(p)

	assert.Equal(t, "Perseid watch", event.Title)
	assert.Equal(t, models.EventUpcoming, event.Status)
	assert.Equal(t, 40, event.Capacity)
	assert.Equal(t, 0, event.RegisteredCount)
	assert.Empty(t, event.RegisteredUsers)
	assert.Equal(t, 2026, event.Date.Year())
	assert.Equal(t, 22, event.Date.Hour())
}

func TestEventFromProposalDateOnly(t *testing.T) {
	p := &models.EventProposal{Title: "Lecture", Date: "2026-09-01"}

	event := eventFromProposal(p)

	assert.Equal(t, 2026, event.Date.Year())
	assert.Equal(t, 0, event.Date.Hour())
}
