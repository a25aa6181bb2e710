package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	config "github.com/orionsociety/astroclub-backend/config"
)

func postContact(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	CreateContactMessage(&config.Config{})(c)
	return w
}

func TestCreateContactMessageRequiresFields(t *testing.T) {
	w := postContact(t, `{"name":"A","email":"a@b.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateContactMessageRejectsBadEmail(t *testing.T) {
	w := postContact(t, `{"name":"A","email":"nope","subject":"Hi","message":"Hello"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateContactMessageRejectsEmptyBody(t *testing.T) {
	w := postContact(t, ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
