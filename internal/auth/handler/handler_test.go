package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stipend/internal/auth/models"
	dErrors "stipend/pkg/domain-errors"
)

type stubService struct {
	device string
}

func (s *stubService) Login(_ context.Context, email, password, device string) (string, *models.Identity, error) {
	s.device = device
	if email == "smith@demo.com" && password == "demo123" {
		return "signed-token", &models.Identity{
			Email:            email,
			FamilyOfficeID:   1,
			FamilyOfficeName: "Smith Family Office",
		}, nil
	}
	return "", nil, dErrors.New(dErrors.CodeUnauthorized, "incorrect email or password")
}

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func postLogin(t *testing.T, svc *stubService, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	h := New(svc, slog.New(slog.DiscardHandler))

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", chromeUA)
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	return rec
}

func TestHandleLogin_Success(t *testing.T) {
	svc := &stubService{}
	rec := postLogin(t, svc, url.Values{
		"username": {"smith@demo.com"},
		"password": {"demo123"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var body TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed-token", body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)
	assert.Equal(t, "Smith Family Office", body.FamilyOfficeName)
	assert.Contains(t, svc.device, "Chrome")
	assert.Contains(t, svc.device, "on")
	assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	rec := postLogin(t, &stubService{}, url.Values{
		"username": {"smith@demo.com"},
		"password": {"wrong"},
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestHandleLogin_MissingFields(t *testing.T) {
	rec := postLogin(t, &stubService{}, url.Values{"username": {"smith@demo.com"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}
