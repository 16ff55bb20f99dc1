package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/samvaad-ai/samvaad/internal/domain"
	chatuc "github.com/samvaad-ai/samvaad/internal/usecase/chat"
	healthuc "github.com/samvaad-ai/samvaad/internal/usecase/health"
)

type mockChatService struct {
	respondFn func(ctx context.Context, req chatuc.Request) (domain.Reply, error)
	historyFn func(conversationID string) (*domain.Conversation, error)
}

func (m *mockChatService) Respond(ctx context.Context, req chatuc.Request) (domain.Reply, error) {
	if m.respondFn != nil {
		return m.respondFn(ctx, req)
	}
	return domain.Reply{
		Response:       "I hear you.",
		ConversationID: "conv-1",
		Language:       "en",
		Sentiment:      "neutral",
	}, nil
}

func (m *mockChatService) History(conversationID string) (*domain.Conversation, error) {
	if m.historyFn != nil {
		return m.historyFn(conversationID)
	}
	return nil, domain.ErrConversationNotFound
}

type mockHealthService struct {
	report healthuc.Report
}

func (m *mockHealthService) Check(_ context.Context) healthuc.Report {
	if m.report.Checks == nil {
		return healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}
	}
	return m.report
}

func newTestRouter(t *testing.T) (*chi.Mux, *mockChatService, *mockHealthService) {
	t.Helper()
	chat := &mockChatService{}
	health := &mockHealthService{}
	srv := NewServer(chat, health, zap.NewNop())

	r := chi.NewRouter()
	srv.Mount(r)
	return r, chat, health
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandleChat_Success(t *testing.T) {
	r, chat, _ := newTestRouter(t)

	var gotReq chatuc.Request
	chat.respondFn = func(_ context.Context, req chatuc.Request) (domain.Reply, error) {
		gotReq = req
		return domain.Reply{
			Response:       "That sounds really difficult.",
			ConversationID: "conv-42",
			Language:       "en",
			Sentiment:      "negative",
		}, nil
	}

	rr := doJSON(t, r, "POST", "/api/chat",
		`{"message":"I am worried about exams","userId":"user-1"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	if gotReq.UserID != "user-1" || gotReq.Message != "I am worried about exams" {
		t.Errorf("request not passed through: %+v", gotReq)
	}

	var body struct {
		Success bool     `json:"success"`
		Data    chatData `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success {
		t.Error("expected success=true")
	}
	if body.Data.Response != "That sounds really difficult." {
		t.Errorf("unexpected response %q", body.Data.Response)
	}
	if body.Data.ConversationID != "conv-42" {
		t.Errorf("unexpected conversation id %q", body.Data.ConversationID)
	}
	if _, err := time.Parse(time.RFC3339, body.Data.Timestamp); err != nil {
		t.Errorf("timestamp not RFC3339: %q", body.Data.Timestamp)
	}
}

func TestHandleChat_ProfilePatchForwarded(t *testing.T) {
	r, chat, _ := newTestRouter(t)

	var gotReq chatuc.Request
	chat.respondFn = func(_ context.Context, req chatuc.Request) (domain.Reply, error) {
		gotReq = req
		return domain.Reply{ConversationID: "c", Response: "ok"}, nil
	}

	rr := doJSON(t, r, "POST", "/api/chat",
		`{"message":"hi","userId":"u","userProfile":{"name":"Asha","concerns":["exams"]}}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	if gotReq.Profile == nil || gotReq.Profile.Name == nil || *gotReq.Profile.Name != "Asha" {
		t.Errorf("profile patch not forwarded: %+v", gotReq.Profile)
	}
	if len(gotReq.Profile.Concerns) != 1 || gotReq.Profile.Concerns[0] != "exams" {
		t.Errorf("concerns not forwarded: %+v", gotReq.Profile)
	}
}

func TestHandleChat_InvalidBody(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := doJSON(t, r, "POST", "/api/chat", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", rr.Code)
	}
}

func TestHandleChat_ValidationError(t *testing.T) {
	r, chat, _ := newTestRouter(t)
	chat.respondFn = func(_ context.Context, _ chatuc.Request) (domain.Reply, error) {
		return domain.Reply{}, domain.NewFieldError("message", "must not be empty")
	}

	rr := doJSON(t, r, "POST", "/api/chat", `{"userId":"u","message":""}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400; body: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "validation_failed" {
		t.Errorf("unexpected code %q", body.Error.Code)
	}
	if body.Error.Details["message"] != "must not be empty" {
		t.Errorf("field detail missing: %+v", body.Error.Details)
	}
}

func TestHandleChat_InternalErrorCarriesFallbackBody(t *testing.T) {
	r, chat, _ := newTestRouter(t)
	chat.respondFn = func(_ context.Context, _ chatuc.Request) (domain.Reply, error) {
		return domain.Reply{}, context.DeadlineExceeded
	}

	rr := doJSON(t, r, "POST", "/api/chat", `{"userId":"u","message":"hi"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}

	var body struct {
		Success bool     `json:"success"`
		Data    chatData `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Data.Response == "" {
		t.Error("500 body must carry a supportive fallback response")
	}
}

func TestHandleConversationHistory_Success(t *testing.T) {
	r, chat, _ := newTestRouter(t)

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	chat.historyFn = func(id string) (*domain.Conversation, error) {
		if id != "conv-7" {
			t.Errorf("unexpected id %q", id)
		}
		return &domain.Conversation{
			UserID:         "user-1",
			ConversationID: "conv-7",
			Messages: []domain.Message{
				{Role: domain.RoleUser, Content: "hi", Timestamp: ts, Language: "en", Sentiment: "neutral"},
				{Role: domain.RoleAssistant, Content: "hello", Timestamp: ts, Language: "en", Sentiment: "supportive"},
			},
			Profile: domain.Profile{
				Name:              "Asha",
				PreferredLanguage: "en",
				Concerns:          []string{"exams"},
				Risk:              domain.RiskHigh,
			},
		}, nil
	}

	rr := doJSON(t, r, "GET", "/api/conversation/conv-7", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body: %s", rr.Code, rr.Body.String())
	}

	if strings.Contains(rr.Body.String(), "high") {
		t.Error("risk level must not leave the service")
	}

	var body struct {
		Success bool             `json:"success"`
		Data    conversationData `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.MessageCount != 2 || len(body.Data.Messages) != 2 {
		t.Errorf("unexpected message count: %+v", body.Data)
	}
	if body.Data.Messages[1].Sentiment != "supportive" {
		t.Errorf("per-message sentiment missing: %+v", body.Data.Messages[1])
	}
	if body.Data.UserProfile.PreferredLanguage != "en" {
		t.Errorf("profile summary missing: %+v", body.Data.UserProfile)
	}
}

func TestHandleConversationHistory_NotFound(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := doJSON(t, r, "GET", "/api/conversation/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", rr.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "not_found" {
		t.Errorf("unexpected code %q", body.Error.Code)
	}
}

func TestHandleEmergency(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := doJSON(t, r, "POST", "/api/emergency", `{"userId":"user-1","message":"help"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}

	var body struct {
		Success   bool          `json:"success"`
		Emergency bool          `json:"emergency"`
		Data      emergencyData `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || !body.Emergency {
		t.Error("expected success and emergency flags")
	}
	if body.Data.Resources.CrisisHotline != "988" {
		t.Errorf("hotline missing: %+v", body.Data.Resources)
	}
	if body.Data.Resources.TextSupport != "Text HOME to 741741" {
		t.Errorf("text line missing: %+v", body.Data.Resources)
	}
	if body.Data.Resources.EmergencyServices != "911" {
		t.Errorf("emergency services missing: %+v", body.Data.Resources)
	}
}

func TestHandleEmergency_EmptyBodyStillSucceeds(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := doJSON(t, r, "POST", "/api/emergency", "")
	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want 200", rr.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	r, _, health := newTestRouter(t)
	health.report = healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			"database":   healthuc.CheckError,
			"embedding":  healthuc.CheckOK,
			"generation": healthuc.CheckUnconfigured,
		},
	}

	rr := doJSON(t, r, "GET", "/api/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("health must never fail, got %d", rr.Code)
	}

	var body struct {
		Success bool              `json:"success"`
		Status  string            `json:"status"`
		Checks  map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "degraded" {
		t.Errorf("unexpected status %q", body.Status)
	}
	if body.Checks["generation"] != "unconfigured" {
		t.Errorf("unexpected checks: %+v", body.Checks)
	}
}
