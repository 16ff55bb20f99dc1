// Package chi exposes the chat engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/samvaad-ai/samvaad/internal/domain"
	chatuc "github.com/samvaad-ai/samvaad/internal/usecase/chat"
	healthuc "github.com/samvaad-ai/samvaad/internal/usecase/health"
)

// chatService is the consumer interface for the orchestrator (ISP).
type chatService interface {
	Respond(ctx context.Context, req chatuc.Request) (domain.Reply, error)
	History(conversationID string) (*domain.Conversation, error)
}

// healthService is the consumer interface for readiness reporting (ISP).
type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server handles the /api routes.
type Server struct {
	chat   chatService
	health healthService
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(chat chatService, health healthService, logger *zap.Logger) *Server {
	return &Server{chat: chat, health: health, logger: logger}
}

// Mount registers the API routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Post("/api/chat", s.handleChat)
	r.Get("/api/conversation/{conversationId}", s.handleConversationHistory)
	r.Post("/api/emergency", s.handleEmergency)
	r.Get("/api/health", s.handleHealth)
}

type profileRequest struct {
	Name              *string  `json:"name,omitempty"`
	PreferredLanguage *string  `json:"preferredLanguage,omitempty"`
	Concerns          []string `json:"concerns,omitempty"`
}

type chatRequest struct {
	Message        string          `json:"message"`
	UserID         string          `json:"userId"`
	ConversationID string          `json:"conversationId,omitempty"`
	UserProfile    *profileRequest `json:"userProfile,omitempty"`
}

type chatData struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
	Language       string `json:"language"`
	Sentiment      string `json:"sentiment"`
	Timestamp      string `json:"timestamp"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	ucReq := chatuc.Request{
		UserID:         req.UserID,
		Message:        req.Message,
		ConversationID: req.ConversationID,
	}
	if req.UserProfile != nil {
		ucReq.Profile = &domain.ProfilePatch{
			Name:              req.UserProfile.Name,
			PreferredLanguage: req.UserProfile.PreferredLanguage,
			Concerns:          req.UserProfile.Concerns,
		}
	}

	reply, err := s.chat.Respond(r.Context(), ucReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.logger.Info("chat turn served",
		zap.String("conversation_id", reply.ConversationID),
		zap.String("language", reply.Language),
		zap.String("sentiment", reply.Sentiment))

	writeData(w, http.StatusOK, chatData{
		Response:       reply.Response,
		ConversationID: reply.ConversationID,
		Language:       reply.Language,
		Sentiment:      reply.Sentiment,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
}

type messageData struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Language  string    `json:"language"`
	Sentiment string    `json:"sentiment"`
}

// profileData is the outward profile view. Risk level stays internal.
type profileData struct {
	PreferredLanguage string   `json:"preferredLanguage,omitempty"`
	Concerns          []string `json:"concerns,omitempty"`
}

type conversationData struct {
	ConversationID string        `json:"conversationId"`
	UserID         string        `json:"userId"`
	Messages       []messageData `json:"messages"`
	MessageCount   int           `json:"messageCount"`
	UserProfile    profileData   `json:"userProfile"`
}

func (s *Server) handleConversationHistory(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	if conversationID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Conversation ID is required")
		return
	}

	conv, err := s.chat.History(conversationID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	messages := make([]messageData, len(conv.Messages))
	for i, m := range conv.Messages {
		messages[i] = messageData{
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
			Language:  m.Language,
			Sentiment: m.Sentiment,
		}
	}

	writeData(w, http.StatusOK, conversationData{
		ConversationID: conv.ConversationID,
		UserID:         conv.UserID,
		Messages:       messages,
		MessageCount:   len(messages),
		UserProfile: profileData{
			PreferredLanguage: conv.Profile.PreferredLanguage,
			Concerns:          conv.Profile.Concerns,
		},
	})
}

type emergencyRequest struct {
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

type emergencyResources struct {
	CrisisHotline     string `json:"crisis_hotline"`
	TextSupport       string `json:"text_support"`
	EmergencyServices string `json:"emergency_services"`
	CampusCounseling  string `json:"campus_counseling"`
}

type emergencyData struct {
	Immediate bool               `json:"immediate"`
	Resources emergencyResources `json:"resources"`
	Message   string             `json:"message"`
	FollowUp  string             `json:"follow_up"`
}

// handleEmergency always succeeds: a user in crisis must get the resource
// bundle no matter what state the engine is in.
func (s *Server) handleEmergency(w http.ResponseWriter, r *http.Request) {
	var req emergencyRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.logger.Error("emergency alert",
		zap.String("user_id", req.UserID),
		zap.String("conversation_id", req.ConversationID))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"emergency": true,
		"data": emergencyData{
			Immediate: true,
			Resources: emergencyResources{
				CrisisHotline:     "988",
				TextSupport:       "Text HOME to 741741",
				EmergencyServices: "911",
				CampusCounseling:  "Your campus counseling center",
			},
			Message:  "I'm very concerned about you right now. Please reach out to one of these immediate support resources. You don't have to go through this alone.",
			FollowUp: "A counselor will be notified and may reach out to provide additional support.",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"status":    string(report.Status),
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	var fe *domain.FieldError
	switch {
	case errors.As(err, &fe):
		writeErrorDetails(w, http.StatusBadRequest, "validation_failed", "Invalid request",
			map[string]string{fe.Field: fe.Reason})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", "Invalid request")
	case errors.Is(err, domain.ErrConversationNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Conversation not found")
	default:
		s.logger.Error("internal error", zap.Error(err))
		// A chat client should still get something supportive to show.
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   map[string]any{"code": "internal_error", "message": "internal error"},
			"data": chatData{
				Response:  "I'm sorry, I'm having trouble processing your message right now. Please try again, and know that I'm here to support you.",
				Language:  "en",
				Sentiment: "neutral",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			},
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   map[string]any{"code": code, "message": message},
	})
}

func writeErrorDetails(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   map[string]any{"code": code, "message": message, "details": details},
	})
}
