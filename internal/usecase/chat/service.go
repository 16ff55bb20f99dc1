// Package chat orchestrates one support turn: language and sentiment
// analysis, crisis screening, knowledge retrieval and reply composition.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samvaad-ai/samvaad/internal/domain"
	"github.com/samvaad-ai/samvaad/internal/metrics"
)

// crisisPhrases short-circuit the turn before retrieval and generation.
var crisisPhrases = []string{
	"suicide", "kill myself", "end it all", "self harm", "hurt myself", "want to die",
}

// crisisReply is returned verbatim on a crisis detection. Fixed wording with
// verified hotline numbers; never model-generated.
const crisisReply = "I'm really concerned about what you're sharing with me. You matter so much, and I want you to get immediate support. Please reach out to a crisis counselor right now - call 988 or text HOME to 741741. You don't have to face this alone."

// cannedReplies are served when a turn fails unexpectedly, keyed by detected
// language.
var cannedReplies = map[string]string{
	"en": "I'm here to listen and support you. Can you tell me more about what's on your mind?",
	"hi": "मैं आपकी बात सुनने और आपका साथ देने के लिए यहाँ हूँ। क्या आप मुझे बता सकते हैं कि आपके मन में क्या है?",
	"es": "Estoy aquí para escucharte y apoyarte. ¿Puedes contarme más sobre lo que tienes en mente?",
	"fr": "Je suis là pour vous écouter et vous soutenir. Pouvez-vous me dire ce qui vous préoccupe?",
}

// Request carries one user turn into the orchestrator.
type Request struct {
	UserID         string
	Message        string
	ConversationID string
	Profile        *domain.ProfilePatch
}

// Config bounds orchestrator behavior.
type Config struct {
	// HistoryWindow is the number of trailing messages fed to generation.
	HistoryWindow int
	// GenerationTimeout caps one model call.
	GenerationTimeout time.Duration
}

// Service is the response orchestrator.
type Service struct {
	detector   detector
	classifier classifier
	retriever  retriever
	store      conversationStore
	generator  domain.Generator
	composer   *Composer
	cfg        Config
	logger     *zap.Logger
}

// NewService creates the orchestrator. generator may be nil; replies then
// come from the pattern composer.
func NewService(
	d detector,
	c classifier,
	r retriever,
	store conversationStore,
	generator domain.Generator,
	composer *Composer,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 10
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 15 * time.Second
	}
	return &Service{
		detector:   d,
		classifier: c,
		retriever:  r,
		store:      store,
		generator:  generator,
		composer:   composer,
		cfg:        cfg,
		logger:     logger,
	}
}

// Respond runs one chat turn. Validation problems return ErrValidation;
// every other failure degrades to a canned supportive reply, so callers
// beyond validation never see an error.
func (s *Service) Respond(ctx context.Context, req Request) (domain.Reply, error) {
	start := time.Now()
	defer func() {
		metrics.ChatTurnDuration.Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(req.UserID) == "" {
		return domain.Reply{}, domain.NewFieldError("userId", "must not be empty")
	}
	if strings.TrimSpace(req.Message) == "" {
		return domain.Reply{}, domain.NewFieldError("message", "must not be empty")
	}

	reply, err := s.respond(ctx, req)
	if err != nil {
		s.logger.Error("chat turn failed, serving canned reply",
			zap.String("conversation_id", req.ConversationID), zap.Error(err))
		metrics.ChatTurnsTotal.WithLabelValues("fallback").Inc()
		return s.cannedReply(req), nil
	}
	return reply, nil
}

func (s *Service) respond(ctx context.Context, req Request) (domain.Reply, error) {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	language := s.detector.Detect(req.Message)
	sent := s.classifier.Classify(req.Message)
	lower := strings.ToLower(req.Message)

	s.store.Lock(req.UserID, conversationID)
	defer s.store.Unlock(conversationID)

	conv := s.store.GetOrCreate(req.UserID, conversationID)
	if req.Profile != nil {
		if err := s.store.MergeProfile(conversationID, *req.Profile); err != nil {
			return domain.Reply{}, err
		}
	}

	if err := s.store.AppendMessage(conversationID, domain.Message{
		Role:      domain.RoleUser,
		Content:   req.Message,
		Timestamp: time.Now(),
		Language:  language,
		Sentiment: sent,
	}); err != nil {
		return domain.Reply{}, err
	}

	// Crisis screening preempts retrieval and generation: the reply must be
	// the fixed hotline text, never a model output.
	if containsAny(lower, crisisPhrases...) {
		metrics.CrisisDetectionsTotal.Inc()
		metrics.ChatTurnsTotal.WithLabelValues("crisis").Inc()
		s.logger.Warn("crisis keywords detected",
			zap.String("conversation_id", conversationID))

		if err := s.store.EscalateRisk(conversationID, domain.RiskHigh); err != nil {
			return domain.Reply{}, err
		}
		if err := s.appendAssistant(conversationID, crisisReply, language); err != nil {
			return domain.Reply{}, err
		}
		return domain.Reply{
			Response:       crisisReply,
			ConversationID: conversationID,
			Language:       language,
			Sentiment:      sent,
		}, nil
	}

	results := s.retriever.Search(ctx, req.Message, language)

	response, outcome := s.compose(ctx, req.Message, results, language, conv.Messages)

	if sent == "negative" || strings.Contains(lower, "suicide") || strings.Contains(lower, "harm") {
		if err := s.store.EscalateRisk(conversationID, domain.RiskHigh); err != nil {
			return domain.Reply{}, err
		}
	}

	if err := s.appendAssistant(conversationID, response, language); err != nil {
		return domain.Reply{}, err
	}

	metrics.ChatTurnsTotal.WithLabelValues(outcome).Inc()
	return domain.Reply{
		Response:       response,
		ConversationID: conversationID,
		Language:       language,
		Sentiment:      sent,
	}, nil
}

// compose produces the reply text and the turn outcome label. Model failures
// degrade to the pattern composer.
func (s *Service) compose(ctx context.Context, message string, results []domain.RetrievalResult, language string, history []domain.Message) (string, string) {
	if s.generator == nil {
		return s.composer.Compose(message, results, history), "composed"
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancel()

	response, err := s.generator.Generate(genCtx, buildSystemPrompt(results, language), chatHistory(history, s.cfg.HistoryWindow))
	if err != nil {
		s.logger.Warn("generation failed, composing reply from patterns", zap.Error(err))
		return s.composer.Compose(message, results, history), "composed"
	}
	return response, "model"
}

// History returns a detached copy of the conversation.
func (s *Service) History(conversationID string) (*domain.Conversation, error) {
	return s.store.Get(conversationID)
}

// UpdateProfile merges the patch into an existing conversation's profile.
func (s *Service) UpdateProfile(conversationID string, patch domain.ProfilePatch) error {
	conv, err := s.store.Get(conversationID)
	if err != nil {
		return err
	}

	s.store.Lock(conv.UserID, conversationID)
	defer s.store.Unlock(conversationID)
	return s.store.MergeProfile(conversationID, patch)
}

func (s *Service) appendAssistant(conversationID, response, language string) error {
	return s.store.AppendMessage(conversationID, domain.Message{
		Role:      domain.RoleAssistant,
		Content:   response,
		Timestamp: time.Now(),
		Language:  language,
		Sentiment: "supportive",
	})
}

func (s *Service) cannedReply(req Request) domain.Reply {
	language := s.detector.Detect(req.Message)

	response, ok := cannedReplies[language]
	if !ok {
		response = cannedReplies["en"]
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	return domain.Reply{
		Response:       response,
		ConversationID: conversationID,
		Language:       language,
		Sentiment:      "neutral",
	}
}

// chatHistory maps the trailing window of messages into generation turns.
func chatHistory(messages []domain.Message, window int) []domain.ChatTurn {
	start := len(messages) - window
	if start < 0 {
		start = 0
	}

	out := make([]domain.ChatTurn, 0, len(messages)-start)
	for _, m := range messages[start:] {
		out = append(out, domain.ChatTurn{Role: m.Role, Content: m.Content})
	}
	return out
}
