package chat

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/samvaad-ai/samvaad/internal/domain"
)

// Composer builds supportive replies from message patterns when no language
// model is available. Template choice is pseudo-random; inject a seeded
// source in tests for stable output.
type Composer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewComposer creates a pattern composer with the given random source.
func NewComposer(rnd *rand.Rand) *Composer {
	return &Composer{rnd: rnd}
}

// Compose returns a reply for the message. When retrieval produced results,
// the top result's content is woven into a topic-matched template; otherwise
// a generic empathetic template is used. history is the conversation so far,
// used for topic continuity.
func (c *Composer) Compose(message string, results []domain.RetrievalResult, history []domain.Message) string {
	lower := strings.ToLower(message)

	if len(results) == 0 {
		return c.pick(genericReplies)
	}

	advice := results[0].Content

	switch {
	case containsAny(lower, "breakup", "relationship", "ex"):
		return c.pickf(breakupReplies, advice)

	case containsAny(lower, "sick", "ill", "unwell"):
		return c.pickf(illnessReplies, advice)

	case containsAny(lower, "lonely", "isolated"):
		if recentTopics(history, 3, "friend") {
			return "It sounds like you're really struggling with feeling disconnected from others. Building friendships can be challenging, but you're taking the right step by talking about it. " + advice + " What kind of connections are you hoping to build?"
		}
		return c.pickf(lonelinessReplies, advice)

	case containsAny(lower, "friends", "friend"):
		if containsAny(lower, "don't have", "no friends") {
			return "Not having close friends can feel really isolating. Many students struggle with this, especially when starting college or during transitions. " + advice + " What's been your experience trying to connect with others?"
		}
		return "Friendships can be complex and meaningful. " + advice + " What's going on with your friendships that you'd like to talk about?"

	case containsAny(lower, "anxious", "anxiety", "worried"):
		return c.pickf(anxietyReplies, advice)

	case containsAny(lower, "exam", "test", "grade"):
		return c.pickf(examReplies, advice)
	}

	return c.pickf(knowledgeReplies, advice)
}

func (c *Composer) pick(templates []string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return templates[c.rnd.Intn(len(templates))]
}

func (c *Composer) pickf(templates []string, advice string) string {
	return strings.Replace(c.pick(templates), "%s", advice, 1)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// recentTopics reports whether any of the last n history messages mention
// the topic.
func recentTopics(history []domain.Message, n int, topic string) bool {
	start := len(history) - n
	if start < 0 {
		start = 0
	}
	for _, m := range history[start:] {
		if strings.Contains(strings.ToLower(m.Content), topic) {
			return true
		}
	}
	return false
}

var breakupReplies = []string{
	"I can hear the pain in what you're sharing about your relationship. Breakups are truly one of life's most difficult experiences. %s What's been the hardest part for you right now?",
	"Relationship endings can feel overwhelming, and your feelings are completely valid. %s Would you like to talk about what you're going through?",
	"I'm sorry you're dealing with this relationship pain. It takes strength to reach out. %s How are you taking care of yourself during this difficult time?",
}

var illnessReplies = []string{
	"I'm sorry you're not feeling well physically. When our body isn't well, it can affect our mood too. %s How long have you been feeling this way?",
	"Being sick can be really draining, both physically and emotionally. %s Are you able to rest and take care of yourself?",
	"Physical illness can be tough to deal with. %s Is there anything specific that's worrying you about how you're feeling?",
}

var lonelinessReplies = []string{
	"Loneliness can feel so heavy, and I want you to know that many people experience this, especially students. %s What's been making you feel most isolated lately?",
	"Feeling lonely takes courage to admit. You're not alone in experiencing this. %s Have you been able to connect with anyone recently, even briefly?",
}

var anxietyReplies = []string{
	"Anxiety can feel so overwhelming, and it's completely understandable that you're experiencing this. %s What tends to trigger your anxiety the most?",
	"I can hear that you're struggling with anxious feelings. That's really common among students. %s Would you like to try some techniques together?",
	"Worry and anxiety can be exhausting. You're being so brave by talking about it. %s How long have you been feeling this way?",
}

var examReplies = []string{
	"Academic pressure can feel intense, and I hear that you're struggling with this. Remember, you're so much more than your grades. %s What aspect of your exams feels most overwhelming?",
	"Exam stress is incredibly common - you're definitely not alone in feeling this way. %s How have you been preparing, and what's been most challenging?",
}

var knowledgeReplies = []string{
	"Thank you for sharing what you're going through. %s I'm here to listen - can you tell me more about how you're feeling?",
	"I hear you, and I want you to know that reaching out was a brave step. %s What's been on your mind most lately?",
	"It sounds like you're dealing with something difficult. %s How can I best support you right now?",
}

var genericReplies = []string{
	"I hear you, and I want you to know that what you're feeling matters. Sometimes just having someone listen can make a difference. I'm here with you right now. Can you tell me a bit more about what's been on your mind lately?",
	"Thank you for reaching out and sharing with me. It takes courage to open up about what you're going through. I'm here to listen and support you. What would be most helpful for you right now?",
	"I can sense that you're dealing with something important. Your feelings are valid, and I'm glad you're talking about it. What's been weighing on you most recently?",
}
