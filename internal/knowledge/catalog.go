// Package knowledge holds the built-in support content catalog.
package knowledge

import "github.com/samvaad-ai/samvaad/internal/domain"

// Catalog returns the curated student-support entries loaded at startup.
// Entries carry stable IDs so index writes are idempotent across restarts.
func Catalog() []domain.KnowledgeEntry {
	return []domain.KnowledgeEntry{
		{
			ID:       "anxiety_breathing_en",
			Content:  "Deep breathing exercises can help manage anxiety. Try the 4-7-8 technique: breathe in for 4 counts, hold for 7, exhale for 8. This activates your parasympathetic nervous system and promotes relaxation.",
			Category: "anxiety_management",
			Language: "en",
			Tags:     []string{"breathing", "anxiety", "relaxation", "technique", "panic", "worried"},
			Source:   "clinical_psychology",
		},
		{
			ID:       "breakup_support_en",
			Content:  "Breakups and relationship endings are among life's most painful experiences. Allow yourself to grieve - it's normal to feel sad, angry, or confused. Reach out to friends, focus on self-care, and remember that healing takes time. You will get through this.",
			Category: "relationship_support",
			Language: "en",
			Tags:     []string{"breakup", "relationship", "heartbreak", "grief", "loss", "dating"},
			Source:   "relationship_counseling",
		},
		{
			ID:       "physical_illness_en",
			Content:  "When you're feeling physically unwell, it can impact your mental health too. Rest is important for recovery. If you're feeling sick regularly, consider talking to a healthcare provider. Sometimes physical symptoms can be related to stress or anxiety.",
			Category: "physical_wellness",
			Language: "en",
			Tags:     []string{"sick", "illness", "physical", "health", "body", "unwell"},
			Source:   "health_services",
		},
		{
			ID:       "making_friends_en",
			Content:  "Making friends in college can feel challenging, but remember that meaningful connections take time. Try joining clubs related to your interests, being a good listener, and showing genuine interest in others. Quality friendships develop gradually.",
			Category: "social_skills",
			Language: "en",
			Tags:     []string{"friends", "friendship", "social", "connections", "relationships", "college"},
			Source:   "social_psychology",
		},
		{
			ID:       "anxiety_breathing_hi",
			Content:  "गहरी साँस लेने की तकनीक चिंता को कम करने में मदद कर सकती है। 4-7-8 तकनीक आज़माएं: 4 गिनती में सांस लें, 7 गिनती तक रोकें, 8 गिनती में छोड़ें।",
			Category: "anxiety_management",
			Language: "hi",
			Tags:     []string{"सांस", "चिंता", "आराम", "तकनीक"},
			Source:   "clinical_psychology",
		},
		{
			ID:       "time_management_en",
			Content:  "Time management for students: Use the Pomodoro Technique - study for 25 minutes, then take a 5-minute break. This helps maintain focus and prevents burnout.",
			Category: "academic_support",
			Language: "en",
			Tags:     []string{"time_management", "study", "productivity", "pomodoro"},
			Source:   "educational_psychology",
		},
		{
			ID:       "time_management_hi",
			Content:  "छात्रों के लिए समय प्रबंधन: पोमोडोरो तकनीक का उपयोग करें - 25 मिनट पढ़ें, फिर 5 मिनट का ब्रेक लें। यह ध्यान बनाए रखने में मदद करता है।",
			Category: "academic_support",
			Language: "hi",
			Tags:     []string{"समय_प्रबंधन", "अध्ययन", "उत्पादकता"},
			Source:   "educational_psychology",
		},
		{
			ID:       "crisis_lifeline_en",
			Content:  "If you're having thoughts of self-harm, please reach out immediately: National Suicide Prevention Lifeline: 988, Crisis Text Line: Text HOME to 741741. You are not alone.",
			Category: "crisis_intervention",
			Language: "en",
			Tags:     []string{"crisis", "suicide_prevention", "emergency", "help"},
			Source:   "crisis_intervention",
		},
		{
			ID:       "exam_stress_en",
			Content:  "Exam stress is normal. Create a study schedule, practice relaxation techniques, get adequate sleep, and remember that your worth isn't determined by grades.",
			Category: "exam_stress",
			Language: "en",
			Tags:     []string{"exams", "stress", "study_schedule", "self_worth"},
			Source:   "academic_counseling",
		},
		{
			ID:       "social_connections_en",
			Content:  "Building social connections: Join clubs or study groups, attend campus events, be open to new friendships. Quality matters more than quantity in relationships.",
			Category: "social_support",
			Language: "en",
			Tags:     []string{"social", "friendship", "connection", "campus_life"},
			Source:   "student_services",
		},
		{
			ID:       "sleep_hygiene_en",
			Content:  "Sleep hygiene for students: Maintain consistent sleep schedule, avoid screens before bed, create a comfortable environment, limit caffeine. Good sleep improves academic performance.",
			Category: "wellness",
			Language: "en",
			Tags:     []string{"sleep", "hygiene", "academic_performance", "health"},
			Source:   "health_services",
		},
	}
}
