package service

var personalityDescriptions = map[string]string{
	"INTJ": "The Architect - Strategic and independent thinkers",
	"INTP": "The Thinker - Innovative and logical problem-solvers",
	"ENTJ": "The Commander - Bold and strong-willed leaders",
	"ENTP": "The Debater - Smart and curious thinkers",
	"INFJ": "The Advocate - Creative and insightful inspirers",
	"INFP": "The Mediator - Poetic and kind-hearted idealists",
	"ENFJ": "The Protagonist - Charismatic and inspiring leaders",
	"ENFP": "The Campaigner - Enthusiastic and creative free spirits",
	"ISTJ": "The Logistician - Practical and fact-minded individuals",
	"ISFJ": "The Protector - Warm-hearted and dedicated protectors",
	"ESTJ": "The Executive - Excellent administrators and managers",
	"ESFJ": "The Consul - Extraordinarily caring and social people",
	"ISTP": "The Virtuoso - Bold and practical experimenters",
	"ISFP": "The Adventurer - Flexible and charming artists",
	"ESTP": "The Entrepreneur - Smart, energetic and perceptive people",
	"ESFP": "The Entertainer - Spontaneous, energetic and enthusiastic people",
}

const unknownPersonality = "Unknown personality type"

// DescribeType returns the short description of a four-letter type.
func DescribeType(personalityType string) string {
	if d, ok := personalityDescriptions[personalityType]; ok {
		return d
	}
	return unknownPersonality
}
