package service

import "github.com/lshigami/mbti-compass/internal/model"

// Dimensions in scoring order. The first letter of each pair wins ties.
var dimensionPairs = [4][2]string{
	{"E", "I"},
	{"S", "N"},
	{"T", "F"},
	{"J", "P"},
}

// canonicalQuestions is the reference content of the question bank.
// Ids are stable: reconciliation matches stored rows by id.
var canonicalQuestions = []model.Question{
	{ID: 1, Text: "I prefer to work alone rather than in groups.", Dimension: "E/I", TraitHigh: "I", TraitLow: "E"},
	{ID: 2, Text: "I focus on details and facts rather than possibilities.", Dimension: "S/N", TraitHigh: "S", TraitLow: "N"},
	{ID: 3, Text: "I make decisions based on logic rather than feelings.", Dimension: "T/F", TraitHigh: "T", TraitLow: "F"},
	{ID: 4, Text: "I prefer to have things planned and organized.", Dimension: "J/P", TraitHigh: "J", TraitLow: "P"},
	{ID: 5, Text: "I feel energized after spending time with others.", Dimension: "E/I", TraitHigh: "E", TraitLow: "I"},
	{ID: 6, Text: "I trust my intuition and gut feelings.", Dimension: "S/N", TraitHigh: "N", TraitLow: "S"},
	{ID: 7, Text: "I consider how decisions affect people's feelings.", Dimension: "T/F", TraitHigh: "F", TraitLow: "T"},
	{ID: 8, Text: "I like to keep my options open and be flexible.", Dimension: "J/P", TraitHigh: "P", TraitLow: "J"},
	{ID: 9, Text: "I enjoy meeting new people and socializing.", Dimension: "E/I", TraitHigh: "E", TraitLow: "I"},
	{ID: 10, Text: "I focus on the big picture rather than details.", Dimension: "S/N", TraitHigh: "N", TraitLow: "S"},
	{ID: 11, Text: "I value harmony and avoid conflict.", Dimension: "T/F", TraitHigh: "F", TraitLow: "T"},
	{ID: 12, Text: "I prefer structure and routine in my daily life.", Dimension: "J/P", TraitHigh: "J", TraitLow: "P"},
}

// CanonicalQuestions returns a copy of the reference catalog.
func CanonicalQuestions() []model.Question {
	return append([]model.Question(nil), canonicalQuestions...)
}
