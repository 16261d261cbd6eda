package triage

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/telemeet/telemed-api/internal/model"
)

const highPainThreshold = 8

// questions is the fixed intake questionnaire. The ids are part of the
// API contract; Analyze looks answers up by id.
var questions = []model.SymptomQuestion{
	{
		ID:       "q1",
		Question: "What is your primary concern today?",
		Type:     model.QuestionTypeSingle,
		Options:  []string{"Fever", "Headache", "Chest Pain", "Skin Issues", "Digestive Problems", "Mental Health"},
	},
	{
		ID:       "q2",
		Question: "How long have you been experiencing this?",
		Type:     model.QuestionTypeSingle,
		Options:  []string{"Less than 24 hours", "1-3 days", "1 week", "More than a week"},
	},
	{
		ID:       "q3",
		Question: "Rate your pain/discomfort level (1-10)",
		Type:     model.QuestionTypeScale,
	},
	{
		ID:       "q4",
		Question: "Do you have any of these additional symptoms?",
		Type:     model.QuestionTypeMultiple,
		Options:  []string{"Nausea", "Dizziness", "Fatigue", "Shortness of breath", "None of the above"},
	},
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Questions returns the questionnaire in presentation order.
func (s *Service) Questions(ctx context.Context) []model.SymptomQuestion {
	out := make([]model.SymptomQuestion, len(questions))
	copy(out, questions)
	return out
}

// Analyze maps the answers to a specialty recommendation. It is a fixed
// decision table keyed on the primary concern, with the pain scale able
// to escalate any concern to high urgency. There is no failure mode:
// missing or malformed answers fall through to the default.
func (s *Service) Analyze(ctx context.Context, req *model.AnalyzeSymptomsRequest) *model.TriageResult {
	concern := answerString(req.Responses, "q1")
	pain := answerNumber(req.Responses, "q3")

	specialty := "General Medicine"
	urgency := model.UrgencyLow

	switch {
	case strings.Contains(concern, "Chest Pain"):
		specialty = "Cardiology"
		urgency = model.UrgencyHigh
	case strings.Contains(concern, "Skin Issues"):
		specialty = "Dermatology"
		urgency = model.UrgencyLow
	case strings.Contains(concern, "Mental Health"):
		specialty = "Psychiatry"
		urgency = model.UrgencyMedium
	}

	if pain >= highPainThreshold {
		urgency = model.UrgencyHigh
	}

	recommendation := "Based on your symptoms, we recommend consulting with a " + specialty + " specialist."
	if urgency == model.UrgencyHigh {
		recommendation += " Please seek immediate medical attention."
	}

	return &model.TriageResult{
		Specialty:      specialty,
		Urgency:        urgency,
		Recommendation: recommendation,
	}
}

func answerString(responses []model.SymptomResponse, questionID string) string {
	for _, r := range responses {
		if r.QuestionID != questionID {
			continue
		}
		if s, ok := r.Answer.(string); ok {
			return s
		}
	}
	return ""
}

// answerNumber tolerates the numeric shapes JSON decoding can produce.
func answerNumber(responses []model.SymptomResponse, questionID string) float64 {
	for _, r := range responses {
		if r.QuestionID != questionID {
			continue
		}
		switch v := r.Answer.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case json.Number:
			if n, err := v.Float64(); err == nil {
				return n
			}
		}
	}
	return 0
}
