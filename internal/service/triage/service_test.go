package triage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemeet/telemed-api/internal/model"
)

func analyze(t *testing.T, responses ...model.SymptomResponse) *model.TriageResult {
	t.Helper()
	return NewService().Analyze(context.Background(), &model.AnalyzeSymptomsRequest{Responses: responses})
}

func TestQuestionsAreStable(t *testing.T) {
	svc := NewService()
	questions := svc.Questions(context.Background())

	require.Len(t, questions, 4)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, model.QuestionTypeSingle, questions[0].Type)
	assert.Equal(t, model.QuestionTypeScale, questions[2].Type)
	assert.Equal(t, model.QuestionTypeMultiple, questions[3].Type)

	// Callers get a copy; mutating it does not poison the questionnaire.
	questions[0].ID = "mutated"
	assert.Equal(t, "q1", svc.Questions(context.Background())[0].ID)
}

func TestAnalyzeDecisionTable(t *testing.T) {
	tests := []struct {
		concern   string
		specialty string
		urgency   model.Urgency
	}{
		{"Chest Pain", "Cardiology", model.UrgencyHigh},
		{"Skin Issues", "Dermatology", model.UrgencyLow},
		{"Mental Health", "Psychiatry", model.UrgencyMedium},
		{"Fever", "General Medicine", model.UrgencyLow},
		{"Headache", "General Medicine", model.UrgencyLow},
	}
	for _, tt := range tests {
		t.Run(tt.concern, func(t *testing.T) {
			result := analyze(t,
				model.SymptomResponse{QuestionID: "q1", Answer: tt.concern},
				model.SymptomResponse{QuestionID: "q3", Answer: float64(3)},
			)
			assert.Equal(t, tt.specialty, result.Specialty)
			assert.Equal(t, tt.urgency, result.Urgency)
			assert.Contains(t, result.Recommendation, tt.specialty)
		})
	}
}

func TestAnalyzeHighPainEscalates(t *testing.T) {
	result := analyze(t,
		model.SymptomResponse{QuestionID: "q1", Answer: "Fever"},
		model.SymptomResponse{QuestionID: "q3", Answer: float64(9)},
	)
	assert.Equal(t, "General Medicine", result.Specialty)
	assert.Equal(t, model.UrgencyHigh, result.Urgency)
	assert.Contains(t, result.Recommendation, "immediate medical attention")

	// Pain 7 stays below the threshold.
	result = analyze(t,
		model.SymptomResponse{QuestionID: "q1", Answer: "Fever"},
		model.SymptomResponse{QuestionID: "q3", Answer: float64(7)},
	)
	assert.Equal(t, model.UrgencyLow, result.Urgency)
}

func TestAnalyzeToleratesMissingAndMalformedAnswers(t *testing.T) {
	// Empty response set falls back to the default recommendation.
	result := analyze(t)
	assert.Equal(t, "General Medicine", result.Specialty)
	assert.Equal(t, model.UrgencyLow, result.Urgency)

	// Wrong answer shapes are ignored rather than rejected.
	result = analyze(t,
		model.SymptomResponse{QuestionID: "q1", Answer: 42},
		model.SymptomResponse{QuestionID: "q3", Answer: "very painful"},
	)
	assert.Equal(t, "General Medicine", result.Specialty)
	assert.Equal(t, model.UrgencyLow, result.Urgency)
}
