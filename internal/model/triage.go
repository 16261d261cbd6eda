package model

type QuestionType string

const (
	QuestionTypeSingle   QuestionType = "single"
	QuestionTypeMultiple QuestionType = "multiple"
	QuestionTypeScale    QuestionType = "scale"
)

// SymptomQuestion is one entry of the fixed intake questionnaire.
type SymptomQuestion struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
}

// SymptomResponse is one answer. Answer is a string for single-select, a
// number for scale and a string list for multi-select; unexpected shapes
// are tolerated and ignored.
type SymptomResponse struct {
	QuestionID string      `json:"question_id"`
	Answer     interface{} `json:"answer"`
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// TriageResult is the specialty recommendation derived from the answers.
type TriageResult struct {
	Specialty      string  `json:"specialty"`
	Urgency        Urgency `json:"urgency"`
	Recommendation string  `json:"recommendation"`
}

type AnalyzeSymptomsRequest struct {
	Responses []SymptomResponse `json:"responses" binding:"required"`
}
