package dto

import "exercise-forge/internal/domain"

// GenerateRequest is the proxy request body
// @Description Body of POST /api/generate
type GenerateRequest struct {
	Type           string `json:"type" example:"multipleChoice"`
	KnowledgePoint string `json:"knowledgePoint" example:"present perfect tense"`
	Count          int    `json:"count,omitempty" example:"5"`
}

// CompletionEnvelope is the chat-completion shape relayed by the proxy
// @Description OpenAI-style chat completion
type CompletionEnvelope struct {
	Choices []CompletionChoice `json:"choices"`
}

type CompletionChoice struct {
	Index   int                `json:"index"`
	Message domain.ChatMessage `json:"message"`
}

// ProxyErrorResponse is the proxy failure body. Details is null when the vendor
// gave nothing beyond the message.
type ProxyErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details"`
}

// MultipleChoiceRequest asks for a batch of questions
// @Description Body of POST /api/exercises/multiple-choice
type MultipleChoiceRequest struct {
	KnowledgePoint string `json:"knowledgePoint" example:"modal verbs"`
	Count          int    `json:"count" example:"5"`
}

type MultipleChoiceResponse struct {
	SubmissionID string                          `json:"submissionId"`
	State        domain.SubmissionState          `json:"state"`
	Questions    []domain.MultipleChoiceQuestion `json:"questions"`
}

// GapFillRequest asks for one gap-fill passage
// @Description Body of POST /api/exercises/gap-fill
type GapFillRequest struct {
	KnowledgePoint string `json:"knowledgePoint" example:"plural nouns"`
}

type GapFillResponse struct {
	SubmissionID string                 `json:"submissionId"`
	State        domain.SubmissionState `json:"state"`
	Exercise     domain.GapFillExercise `json:"exercise"`
}

// GradeMultipleChoiceRequest carries the questions as served and the chosen option
// index per question index.
type GradeMultipleChoiceRequest struct {
	Questions []domain.MultipleChoiceQuestion `json:"questions"`
	Answers   map[int]int                     `json:"answers"`
}

// GradeGapFillRequest carries the exercise as served and one answer per gap.
type GradeGapFillRequest struct {
	Exercise domain.GapFillExercise `json:"exercise"`
	Answers  []string               `json:"answers"`
}

type GradeResponse struct {
	Results []domain.AnswerResult `json:"results"`
	Correct int                   `json:"correct"`
	Total   int                   `json:"total"`
	Score   float64               `json:"score"`
}

func NewGradeResponse(report domain.GradeReport) *GradeResponse {
	resp := &GradeResponse{Results: report.Results, Correct: report.Correct, Total: report.Total}
	if report.Total > 0 {
		resp.Score = float64(report.Correct) / float64(report.Total)
	}
	return resp
}
