package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exercise-forge/internal/domain"
	"exercise-forge/internal/dto"
	"exercise-forge/internal/handler"
	"exercise-forge/internal/middleware"
)

// --- Manual Mocks ---

type MockCompletionService struct {
	CompleteFunc func(ctx context.Context, req domain.ExerciseRequest) (string, error)
}

func (m *MockCompletionService) Complete(ctx context.Context, req domain.ExerciseRequest) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	panic("MockCompletionService.CompleteFunc not implemented")
}

type MockExerciseService struct {
	GenerateMultipleChoiceFunc func(ctx context.Context, sessionID string, req *dto.MultipleChoiceRequest) (*dto.MultipleChoiceResponse, error)
	GenerateGapFillFunc        func(ctx context.Context, sessionID string, req *dto.GapFillRequest) (*dto.GapFillResponse, error)
	GradeMultipleChoiceFunc    func(req *dto.GradeMultipleChoiceRequest) (*dto.GradeResponse, error)
	GradeGapFillFunc           func(req *dto.GradeGapFillRequest) (*dto.GradeResponse, error)
}

func (m *MockExerciseService) GenerateMultipleChoice(ctx context.Context, sessionID string, req *dto.MultipleChoiceRequest) (*dto.MultipleChoiceResponse, error) {
	if m.GenerateMultipleChoiceFunc != nil {
		return m.GenerateMultipleChoiceFunc(ctx, sessionID, req)
	}
	panic("MockExerciseService.GenerateMultipleChoiceFunc not implemented")
}

func (m *MockExerciseService) GenerateGapFill(ctx context.Context, sessionID string, req *dto.GapFillRequest) (*dto.GapFillResponse, error) {
	if m.GenerateGapFillFunc != nil {
		return m.GenerateGapFillFunc(ctx, sessionID, req)
	}
	panic("MockExerciseService.GenerateGapFillFunc not implemented")
}

func (m *MockExerciseService) GradeMultipleChoice(req *dto.GradeMultipleChoiceRequest) (*dto.GradeResponse, error) {
	if m.GradeMultipleChoiceFunc != nil {
		return m.GradeMultipleChoiceFunc(req)
	}
	panic("MockExerciseService.GradeMultipleChoiceFunc not implemented")
}

func (m *MockExerciseService) GradeGapFill(req *dto.GradeGapFillRequest) (*dto.GradeResponse, error) {
	if m.GradeGapFillFunc != nil {
		return m.GradeGapFillFunc(req)
	}
	panic("MockExerciseService.GradeGapFillFunc not implemented")
}

func setupApp(completions *MockCompletionService, exercises *MockExerciseService, accessKey string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app.Group("/api"), handler.NewProxyHandler(completions), handler.NewExerciseHandler(exercises), accessKey)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out), string(body))
}

func TestProxyHandler_Generate(t *testing.T) {
	content := `{"questions":[{"question":"q","options":["a","b","c","d"],"correctAnswer":1,"explanation":""}]}`

	t.Run("success relays envelope", func(t *testing.T) {
		completions := &MockCompletionService{
			CompleteFunc: func(ctx context.Context, req domain.ExerciseRequest) (string, error) {
				assert.Equal(t, domain.KindMultipleChoice, req.Kind)
				assert.Equal(t, "articles", req.KnowledgePoint)
				assert.Equal(t, 3, req.DesiredCount)
				return content, nil
			},
		}
		app := setupApp(completions, &MockExerciseService{}, "")

		resp := postJSON(t, app, "/api/generate", dto.GenerateRequest{Type: "multipleChoice", KnowledgePoint: "articles", Count: 3}, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

		var envelope dto.CompletionEnvelope
		readJSON(t, resp, &envelope)
		require.Len(t, envelope.Choices, 1)
		assert.Equal(t, 0, envelope.Choices[0].Index)
		assert.Equal(t, domain.RoleAssistant, envelope.Choices[0].Message.Role)
		assert.Equal(t, content, envelope.Choices[0].Message.Content)
	})

	t.Run("vendor failure is 500 with details", func(t *testing.T) {
		completions := &MockCompletionService{
			CompleteFunc: func(ctx context.Context, req domain.ExerciseRequest) (string, error) {
				return "", domain.NewTransportError("openai completion failed", 0, "401 invalid api key", nil)
			},
		}
		app := setupApp(completions, &MockExerciseService{}, "")

		resp := postJSON(t, app, "/api/generate", dto.GenerateRequest{Type: "gapFill", KnowledgePoint: "plurals"}, nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body dto.ProxyErrorResponse
		readJSON(t, resp, &body)
		assert.Equal(t, "openai completion failed", body.Error)
		assert.Equal(t, "401 invalid api key", body.Details)
	})

	t.Run("vendor failure without details is null", func(t *testing.T) {
		completions := &MockCompletionService{
			CompleteFunc: func(ctx context.Context, req domain.ExerciseRequest) (string, error) {
				return "", domain.NewRequestTimeoutError(context.DeadlineExceeded)
			},
		}
		app := setupApp(completions, &MockExerciseService{}, "")

		resp := postJSON(t, app, "/api/generate", dto.GenerateRequest{Type: "gapFill", KnowledgePoint: "plurals"}, nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		raw := map[string]interface{}{}
		readJSON(t, resp, &raw)
		assert.Contains(t, raw, "details")
		assert.Nil(t, raw["details"])
	})

	t.Run("invalid body never reaches vendor", func(t *testing.T) {
		app := setupApp(&MockCompletionService{}, &MockExerciseService{}, "")

		resp := postJSON(t, app, "/api/generate", `{"type":"essay","knowledgePoint":""}`, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		readJSON(t, resp, &body)
		assert.Len(t, body.Errors, 2)
	})

	t.Run("preflight", func(t *testing.T) {
		app := setupApp(&MockCompletionService{}, &MockExerciseService{}, "s3cret")

		resp, err := app.Test(httptest.NewRequest(http.MethodOptions, "/api/generate", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "GET,OPTIONS,POST", resp.Header.Get("Access-Control-Allow-Methods"))
	})

	t.Run("access key", func(t *testing.T) {
		completions := &MockCompletionService{
			CompleteFunc: func(ctx context.Context, req domain.ExerciseRequest) (string, error) { return content, nil },
		}
		app := setupApp(completions, &MockExerciseService{}, "s3cret")
		body := dto.GenerateRequest{Type: "gapFill", KnowledgePoint: "plurals"}

		resp := postJSON(t, app, "/api/generate", body, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp = postJSON(t, app, "/api/generate", body, map[string]string{"Authorization": "Bearer s3cret"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestExerciseHandler_GenerateMultipleChoice(t *testing.T) {
	questions := []domain.MultipleChoiceQuestion{
		{Question: "I saw ___ elephant.", Options: []string{"a", "an", "the", "Option D"}, CorrectIndex: 1},
	}
	exercises := &MockExerciseService{
		GenerateMultipleChoiceFunc: func(ctx context.Context, sessionID string, req *dto.MultipleChoiceRequest) (*dto.MultipleChoiceResponse, error) {
			assert.Equal(t, "tab-1", sessionID)
			assert.Equal(t, "articles", req.KnowledgePoint)
			assert.Equal(t, 1, req.Count)
			return &dto.MultipleChoiceResponse{SubmissionID: "01HSUB", State: domain.StateReady, Questions: questions}, nil
		},
	}
	app := setupApp(&MockCompletionService{}, exercises, "")

	resp := postJSON(t, app, "/api/exercises/multiple-choice",
		dto.MultipleChoiceRequest{KnowledgePoint: "articles", Count: 1},
		map[string]string{middleware.SessionHeader: "tab-1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.MultipleChoiceResponse
	readJSON(t, resp, &body)
	assert.Equal(t, "01HSUB", body.SubmissionID)
	assert.Equal(t, domain.StateReady, body.State)
	assert.Equal(t, questions, body.Questions)
}

func TestExerciseHandler_GenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"timeout", domain.NewRequestTimeoutError(context.DeadlineExceeded), http.StatusGatewayTimeout, "REQUEST_TIMEOUT"},
		{"transport", domain.NewTransportError("proxy returned status 500", 500, nil, nil), http.StatusBadGateway, "TRANSPORT_ERROR"},
		{"malformed", domain.NewMalformedResponseError("no choices", nil), http.StatusBadGateway, "MALFORMED_RESPONSE"},
		{"empty", domain.NewEmptyResultError("no gaps"), http.StatusUnprocessableEntity, "EMPTY_RESULT"},
		{"superseded", domain.NewSubmissionSupersededError("01HOLD"), http.StatusConflict, "SUBMISSION_SUPERSEDED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exercises := &MockExerciseService{
				GenerateGapFillFunc: func(ctx context.Context, sessionID string, req *dto.GapFillRequest) (*dto.GapFillResponse, error) {
					return nil, tt.err
				},
			}
			app := setupApp(&MockCompletionService{}, exercises, "")

			resp := postJSON(t, app, "/api/exercises/gap-fill", dto.GapFillRequest{KnowledgePoint: "plurals"}, nil)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body middleware.ErrorResponse
			readJSON(t, resp, &body)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestExerciseHandler_InvalidSessionHeader(t *testing.T) {
	app := setupApp(&MockCompletionService{}, &MockExerciseService{}, "")

	resp := postJSON(t, app, "/api/exercises/gap-fill", dto.GapFillRequest{KnowledgePoint: "plurals"},
		map[string]string{middleware.SessionHeader: "../../etc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExerciseHandler_MalformedBody(t *testing.T) {
	app := setupApp(&MockCompletionService{}, &MockExerciseService{}, "")

	resp := postJSON(t, app, "/api/exercises/multiple-choice", `{"knowledgePoint":`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExerciseHandler_Grade(t *testing.T) {
	exercises := &MockExerciseService{
		GradeMultipleChoiceFunc: func(req *dto.GradeMultipleChoiceRequest) (*dto.GradeResponse, error) {
			assert.Equal(t, map[int]int{0: 2}, req.Answers)
			return dto.NewGradeResponse(domain.GradeMultipleChoice(req.Questions, req.Answers)), nil
		},
		GradeGapFillFunc: func(req *dto.GradeGapFillRequest) (*dto.GradeResponse, error) {
			return dto.NewGradeResponse(domain.GradeGapFill(req.Exercise, req.Answers)), nil
		},
	}
	app := setupApp(&MockCompletionService{}, exercises, "")

	resp := postJSON(t, app, "/api/exercises/multiple-choice/grade", `{
		"questions":[{"question":"q","options":["a","b","c","d"],"correctAnswer":2,"explanation":""}],
		"answers":{"0":2}
	}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var mc dto.GradeResponse
	readJSON(t, resp, &mc)
	assert.Equal(t, 1, mc.Correct)
	assert.InDelta(t, 1.0, mc.Score, 1e-9)

	resp = postJSON(t, app, "/api/exercises/gap-fill/grade", dto.GradeGapFillRequest{
		Exercise: domain.GapFillExercise{
			DisplayText: "He _____ (go) to school.",
			Gaps:        []domain.Gap{{Index: 0, Answer: "went"}},
		},
		Answers: []string{"WENT"},
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var gf dto.GradeResponse
	readJSON(t, resp, &gf)
	assert.Equal(t, 1, gf.Correct)
	assert.True(t, gf.Results[0].Correct)
}
