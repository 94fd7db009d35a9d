// Package prompt builds the chat payload sent to the model for each exercise kind.
package prompt

import (
	"fmt"

	"exercise-forge/internal/contract"
	"exercise-forge/internal/domain"
)

const (
	DefaultMultipleChoiceModel = "qwen-plus"
	DefaultGapFillModel        = "qwen-turbo"
	Temperature                = 0.7
)

// Models picks the model name per exercise kind.
type Models struct {
	MultipleChoice string
	GapFill        string
}

func (m Models) forKind(kind domain.ExerciseKind) string {
	switch kind {
	case domain.KindMultipleChoice:
		if m.MultipleChoice != "" {
			return m.MultipleChoice
		}
		return DefaultMultipleChoiceModel
	default:
		if m.GapFill != "" {
			return m.GapFill
		}
		return DefaultGapFillModel
	}
}

// Build returns the vendor chat payload for req.
func Build(req domain.ExerciseRequest, models Models) (domain.ChatPayload, error) {
	schema, err := contract.Schema(req.Kind)
	if err != nil {
		return domain.ChatPayload{}, err
	}

	var system, user string
	switch req.Kind {
	case domain.KindMultipleChoice:
		count := req.DesiredCount
		if count == 0 {
			count = domain.DefaultQuestionCount
		}
		system = fmt.Sprintf(multipleChoiceSystem, count)
		user = fmt.Sprintf(multipleChoiceUser, req.KnowledgePoint, count, schema)
	case domain.KindGapFill:
		system = gapFillSystem
		user = fmt.Sprintf(gapFillUser, req.KnowledgePoint, schema)
	default:
		return domain.ChatPayload{}, domain.NewInvalidInputError(fmt.Sprintf("unsupported exercise kind %q", req.Kind))
	}

	return domain.ChatPayload{
		Model: models.forKind(req.Kind),
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: system},
			{Role: domain.RoleUser, Content: user},
		},
		Temperature: Temperature,
		JSONMode:    true,
	}, nil
}

const multipleChoiceSystem = `You are an English learning assistant. Generate %d multiple choice questions about the following English knowledge point. Each question should have EXACTLY 4 options (A, B, C, D) - one correct answer and three incorrect answers. Include the correct answer and a detailed explanation for each question. IMPORTANT: Format your response exactly as specified, with options as a simple array of strings.`

const multipleChoiceUser = `Knowledge point: %q

Please format your response as a JSON object with the following structure:
{
  "questions": [
    {
      "question": "Question text here",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Explanation text here"
    },
    ...more questions
  ]
}

IMPORTANT REQUIREMENTS:
1. The "options" field must be a simple array of strings and must contain exactly four options.
2. You MUST provide 3 incorrect answers and 1 correct answer for each question.
3. Each option should be short and concise, without embedded explanations.
4. The correctAnswer should be the index (0-3) of the correct option.
5. Include exactly %d questions.
6. Do not include option labels (A, B, C, D) in the option text itself.
7. Make sure the options are distinct and meaningful alternatives.
8. Provide a specific and detailed explanation for every question.

The response must validate against this JSON Schema:
%s`

const gapFillSystem = `You are an English learning assistant specialized in creating contextual gap fill exercises that provide clear context clues.`

const gapFillUser = `Knowledge point: %q

Create a meaningful gap fill exercise with 5-7 gaps specifically related to this knowledge point.

IMPORTANT REQUIREMENTS:
1. The text must be a coherent paragraph or dialogue that clearly demonstrates the knowledge point.
2. Each gap should have sufficient context clues so students can reasonably determine the answer.
3. Use the format "[GAP:answer]" to indicate each gap, where "answer" is the correct word.
4. CRITICAL: Each gap must contain ONLY ONE WORD.
5. Choose gaps that directly relate to the knowledge point (grammar structures, vocabulary, etc.).
6. The exercise should be challenging but solvable based on the surrounding context.
7. For grammar-related knowledge points:
   - For tenses: Include the base form of the verb in parentheses after the gap, e.g. "He [GAP:went] (go) to school yesterday."
   - For plurals: Include the singular form in parentheses, e.g. "There are many [GAP:children] (child) in the park."
   - For other grammar points: Include appropriate hints in parentheses when needed.

Please format your response as a JSON object with the following properties:
- text: the text with [GAP:answer] placeholders and hints in parentheses
- explanation: a detailed explanation of the exercise and why each answer is correct

The response must validate against this JSON Schema:
%s`
