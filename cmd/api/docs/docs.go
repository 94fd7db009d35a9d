// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o cmd/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/generate": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Builds the prompt for the requested exercise type, calls the completion vendor and relays its chat-completion envelope unchanged.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["proxy"],
                "summary": "Generate raw exercise content",
                "parameters": [
                    {"description": "Exercise request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CompletionEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ProxyErrorResponse"}}
                }
            }
        },
        "/exercises/multiple-choice": {
            "post": {
                "description": "Generates a batch of normalized four-option questions for a knowledge point.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["exercises"],
                "summary": "Generate multiple-choice questions",
                "parameters": [
                    {"type": "string", "description": "Client session scoping supersession", "name": "X-Session-ID", "in": "header"},
                    {"description": "Knowledge point and question count", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.MultipleChoiceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MultipleChoiceResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/exercises/multiple-choice/grade": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["exercises"],
                "summary": "Grade multiple-choice answers",
                "parameters": [
                    {"description": "Questions as served and chosen option per question", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GradeMultipleChoiceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GradeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}}
                }
            }
        },
        "/exercises/gap-fill": {
            "post": {
                "description": "Generates one passage with blanks and the expected answer per blank.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["exercises"],
                "summary": "Generate a gap-fill exercise",
                "parameters": [
                    {"type": "string", "description": "Client session scoping supersession", "name": "X-Session-ID", "in": "header"},
                    {"description": "Knowledge point", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GapFillRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GapFillResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/exercises/gap-fill/grade": {
            "post": {
                "description": "Answers are compared case-insensitively; a one-letter slip on a longer word is flagged as a near miss.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["exercises"],
                "summary": "Grade gap-fill answers",
                "parameters": [
                    {"description": "Exercise as served and one answer per gap", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GradeGapFillRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GradeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.AnswerResult": {
            "type": "object",
            "properties": {
                "correct": {"type": "boolean"},
                "expected": {"type": "string"},
                "given": {"type": "string"},
                "index": {"type": "integer"},
                "nearMiss": {"type": "boolean"}
            }
        },
        "domain.ChatMessage": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "role": {"type": "string", "enum": ["system", "user", "assistant"]}
            }
        },
        "domain.Gap": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "id": {"type": "integer"}
            }
        },
        "domain.GapFillExercise": {
            "type": "object",
            "properties": {
                "explanation": {"type": "string"},
                "gaps": {"type": "array", "items": {"$ref": "#/definitions/domain.Gap"}},
                "text": {"type": "string"}
            }
        },
        "domain.MultipleChoiceQuestion": {
            "type": "object",
            "properties": {
                "correctAnswer": {"type": "integer"},
                "explanation": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "question": {"type": "string"}
            }
        },
        "domain.ValidationError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "dto.CompletionChoice": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "message": {"$ref": "#/definitions/domain.ChatMessage"}
            }
        },
        "dto.CompletionEnvelope": {
            "description": "OpenAI-style chat completion",
            "type": "object",
            "properties": {
                "choices": {"type": "array", "items": {"$ref": "#/definitions/dto.CompletionChoice"}}
            }
        },
        "dto.GapFillRequest": {
            "description": "Body of POST /api/exercises/gap-fill",
            "type": "object",
            "properties": {
                "knowledgePoint": {"type": "string", "example": "plural nouns"}
            }
        },
        "dto.GapFillResponse": {
            "type": "object",
            "properties": {
                "exercise": {"$ref": "#/definitions/domain.GapFillExercise"},
                "state": {"type": "string"},
                "submissionId": {"type": "string"}
            }
        },
        "dto.GenerateRequest": {
            "description": "Body of POST /api/generate",
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 5},
                "knowledgePoint": {"type": "string", "example": "present perfect tense"},
                "type": {"type": "string", "example": "multipleChoice"}
            }
        },
        "dto.GradeGapFillRequest": {
            "type": "object",
            "properties": {
                "answers": {"type": "array", "items": {"type": "string"}},
                "exercise": {"$ref": "#/definitions/domain.GapFillExercise"}
            }
        },
        "dto.GradeMultipleChoiceRequest": {
            "type": "object",
            "properties": {
                "answers": {"type": "object", "additionalProperties": {"type": "integer"}},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/domain.MultipleChoiceQuestion"}}
            }
        },
        "dto.GradeResponse": {
            "type": "object",
            "properties": {
                "correct": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/domain.AnswerResult"}},
                "score": {"type": "number"},
                "total": {"type": "integer"}
            }
        },
        "dto.MultipleChoiceRequest": {
            "description": "Body of POST /api/exercises/multiple-choice",
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 5},
                "knowledgePoint": {"type": "string", "example": "modal verbs"}
            }
        },
        "dto.MultipleChoiceResponse": {
            "type": "object",
            "properties": {
                "questions": {"type": "array", "items": {"$ref": "#/definitions/domain.MultipleChoiceQuestion"}},
                "state": {"type": "string"},
                "submissionId": {"type": "string"}
            }
        },
        "dto.ProxyErrorResponse": {
            "type": "object",
            "properties": {
                "details": {},
                "error": {"type": "string"}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "middleware.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/domain.ValidationError"}},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Type 'Bearer YOUR_ACCESS_KEY' to authorize.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Exercise Forge API",
	Description:      "Generates and grades English practice exercises from a knowledge point.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
