package swagger

import (
	"strings"

	"github.com/swaggo/swag"
)

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Standing API",
        "description": "Weighted course grades, letter grades, trends, GPA and attendance standing per student and term",
        "version": "1.0.0"
    },
    "basePath": "{{.BasePath}}",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Standing", "description": "Computed academic standing"},
        {"name": "Grade Entries", "description": "Recording graded items"},
        {"name": "Courses", "description": "Per-course category weights"}
    ],
    "paths": {
        "/students/{id}/standing": {
            "get": {
                "tags": ["Standing"],
                "summary": "Student academic standing for a term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing term", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not your standing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/courses/{courseId}/standing": {
            "get": {
                "tags": ["Standing"],
                "summary": "Student standing in a single course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/report-card": {
            "get": {
                "tags": ["Standing"],
                "summary": "Download a report card",
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"], "default": "pdf"}
                ],
                "responses": {
                    "200": {"description": "Report card file", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grade-entries": {
            "post": {
                "tags": ["Grade Entries"],
                "summary": "Record a graded item",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordEntryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid entry", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/weights": {
            "put": {
                "tags": ["Courses"],
                "summary": "Replace a course's category weights",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateWeightsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Weights outside [0,1]", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RecordEntryRequest": {
            "type": "object",
            "required": ["student_id", "course_id", "term_id", "category", "earned_points", "possible_points"],
            "properties": {
                "student_id": {"type": "string"},
                "course_id": {"type": "string"},
                "term_id": {"type": "string"},
                "category": {"type": "string", "enum": ["ASSIGNMENT", "QUIZ", "PARTICIPATION", "ATTENDANCE"]},
                "title": {"type": "string"},
                "earned_points": {"type": "number", "minimum": 0},
                "possible_points": {"type": "number", "exclusiveMinimum": true, "minimum": 0},
                "recorded_at": {"type": "string", "format": "date-time"}
            }
        },
        "UpdateWeightsRequest": {
            "type": "object",
            "required": ["weights"],
            "properties": {
                "weights": {
                    "type": "object",
                    "additionalProperties": {"type": "number", "minimum": 0, "maximum": 1}
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

// BasePath is substituted into the document; set it to the API prefix before serving.
var BasePath = "/api/v1"

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return strings.Replace(docTemplate, "{{.BasePath}}", BasePath, 1)
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
