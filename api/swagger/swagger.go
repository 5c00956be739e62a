package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Scholaris API",
        "description": "Multi-tenant school management API: grading, reports, and student transitions",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh, and account security"},
        {"name": "Grading", "description": "Per-school grade scale configuration"},
        {"name": "Assessments", "description": "Score entry per student, subject, and class-term"},
        {"name": "Reports", "description": "Report cards, broadsheets, and CSV/PDF exports"},
        {"name": "Transitions", "description": "Promotion, transfer, and withdrawal workflow"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/grading-system": {
            "get": {
                "tags": ["Grading"],
                "summary": "Get the school's grading system",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Grading"],
                "summary": "Replace the school's grading system",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveGradingSystemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Bands overlap, leave gaps, or are inverted"}
                }
            }
        },
        "/assessments": {
            "put": {
                "tags": ["Assessments"],
                "summary": "Record a student's scores for one subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertAssessmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Student is not enrolled in the class-term"}
                }
            }
        },
        "/students/{id}/report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Get a student's term report card",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "classTermId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/class-terms/{id}/broadsheet": {
            "get": {
                "tags": ["Reports"],
                "summary": "Get the broadsheet for a class-term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/jobs": {
            "post": {
                "tags": ["Reports"],
                "summary": "Enqueue a report export job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/jobs/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Get export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/eligibility": {
            "get": {
                "tags": ["Transitions"],
                "summary": "Evaluate a student's transition eligibility",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "classTermId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/transitions": {
            "post": {
                "tags": ["Transitions"],
                "summary": "Execute a student transition",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExecuteTransitionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Student already assigned to the destination class-term"},
                    "412": {"description": "Student is not enrolled in the source class-term"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "SaveGradingSystemRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "pass_mark": {"type": "number"},
                "levels": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/GradeLevelInput"}
                }
            },
            "required": ["name", "levels"]
        },
        "GradeLevelInput": {
            "type": "object",
            "properties": {
                "min_score": {"type": "number"},
                "max_score": {"type": "number"},
                "grade": {"type": "string"},
                "remark": {"type": "string"}
            },
            "required": ["grade"]
        },
        "UpsertAssessmentRequest": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "class_term_id": {"type": "string"},
                "student_id": {"type": "string"},
                "ca1": {"type": "number"},
                "ca2": {"type": "number"},
                "ca3": {"type": "number"},
                "exam": {"type": "number"},
                "is_absent": {"type": "boolean"},
                "is_exempt": {"type": "boolean"}
            },
            "required": ["subject_id", "class_term_id", "student_id"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["student_term", "class_broadsheet"]},
                "class_term_id": {"type": "string"},
                "student_id": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["type", "class_term_id", "format"]
        },
        "ExecuteTransitionRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "from_class_term_id": {"type": "string"},
                "to_class_term_id": {"type": "string"},
                "transition_type": {"type": "string", "enum": ["PROMOTION", "TRANSFER", "WITHDRAWAL"]},
                "notes": {"type": "string"}
            },
            "required": ["student_id", "from_class_term_id", "transition_type"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
