package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Study Tracker API",
        "description": "Role-based study tracking with mentorships, plans and verifiable certificates",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Registration, login and token lifecycle"},
        {"name": "Sessions", "description": "Study session lifecycle"},
        {"name": "Plans", "description": "Mentor-assigned study plans"},
        {"name": "Stats", "description": "Totals, leaderboard and time series"},
        {"name": "Certificates", "description": "Certificate issuance and public verification"},
        {"name": "Tasks", "description": "Teacher-assigned tasks"},
        {"name": "Mentorships", "description": "Student-teacher mentorship flow"},
        {"name": "Submissions", "description": "Study evidence uploads and links"},
        {"name": "Assistant", "description": "Study assistant chat"},
        {"name": "Admin", "description": "Account management, licenses and monitoring"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and issue tokens",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate the refresh token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/sessions/start": {
            "post": {
                "tags": ["Sessions"],
                "security": [{"BearerAuth": []}],
                "summary": "Start a live study session",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "An active session already exists"}
                }
            }
        },
        "/sessions/stop": {
            "post": {
                "tags": ["Sessions"],
                "security": [{"BearerAuth": []}],
                "summary": "Stop the active session",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No active session"}
                }
            }
        },
        "/sessions/log": {
            "post": {
                "tags": ["Sessions"],
                "security": [{"BearerAuth": []}],
                "summary": "Log a finished study block",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/sessions/{id}/validate": {
            "post": {
                "tags": ["Sessions"],
                "security": [{"BearerAuth": []}],
                "summary": "Validate one of your own completed sessions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Session owned by another student"}
                }
            }
        },
        "/mentees/sessions/{id}/validate": {
            "post": {
                "tags": ["Sessions"],
                "security": [{"BearerAuth": []}],
                "summary": "Validate a mentee's session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "No active mentorship"}
                }
            }
        },
        "/stats/leaderboard": {
            "get": {
                "tags": ["Stats"],
                "security": [{"BearerAuth": []}],
                "summary": "Rank students by study hours",
                "parameters": [
                    {"name": "subject", "in": "query", "type": "string"},
                    {"name": "date_from", "in": "query", "type": "string"},
                    {"name": "date_to", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/certificates": {
            "post": {
                "tags": ["Certificates"],
                "security": [{"BearerAuth": []}],
                "summary": "Generate a study certificate",
                "responses": {
                    "201": {"description": "Created"},
                    "422": {"description": "Less than one hour of study"}
                }
            }
        },
        "/verify/{code}": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Verify a certificate (public)",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown code"}
                }
            }
        },
        "/mentorships": {
            "post": {
                "tags": ["Mentorships"],
                "security": [{"BearerAuth": []}],
                "summary": "Request mentorship from a teacher",
                "responses": {
                    "201": {"description": "Created"},
                    "200": {"description": "Request already exists"}
                }
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Admin"],
                "security": [{"BearerAuth": []}],
                "summary": "List users",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "approved", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["STUDENT", "TEACHER"]},
                "study_objective": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
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
