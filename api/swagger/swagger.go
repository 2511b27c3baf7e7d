package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Uni Planner API",
        "description": "Class-schedule planning service: catalog mirror, conflict-free combination generator, saved selections, and timetable exports.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Catalog", "description": "Course catalog mirror"},
        {"name": "Planner", "description": "Plan generation, sharing, and export"},
        {"name": "Selections", "description": "Saved per-user section picks"}
    ],
    "paths": {
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
                "summary": "Rotate a refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the caller's refresh token",
                "responses": {
                    "204": {"description": "Revoked"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses for a term",
                "parameters": [
                    {"name": "termId", "in": "query", "type": "string", "required": true},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{code}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get one course with its sections",
                "parameters": [
                    {"name": "code", "in": "path", "type": "string", "required": true},
                    {"name": "termId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown course"}
                }
            }
        },
        "/courses/sync": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Refresh courses from the upstream catalog (advisor only)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CatalogSyncRequest"}}
                ],
                "responses": {
                    "200": {"description": "Synced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Queued"}
                }
            }
        },
        "/plans/generate": {
            "post": {
                "tags": ["Planner"],
                "summary": "Generate conflict-free section combinations",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GeneratePlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"}
                }
            }
        },
        "/plans/{id}": {
            "get": {
                "tags": ["Planner"],
                "summary": "Fetch a previously generated plan",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Plan not found or expired"}
                }
            }
        },
        "/plans/{id}/results/{resultId}/share": {
            "post": {
                "tags": ["Planner"],
                "summary": "Create a signed share link for one plan result",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "resultId", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}/results/{resultId}/export": {
            "get": {
                "tags": ["Planner"],
                "summary": "Download one plan result as a weekly timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "resultId", "in": "path", "type": "integer", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/plans/shared/{token}": {
            "get": {
                "tags": ["Planner"],
                "summary": "Resolve a share token into its sections",
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/selections": {
            "get": {
                "tags": ["Selections"],
                "summary": "List the caller's selections for a term",
                "parameters": [
                    {"name": "termId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Selections"],
                "summary": "Save the caller's section picks for a term",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveSelectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/selections/{id}": {
            "get": {
                "tags": ["Selections"],
                "summary": "Get one of the caller's selections",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Selections"],
                "summary": "Delete one of the caller's selections",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
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
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CatalogSyncRequest": {
            "type": "object",
            "properties": {
                "termId": {"type": "string"},
                "courseCodes": {"type": "array", "items": {"type": "string"}},
                "async": {"type": "boolean"}
            },
            "required": ["termId", "courseCodes"]
        },
        "GeneratePlanRequest": {
            "type": "object",
            "properties": {
                "termId": {"type": "string"},
                "courseCodes": {"type": "array", "items": {"type": "string"}},
                "maxResults": {"type": "integer"},
                "sectionFilters": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SectionFilter"}
                },
                "overrides": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/OverrideRule"}
                }
            },
            "required": ["termId", "courseCodes"]
        },
        "SectionFilter": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "sectionIds": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["courseCode"]
        },
        "OverrideRule": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "activityType": {"type": "string"}
            },
            "required": ["courseCode", "activityType"]
        },
        "SaveSelectionRequest": {
            "type": "object",
            "properties": {
                "termId": {"type": "string"},
                "label": {"type": "string"},
                "sectionIds": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["termId", "sectionIds"]
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

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
