// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/portal-api/main.go -o internal/api/docs
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
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Store unavailable"}}}
        },
        "/v1/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users",
                "parameters": [{"type": "string", "name": "role", "in": "query"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create a user",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Email already in use"}, "422": {"description": "Invalid input"}}}
        },
        "/v1/users/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get a user",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update a user",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Delete a user",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "Deleted"}, "403": {"description": "Administrators only"}}}
        },
        "/v1/clients": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "List clients",
                "parameters": [{"type": "string", "name": "status", "in": "query"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Create a client",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Email already in use"}}}
        },
        "/v1/clients/with-account": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Create a client together with its portal account",
                "responses": {"201": {"description": "Created"}}}
        },
        "/v1/projects": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["projects"], "summary": "List projects",
                "parameters": [{"type": "string", "name": "client_id", "in": "query"}, {"type": "string", "name": "status", "in": "query"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["projects"], "summary": "Create a project",
                "responses": {"201": {"description": "Created"}, "422": {"description": "Unknown client"}}}
        },
        "/v1/resources": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "List resources",
                "parameters": [{"type": "string", "name": "client_id", "in": "query"}, {"type": "string", "name": "scope", "in": "query"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "Create a resource",
                "responses": {"201": {"description": "Created"}}}
        },
        "/v1/activities": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["activities"], "summary": "Read the audit trail",
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/v1/notifications": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "The caller's notifications",
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Send a notification",
                "responses": {"201": {"description": "Created"}}}
        },
        "/v1/stats": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["stats"], "summary": "Every breakdown at once",
                "responses": {"200": {"description": "OK"}}}
        },
        "/v1/portal/client": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["portal"], "summary": "The caller's client record",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}}
        },
        "/v1/portal/projects": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["portal"], "summary": "The caller's projects",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Client Desk API",
	Description:      "Back-office and client portal API over the embedded store and the portal database.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
