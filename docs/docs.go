// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Degraded"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a user", "consumes": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "409": {"description": "User exists"}, "429": {"description": "Rate limited"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "consumes": ["application/json"], "responses": {"200": {"description": "Tokens and user"}, "401": {"description": "Invalid credentials"}, "429": {"description": "Rate limited"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Mint a new access token", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "End the current session", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized"}}}},
        "/auth/profile": {"get": {"tags": ["auth"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/users": {"get": {"tags": ["users"], "summary": "List users", "security": [{"BearerAuth": []}], "parameters": [{"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}},
        "/users/profile": {"patch": {"tags": ["users"], "summary": "Update own profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation failed"}, "401": {"description": "Unauthorized"}}}},
        "/users/profile/image": {"post": {"tags": ["users"], "summary": "Replace profile image", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "parameters": [{"name": "file", "in": "formData", "type": "file", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Rejected file"}, "413": {"description": "File too large"}}}},
        "/upload": {"post": {"tags": ["upload"], "summary": "Upload a file", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "parameters": [{"name": "file", "in": "formData", "type": "file", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Rejected file"}, "403": {"description": "Forbidden"}, "413": {"description": "File too large"}}}},
        "/upload/pdf": {"post": {"tags": ["upload"], "summary": "Upload a PDF", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "parameters": [{"name": "file", "in": "formData", "type": "file", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Rejected file"}, "403": {"description": "Forbidden"}, "413": {"description": "File too large"}}}},
        "/upload/{category}/{filename}": {"delete": {"tags": ["upload"], "summary": "Delete a stored file", "security": [{"BearerAuth": []}], "parameters": [{"name": "category", "in": "path", "type": "string", "required": true, "enum": ["uploads", "images", "pdfs"]}, {"name": "filename", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Unknown category"}, "403": {"description": "Forbidden"}}}},
        "/upload/{filename}": {"get": {"tags": ["files"], "summary": "Serve an uploaded file", "parameters": [{"name": "filename", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/images/{filename}": {"get": {"tags": ["files"], "summary": "Serve a profile image", "parameters": [{"name": "filename", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/pdfs/{filename}": {"get": {"tags": ["files"], "summary": "Serve a PDF", "parameters": [{"name": "filename", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Portfolio API",
	Description:      "Authentication, user profiles and asset uploads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
