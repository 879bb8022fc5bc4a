// Package docs is generated by swag init from the handler annotations.
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
        "/forms/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["public"],
                "summary": "Public form view",
                "parameters": [
                    {"type": "string", "description": "Form slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "form not found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/submissions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["public"],
                "summary": "Submit answers to an active form",
                "parameters": [
                    {"description": "Answers keyed by field id", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/submission.CreateSubmissionDTO"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Form not found or inactive", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "422": {"description": "Required field missing", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User login",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "JWT token and user info", "schema": {"$ref": "#/definitions/response.TokenResponse"}},
                    "401": {"description": "Invalid username or password", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/api/forms": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "List the caller's forms, newest first",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Create a form with its pages and fields",
                "parameters": [
                    {"description": "Form tree", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/form.FormInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "422": {"description": "Invalid slug or field", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/api/forms/{id}/pages/order": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Reorder every page of a form",
                "parameters": [
                    {"type": "integer", "description": "Form ID", "name": "id", "in": "path", "required": true},
                    {"description": "New positions", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/form.ReorderInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "422": {"description": "Positions do not cover exactly the form's pages", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "response.Envelope": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {},
                "success": {"type": "boolean"}
            }
        },
        "response.TokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user_id": {"type": "integer"},
                "username": {"type": "string"},
                "is_admin": {"type": "boolean"}
            }
        },
        "submission.CreateSubmissionDTO": {
            "type": "object",
            "required": ["data", "form_id"],
            "properties": {
                "form_id": {"type": "integer"},
                "data": {"type": "object", "additionalProperties": true},
                "metadata": {"type": "object", "additionalProperties": true}
            }
        },
        "form.PositionUpdate": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "position": {"type": "integer"}
            }
        },
        "form.ReorderInput": {
            "type": "object",
            "properties": {
                "orders": {"type": "array", "items": {"$ref": "#/definitions/form.PositionUpdate"}}
            }
        },
        "form.FormInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "slug": {"type": "string"},
                "description": {"type": "string"},
                "is_active": {"type": "boolean"},
                "pages": {"type": "array", "items": {"type": "object"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Form Builder API",
	Description:      "Form authoring, public viewing and submission intake.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
