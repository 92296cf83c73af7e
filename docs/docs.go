// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g internal/api/router.go
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
    "paths": {
        "/vault": {
            "delete": {"tags": ["vault"], "summary": "Delete wallet", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}}}}
        },
        "/vault/setup": {
            "post": {"tags": ["vault"], "summary": "Create wallet vault",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.SetupRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SetupResponse"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}}}
        },
        "/vault/status": {
            "get": {"tags": ["vault"], "summary": "Vault status", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.StatusResponse"}}}}
        },
        "/vault/verify": {
            "post": {"tags": ["vault"], "summary": "Verify password",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.PasswordRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.VerifyResponse"}}}}
        },
        "/vault/password": {
            "post": {"tags": ["vault"], "summary": "Change password",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.ChangePasswordRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}}}
        },
        "/vault/export": {
            "get": {"tags": ["vault"], "summary": "Export encrypted backup", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.EncryptedBlob"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}}}
        },
        "/vault/import": {
            "post": {"tags": ["vault"], "summary": "Restore encrypted backup",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.EncryptedBlob"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}}}
        },
        "/recovery": {
            "delete": {"tags": ["recovery"], "summary": "Delete recovery set", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}}}}
        },
        "/recovery/catalog": {
            "get": {"tags": ["recovery"], "summary": "Random questions for setup",
                "parameters": [{"in": "query", "name": "n", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.QuestionsResponse"}}}}
        },
        "/recovery/answers": {
            "post": {"tags": ["recovery"], "summary": "Store recovery answers",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.AnswersRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}}}
        },
        "/recovery/verify": {
            "post": {"tags": ["recovery"], "summary": "Verify recovery answers",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.AnswersRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.VerifyResponse"}}}}
        },
        "/recovery/questions": {
            "get": {"tags": ["recovery"], "summary": "Stored recovery questions", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.QuestionsResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}}}
        },
        "/recovery/reset": {
            "post": {"tags": ["recovery"], "summary": "Reset password after answering security questions",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.ResetRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}}}
        },
        "/session/account": {
            "get": {"tags": ["session"], "summary": "Active account", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ActiveAccount"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}}},
            "put": {"tags": ["session"], "summary": "Connect account",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/model.ActiveAccountRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ActiveAccount"}}}},
            "delete": {"tags": ["session"], "summary": "Log out", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}}}}
        }
    },
    "definitions": {
        "model.ActiveAccount": {"type": "object", "properties": {"address": {"type": "string"}, "connectedAt": {"type": "integer"}}},
        "model.ActiveAccountRequest": {"type": "object", "properties": {"address": {"type": "string"}}},
        "model.AnswersRequest": {"type": "object", "properties": {"answers": {"type": "array", "items": {"$ref": "#/definitions/model.RecoveryAnswer"}}}},
        "model.ChangePasswordRequest": {"type": "object", "properties": {"oldPassword": {"type": "string"}, "newPassword": {"type": "string"}}},
        "model.EncryptedBlob": {"type": "object", "properties": {"encryptedData": {"type": "string"}, "salt": {"type": "string"}, "iv": {"type": "string"}, "iterations": {"type": "integer"}, "algorithm": {"type": "string"}}},
        "model.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "string"}}},
        "model.MessageResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}},
        "model.PasswordRequest": {"type": "object", "properties": {"password": {"type": "string"}}},
        "model.Question": {"type": "object", "properties": {"id": {"type": "string"}, "text": {"type": "string"}}},
        "model.QuestionsResponse": {"type": "object", "properties": {"questions": {"type": "array", "items": {"$ref": "#/definitions/model.Question"}}}},
        "model.RecoveryAnswer": {"type": "object", "properties": {"questionId": {"type": "string"}, "answer": {"type": "string"}}},
        "model.ResetRequest": {"type": "object", "properties": {"answers": {"type": "array", "items": {"$ref": "#/definitions/model.RecoveryAnswer"}}, "oldPassword": {"type": "string"}, "newPassword": {"type": "string"}}},
        "model.SetupRequest": {"type": "object", "properties": {"password": {"type": "string"}, "mnemonic": {"type": "string"}}},
        "model.SetupResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "address": {"type": "string"}, "QR": {"type": "string"}}},
        "model.StatusResponse": {"type": "object", "properties": {"walletExists": {"type": "boolean"}, "recoverySetExists": {"type": "boolean"}}},
        "model.VerifyResponse": {"type": "object", "properties": {"valid": {"type": "boolean"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Local Vault API",
	Description:      "Loopback API over the local wallet vault, recovery questions and session storage.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
