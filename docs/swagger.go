// Package docs registers the OpenAPI description of the HTTP surface with
// swag so gin-swagger can serve it.
package docs

import "github.com/swaggo/swag"

// @title           Taskboard Sync API
// @version         1.0
// @description     Shared kanban board kept in sync over a websocket.

// @host      localhost:8080
// @BasePath  /

// @tag.name Board
// @tag.description Board snapshot and sync stream

// @tag.name Health
// @tag.description Liveness

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
        "/board": {
            "get": {
                "description": "Returns the same payload a websocket client receives as initialData",
                "produces": ["application/json"],
                "tags": ["Board"],
                "summary": "Board snapshot",
                "parameters": [
                    {"type": "string", "description": "caller's user id (or X-User-ID header)", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/protocol.InitialData"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Upgrades to a websocket carrying {\"event\",\"data\"} frames in both directions",
                "tags": ["Board"],
                "summary": "Board sync stream",
                "parameters": [
                    {"type": "string", "description": "caller's user id (or X-User-ID header)", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "model.Column": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "taskIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.Comment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "author": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "model.Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"},
                "comments": {"type": "array", "items": {"$ref": "#/definitions/model.Comment"}},
                "dueDate": {"type": "string", "format": "date-time", "x-nullable": true},
                "assignedTo": {"type": "string", "x-nullable": true}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "avatar": {"type": "string"}
            }
        },
        "model.ActiveUser": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "action": {"type": "string", "enum": ["editing-column", "editing-task"]},
                "itemId": {"type": "string", "x-nullable": true},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "protocol.InitialData": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"$ref": "#/definitions/model.Column"}},
                "columnOrder": {"type": "array", "items": {"type": "string"}},
                "tasks": {"type": "object", "additionalProperties": {"$ref": "#/definitions/model.Task"}},
                "users": {"type": "object", "additionalProperties": {"$ref": "#/definitions/model.User"}},
                "onlineUsers": {"type": "integer"},
                "activeUsers": {"type": "object", "additionalProperties": {"$ref": "#/definitions/model.ActiveUser"}},
                "currentHistoryIndex": {"type": "integer"},
                "historyLength": {"type": "integer"},
                "canUndo": {"type": "boolean"},
                "canRedo": {"type": "boolean"}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Taskboard Sync API",
	Description:      "Shared kanban board kept in sync over a websocket.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
