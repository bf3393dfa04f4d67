// Package docs holds the swagger document served at /swagger. Regenerate with
//
//	swag init -g internal/server/swagger.go -o internal/server/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "phishview maintainers",
            "url": "https://github.com/raysh454/phishview"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["text/html"],
                "summary": "Analysis page",
                "responses": {
                    "200": {"description": "HTML page", "schema": {"type": "string"}}
                }
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "summary": "Submit a URL from the page form",
                "parameters": [
                    {"type": "string", "description": "URL to analyze", "name": "url", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Page with the verdict rendered", "schema": {"type": "string"}},
                    "400": {"description": "Page with the URL field marked invalid", "schema": {"type": "string"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "502": {"description": "Page with the error banner shown", "schema": {"type": "string"}}
                }
            }
        },
        "/analyze": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "summary": "Proxy to the analysis backend",
                "parameters": [
                    {"type": "string", "description": "URL to analyze", "name": "url", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Result"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/render": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Analyze a URL and return the rendered view",
                "parameters": [
                    {"description": "URL to analyze", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.RenderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/render.State"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.HealthResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Send {\"url\": \"...\"} messages. The server pushes hello, busy, idle, invalid, alert and result events; results of superseded submissions are never pushed.",
                "summary": "Live analysis session",
                "responses": {
                    "101": {"description": "Switching Protocols", "schema": {"$ref": "#/definitions/server.Event"}}
                }
            }
        }
    },
    "definitions": {
        "model.Threat": {
            "type": "object",
            "properties": {
                "threat_type": {"type": "string", "example": "MALWARE"},
                "platform_type": {"type": "string", "example": "WINDOWS"},
                "threat_entry_type": {"type": "string", "example": "URL"}
            }
        },
        "model.SafeBrowsing": {
            "type": "object",
            "properties": {
                "is_safe": {"type": "boolean"},
                "threats": {"type": "array", "items": {"$ref": "#/definitions/model.Threat"}}
            }
        },
        "model.Result": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "probability": {"type": "number", "example": 75.3},
                "risk_level": {"type": "string", "example": "High"},
                "is_phishing": {"type": "boolean"},
                "safe_browsing": {"$ref": "#/definitions/model.SafeBrowsing"},
                "features": {"type": "object", "additionalProperties": true}
            }
        },
        "render.Item": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "class": {"type": "string"}
            }
        },
        "render.State": {
            "type": "object",
            "properties": {
                "visible": {"type": "boolean"},
                "meter_width": {"type": "number"},
                "meter_class": {"type": "string"},
                "risk_level": {"type": "string"},
                "alert_class": {"type": "string"},
                "heading": {"type": "string"},
                "message": {"type": "string"},
                "risk_details": {"type": "string"},
                "safe_browsing_message": {"type": "string"},
                "threats": {"type": "array", "items": {"$ref": "#/definitions/render.Item"}},
                "features": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "server.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "URL is required"},
                "detail": {"type": "string", "example": "analysis backend returned HTTP 500"}
            }
        },
        "server.Event": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "result"},
                "seq": {"type": "integer", "example": 3},
                "session": {"type": "string"},
                "message": {"type": "string"},
                "view": {"$ref": "#/definitions/render.State"}
            }
        },
        "server.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "server.RenderRequest": {
            "type": "object",
            "properties": {
                "url": {"type": "string", "example": "https://paypa1-login.example.com/verify"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "phishview API",
	Description:      "Frontend surface for submitting URLs to a phishing analysis backend and rendering its verdicts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
