// Package docs registers the Swagger specification served at /swagger.
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Operator login",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/capture/image": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["capture"],
                "summary": "Capture a document image",
                "responses": {"200": {"description": "OK"}, "422": {"description": "No text recognized"}}
            }
        },
        "/capture/process": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["capture"],
                "summary": "Extract and persist the captured document",
                "responses": {"200": {"description": "OK"}, "409": {"description": "No recognized text to process"}}
            }
        },
        "/capture/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["capture"],
                "summary": "Current pipeline state",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/capture/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["capture"],
                "summary": "Reset the pipeline",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/documents": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "List stored documents",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/documents/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Fetch one document",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Delete a document",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/documents/{id}/tags": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Replace a document's tags",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/documents/{id}/star": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"],
                "summary": "Star or unstar a document",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/documents/{id}/export": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["exports"],
                "summary": "Publish an export artifact",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/documents/{id}/export/xlsx": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["exports"],
                "summary": "Download the Excel export",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/documents/{id}/export/json": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["exports"],
                "summary": "Download the shareable JSON export",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/documents/{id}/export/qr": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["exports"],
                "summary": "Download the QR reference image",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jobs": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["jobs"],
                "summary": "Enqueue a background scan",
                "responses": {"201": {"description": "Created"}}
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["jobs"],
                "summary": "List scan jobs",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jobs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["jobs"],
                "summary": "Fetch one scan job",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/jobs/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["jobs"],
                "summary": "Cancel a scan job",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Job already running or finished"}}
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

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "CargoScan API",
	Description:      "Logistics document capture, extraction and export service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
