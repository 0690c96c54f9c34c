// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g server/main.go -o api/docs`.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/trajets": {
            "get": {
                "tags": ["trajets"],
                "summary": "Search trajets",
                "parameters": [
                    {"type": "string", "name": "depart", "in": "query"},
                    {"type": "string", "name": "arrivee", "in": "query"},
                    {"type": "integer", "name": "prix_max", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        },
        "/reservations": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["reservations"],
                "summary": "Book places on a trajet",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/reservations.CreateReservationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/reservations/{id}/pay": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["reservations"],
                "summary": "Start a FedaPay payment for a pending reservation",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/reservations/{id}/receipt": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "tags": ["reservations"],
                "summary": "Download the PDF receipt of a confirmed reservation",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "layout", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        },
        "/payments/webhook": {
            "post": {
                "tags": ["payments"],
                "summary": "FedaPay webhook",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/analytics/admin/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["analytics"],
                "summary": "Platform dashboard",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        }
    },
    "definitions": {
        "response.StandardApiResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "status_code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {},
                "errors": {}
            }
        },
        "reservations.CreateReservationRequest": {
            "type": "object",
            "properties": {
                "trajet_id": {"type": "string"},
                "nb_places": {"type": "integer"},
                "date_voyage": {"type": "string"},
                "horaire": {"type": "string"},
                "nom_passager": {"type": "string"},
                "telephone_passager": {"type": "string"},
                "email_passager": {"type": "string"},
                "moyen_paiement": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Bus Benin API",
	Description:      "Bus ticket booking for Benin with FedaPay mobile money payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
