// Package docs registers the admin OpenAPI document with swag.
package docs

import "github.com/swaggo/swag"

// InstanceName is the swag instance the Swagger UI reads from.
const InstanceName = "admin"

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
        "/health": {
            "get": {"tags": ["Health"], "summary": "Health Check", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/overview": {
            "get": {"tags": ["Admin"], "summary": "Dashboard overview", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}
        },
        "/admin/payments": {
            "get": {"tags": ["Payments"], "summary": "Payment overview", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}
        },
        "/admin/payments/monthly": {
            "get": {
                "tags": ["Payments"], "summary": "Monthly revenue", "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "calendar year", "name": "year", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/admin/payments/drivers/{driver_id}": {
            "get": {
                "tags": ["Payments"], "summary": "Driver payments", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "driver id", "name": "driver_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/admin/payments/drivers/{driver_id}/mark-paid": {
            "post": {
                "tags": ["Payments"], "summary": "Mark a driver's payments as paid", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "driver id", "name": "driver_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/admin/reports/rides": {
            "get": {
                "tags": ["Reports"], "summary": "Rides report",
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"enum": ["csv", "xlsx"], "type": "string", "description": "csv or xlsx", "name": "format", "in": "query"},
                    {"type": "string", "description": "All or an English month name", "name": "month", "in": "query"},
                    {"type": "string", "description": "case-insensitive driver name fragment", "name": "driver", "in": "query"},
                    {"type": "string", "description": "lower date bound", "name": "from", "in": "query"},
                    {"type": "string", "description": "upper date bound, a bare date includes the whole day", "name": "to", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/admin/reports/payments": {
            "get": {
                "tags": ["Reports"], "summary": "Payments report",
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"enum": ["csv", "xlsx"], "type": "string", "description": "csv or xlsx", "name": "format", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}, "502": {"description": "Bad Gateway"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3004",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CarPool Admin API",
	Description:      "Admin dashboard service for CarPool. Reconciles driver payments, builds monthly revenue and ride statistics, and exports CSV/XLSX reports from the CarPool backend.",
	InfoInstanceName: InstanceName,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
