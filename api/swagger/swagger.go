// Package swagger serves a hand-maintained OpenAPI document for the API.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Workshop Booking API",
        "description": "Workshop catalog, booking and enrollment backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Booking", "description": "Public booking flow"},
        {"name": "Catalog", "description": "Workshops and batches"},
        {"name": "Auth", "description": "Admin authentication"},
        {"name": "Admin", "description": "Admin CMS"}
    ],
    "paths": {
        "/verify-student": {
            "post": {
                "tags": ["Booking"],
                "summary": "Verify a returning student by email or phone",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyContactRequest"}}
                ],
                "responses": {
                    "200": {"description": "Lookup result with success flag"}
                }
            }
        },
        "/students": {
            "post": {
                "tags": ["Booking"],
                "summary": "Register a new student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/workshops": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List active workshops",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workshops/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get workshop detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/workshops/{id}/batches": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List available batches grouped by date",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payment/order": {
            "post": {
                "tags": ["Booking"],
                "summary": "Create a payment order for a booking",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOrderRequest"}}
                ],
                "responses": {
                    "200": {"description": "Order with checkout session token"},
                    "409": {"description": "Batch has no remaining seats"}
                }
            }
        },
        "/payment/verify": {
            "post": {
                "tags": ["Booking"],
                "summary": "Verify a payment after checkout return",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyPaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verified payment with enrollment"},
                    "400": {"description": "Payment was not successful"},
                    "409": {"description": "Already enrolled"}
                }
            }
        },
        "/enrollment": {
            "post": {
                "tags": ["Booking"],
                "summary": "Record an enrollment for a paid booking",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Enrollment recorded"},
                    "409": {"description": "Already enrolled"}
                }
            }
        },
        "/admin/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Access token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/admin/enrollments": {
            "get": {
                "tags": ["Admin"],
                "summary": "List enrollments",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "batchId", "in": "query", "type": "string"},
                    {"name": "workshopId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/batches/{id}/roster/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export a batch roster as CSV or PDF",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Roster file"}
                }
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "VerifyContactRequest": {
            "type": "object",
            "required": ["type", "value"],
            "properties": {
                "type": {"type": "string", "enum": ["email", "phone"]},
                "value": {"type": "string"},
                "workshopId": {"type": "string"},
                "batchId": {"type": "string"}
            }
        },
        "RegisterStudentRequest": {
            "type": "object",
            "required": ["full_name", "email", "phone"],
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "pincode": {"type": "string"}
            }
        },
        "CreateOrderRequest": {
            "type": "object",
            "required": ["workshopId", "batchId", "studentId"],
            "properties": {
                "workshopId": {"type": "string"},
                "batchId": {"type": "string"},
                "studentId": {"type": "string"},
                "amount": {"type": "integer", "description": "Amount in cents; defaults to the workshop fee"}
            }
        },
        "VerifyPaymentRequest": {
            "type": "object",
            "required": ["orderId"],
            "properties": {
                "orderId": {"type": "string"}
            }
        },
        "EnrollRequest": {
            "type": "object",
            "required": ["studentId", "batchId", "paymentStatus"],
            "properties": {
                "studentId": {"type": "string"},
                "batchId": {"type": "string"},
                "workshopId": {"type": "string"},
                "paymentStatus": {"type": "string"},
                "orderId": {"type": "string"},
                "transactionId": {"type": "string"},
                "amount": {"type": "integer"},
                "method": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
