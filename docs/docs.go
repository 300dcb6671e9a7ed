// Package docs registers the OpenAPI description served at /swagger. It
// follows the layout swag init writes; keep it in step with the handler
// annotations when routes change.
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
                "description": "Verify email and password and set the http-only session cookie.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Sign in",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Signed in",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.User"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "401": {
                        "description": "Invalid credentials",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "description": "Delete the current session and clear the cookie.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Sign out",
                "responses": {
                    "200": {
                        "description": "Signed out",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/handler.MessageResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Current user",
                "responses": {
                    "200": {
                        "description": "Signed-in user",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.User"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/auth/register": {
            "post": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Create a staff or admin account (admin only). A welcome email is sent.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Register a user",
                "parameters": [
                    {
                        "description": "User details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.CreateUserRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "User created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.User"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "403": {
                        "description": "Forbidden - admin only",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "409": {
                        "description": "Email already registered",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/bill": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "List bills",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Bill number, supplier or party name",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "paid or unpaid",
                        "name": "payment_status",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Supplier ID",
                        "name": "supplier_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Party ID",
                        "name": "party_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Earliest bill date (YYYY-MM-DD)",
                        "name": "from",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Latest bill date (YYYY-MM-DD)",
                        "name": "to",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Offset for pagination",
                        "name": "offset",
                        "in": "query",
                        "default": 0
                    },
                    {
                        "type": "integer",
                        "description": "Limit for pagination (max 100)",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Bills",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/domain.Bill"
                                            }
                                        },
                                        "meta": {
                                            "$ref": "#/definitions/handler.PagMeta"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid filter",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/bill/export": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Download the bills matching the list filters as an XLSX workbook (sheets Bills and Items) or a CSV file.",
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
                    "text/csv"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "Export bills",
                "parameters": [
                    {
                        "type": "string",
                        "description": "xlsx or csv",
                        "name": "format",
                        "in": "query",
                        "default": "xlsx"
                    },
                    {
                        "type": "string",
                        "description": "Bill number, supplier or party name",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "paid or unpaid",
                        "name": "payment_status",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Earliest bill date (YYYY-MM-DD)",
                        "name": "from",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Latest bill date (YYYY-MM-DD)",
                        "name": "to",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Export file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Invalid filter or format",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/bill/match": {
            "post": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Returns candidates matching the supplier and party of a BillData by name (substring, case-insensitive) or exact GSTIN.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "Find existing suppliers and parties for extracted data",
                "parameters": [
                    {
                        "description": "Extracted bill data",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/domain.BillData"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Candidates",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.MatchCandidates"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid body",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/bill/process": {
            "post": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Accepts JSON {\"billImage\": \"<data URL or base64>\"} or a multipart form with a billImage file. The image is read by the configured vision model.",
                "consumes": [
                    "application/json",
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "Extract bill data from an image",
                "parameters": [
                    {
                        "description": "Base64 image",
                        "name": "request",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/handler.ProcessBillRequest"
                        }
                    },
                    {
                        "type": "file",
                        "description": "Bill image (jpg, png, webp)",
                        "name": "billImage",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Extracted bill data",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/service.ExtractResult"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Missing, unsupported or oversized image",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "500": {
                        "description": "Extraction failed",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/bill/save": {
            "post": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Validates the submission, then creates any new supplier or party, the bill and its items in one transaction.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "Save a reviewed bill",
                "parameters": [
                    {
                        "description": "Bill submission",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.SaveBillRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Bill saved",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.Bill"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "Supplier or party not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "409": {
                        "description": "Duplicate bill or GSTIN",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "413": {
                        "description": "Body larger than 1 MiB",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "503": {
                        "description": "Store timeout",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/bill/{id}": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "Get bill by ID",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Bill ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Bill with items, supplier and party",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.Bill"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid ID",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "Bill not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Partial update; a present items array replaces every line item.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "Update a bill",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Bill ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to update",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.UpdateBillRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Bill updated",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.Bill"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "Bill, supplier or party not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "409": {
                        "description": "Duplicate bill",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "413": {
                        "description": "Body larger than 1 MiB",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "Delete a bill",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Bill ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Bill deleted",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/handler.MessageResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Bill not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/dashboard/stats": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Totals, monthly paid/unpaid sums for the last six months and the top suppliers and parties by billed amount.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "dashboard"
                ],
                "summary": "Dashboard statistics",
                "responses": {
                    "200": {
                        "description": "Aggregate statistics",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.DashboardStats"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/party": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "List suppliers or parties",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Offset for pagination",
                        "name": "offset",
                        "in": "query",
                        "default": 0
                    },
                    {
                        "type": "integer",
                        "description": "Limit for pagination (max 100)",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Contacts with bill counts",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/domain.Contact"
                                            }
                                        },
                                        "meta": {
                                            "$ref": "#/definitions/handler.PagMeta"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Creates the address, phone and contact in one transaction.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Create a supplier or party",
                "parameters": [
                    {
                        "description": "Contact details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.ContactRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Contact created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.Contact"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "409": {
                        "description": "GSTIN already registered",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "413": {
                        "description": "Body larger than 1 MiB",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/party/match": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Find suppliers or parties by name or GSTIN",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Name substring (case-insensitive)",
                        "name": "name",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Exact GSTIN",
                        "name": "gstin",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Candidates",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/domain.Contact"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/party/{id}": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Get a supplier or party",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Contact ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Contact with address and phone",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.Contact"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Update a supplier or party",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Contact ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to update",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.ContactRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Contact updated",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.Contact"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "409": {
                        "description": "GSTIN already registered",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "413": {
                        "description": "Body larger than 1 MiB",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Refused while any bill references the contact. Admin only.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Delete a supplier or party",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Contact ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Contact deleted",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/handler.MessageResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Contact has bills",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "403": {
                        "description": "Forbidden - admin only",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/party/{id}/bills": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Bills of a supplier or party",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Contact ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Offset for pagination",
                        "name": "offset",
                        "in": "query",
                        "default": 0
                    },
                    {
                        "type": "integer",
                        "description": "Limit for pagination (max 100)",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Bills",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/domain.Bill"
                                            }
                                        },
                                        "meta": {
                                            "$ref": "#/definitions/handler.PagMeta"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/supplier": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "List suppliers or parties",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Offset for pagination",
                        "name": "offset",
                        "in": "query",
                        "default": 0
                    },
                    {
                        "type": "integer",
                        "description": "Limit for pagination (max 100)",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Contacts with bill counts",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/domain.Contact"
                                            }
                                        },
                                        "meta": {
                                            "$ref": "#/definitions/handler.PagMeta"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Creates the address, phone and contact in one transaction.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Create a supplier or party",
                "parameters": [
                    {
                        "description": "Contact details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.ContactRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Contact created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.Contact"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "409": {
                        "description": "GSTIN already registered",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "413": {
                        "description": "Body larger than 1 MiB",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/supplier/match": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Find suppliers or parties by name or GSTIN",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Name substring (case-insensitive)",
                        "name": "name",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Exact GSTIN",
                        "name": "gstin",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Candidates",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/domain.Contact"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/supplier/{id}": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Get a supplier or party",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Contact ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Contact with address and phone",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.Contact"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Update a supplier or party",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Contact ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to update",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.ContactRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Contact updated",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.Contact"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "409": {
                        "description": "GSTIN already registered",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "413": {
                        "description": "Body larger than 1 MiB",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Refused while any bill references the contact. Admin only.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Delete a supplier or party",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Contact ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Contact deleted",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/handler.MessageResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Contact has bills",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "403": {
                        "description": "Forbidden - admin only",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/supplier/{id}/bills": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contacts"
                ],
                "summary": "Bills of a supplier or party",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Contact ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Offset for pagination",
                        "name": "offset",
                        "in": "query",
                        "default": 0
                    },
                    {
                        "type": "integer",
                        "description": "Limit for pagination (max 100)",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Bills",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/domain.Bill"
                                            }
                                        },
                                        "meta": {
                                            "$ref": "#/definitions/handler.PagMeta"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/user": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "List users",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Offset for pagination",
                        "name": "offset",
                        "in": "query",
                        "default": 0
                    },
                    {
                        "type": "integer",
                        "description": "Limit for pagination (max 100)",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "List of users",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/domain.User"
                                            }
                                        },
                                        "meta": {
                                            "$ref": "#/definitions/handler.PagMeta"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "403": {
                        "description": "Forbidden - admin only",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Create a user",
                "parameters": [
                    {
                        "description": "User details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.CreateUserRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "User created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.User"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "403": {
                        "description": "Forbidden - admin only",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "409": {
                        "description": "Email already registered",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        },
        "/user/{id}": {
            "get": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Get user by ID",
                "parameters": [
                    {
                        "type": "string",
                        "description": "User ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "User details",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.User"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Invalid ID",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "description": "Changing the password signs the user out everywhere.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Update a user",
                "parameters": [
                    {
                        "type": "string",
                        "description": "User ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to update",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.UpdateUserRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "User updated",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/domain.User"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "SessionCookie": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Delete a user",
                "parameters": [
                    {
                        "type": "string",
                        "description": "User ID (UUID)",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "User deleted",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/handler.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/handler.MessageResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "403": {
                        "description": "Cannot delete own account",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "$ref": "#/definitions/handler.ErrorResponseBody"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.Address": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "street": {
                    "type": "string",
                    "example": "12 MG Road"
                },
                "city": {
                    "type": "string",
                    "example": "Pune"
                },
                "post": {
                    "type": "string",
                    "example": "Shivajinagar"
                },
                "district": {
                    "type": "string",
                    "example": "Pune"
                },
                "state": {
                    "type": "string",
                    "example": "Maharashtra"
                },
                "pincode": {
                    "type": "string",
                    "example": "411005"
                },
                "st_code": {
                    "type": "string",
                    "example": "27"
                }
            }
        },
        "domain.Bill": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "bill_number": {
                    "type": "string",
                    "example": "INV-2024-001"
                },
                "bill_date": {
                    "type": "string",
                    "example": "2024-01-15T00:00:00Z"
                },
                "location": {
                    "type": "string",
                    "example": "Pune"
                },
                "total_billed_amount": {
                    "type": "string",
                    "example": "125"
                },
                "payment_status": {
                    "type": "string",
                    "enum": [
                        "paid",
                        "unpaid"
                    ]
                },
                "supplierId": {
                    "type": "string"
                },
                "partyId": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.BillItem"
                    }
                },
                "supplier": {
                    "$ref": "#/definitions/domain.Contact"
                },
                "party": {
                    "$ref": "#/definitions/domain.Contact"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "domain.BillData": {
            "type": "object",
            "properties": {
                "bill_number": {
                    "type": "string",
                    "example": "INV-42"
                },
                "bill_date": {
                    "type": "string",
                    "example": "2024-02-10"
                },
                "location": {
                    "type": "string",
                    "example": "Pune"
                },
                "total_billed_amount": {
                    "type": "string",
                    "example": "1180.5"
                },
                "supplier": {
                    "$ref": "#/definitions/domain.ExtractedParty"
                },
                "party": {
                    "$ref": "#/definitions/domain.ExtractedParty"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.ExtractedItem"
                    }
                }
            }
        },
        "domain.BillItem": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "billId": {
                    "type": "string"
                },
                "name": {
                    "type": "string",
                    "example": "M8 hex bolt"
                },
                "hsn": {
                    "type": "string",
                    "example": "7318"
                },
                "quantity": {
                    "type": "string",
                    "example": "10"
                },
                "rate": {
                    "type": "string",
                    "example": "12.5"
                },
                "amount": {
                    "type": "string",
                    "example": "125"
                }
            }
        },
        "domain.Contact": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string",
                    "example": "Acme Traders"
                },
                "gstin": {
                    "type": "string",
                    "example": "27AAPFU0939F1ZV"
                },
                "addressId": {
                    "type": "string"
                },
                "phoneId": {
                    "type": "string"
                },
                "address": {
                    "$ref": "#/definitions/domain.Address"
                },
                "phone": {
                    "$ref": "#/definitions/domain.Phone"
                },
                "bill_count": {
                    "type": "integer",
                    "example": 3
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "domain.ContactTotal": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string",
                    "example": "Acme Traders"
                },
                "bills": {
                    "type": "integer",
                    "example": 12
                },
                "amount": {
                    "type": "string",
                    "example": "15000"
                }
            }
        },
        "domain.DashboardStats": {
            "type": "object",
            "properties": {
                "total_bills": {
                    "type": "integer",
                    "example": 42
                },
                "total_amount": {
                    "type": "string",
                    "example": "52000"
                },
                "paid_amount": {
                    "type": "string",
                    "example": "40000"
                },
                "unpaid_amount": {
                    "type": "string",
                    "example": "12000"
                },
                "supplier_count": {
                    "type": "integer",
                    "example": 8
                },
                "party_count": {
                    "type": "integer",
                    "example": 5
                },
                "monthly": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.MonthlyTotal"
                    }
                },
                "top_suppliers": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.ContactTotal"
                    }
                },
                "top_parties": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.ContactTotal"
                    }
                }
            }
        },
        "domain.ExtractedAddress": {
            "type": "object",
            "properties": {
                "street": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "state": {
                    "type": "string"
                },
                "pincode": {
                    "type": "string"
                }
            }
        },
        "domain.ExtractedItem": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "hsn": {
                    "type": "string"
                },
                "quantity": {
                    "type": "string",
                    "example": "10"
                },
                "rate": {
                    "type": "string",
                    "example": "12.5"
                },
                "amount": {
                    "type": "string",
                    "example": "125"
                }
            }
        },
        "domain.ExtractedParty": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "gstin": {
                    "type": "string"
                },
                "address": {
                    "$ref": "#/definitions/domain.ExtractedAddress"
                },
                "phone": {
                    "$ref": "#/definitions/domain.ExtractedPhone"
                }
            }
        },
        "domain.ExtractedPhone": {
            "type": "object",
            "properties": {
                "office": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "mobile": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "domain.MatchCandidates": {
            "type": "object",
            "properties": {
                "suppliers": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Contact"
                    }
                },
                "parties": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Contact"
                    }
                }
            }
        },
        "domain.MonthlyTotal": {
            "type": "object",
            "properties": {
                "month": {
                    "type": "string",
                    "example": "2024-01"
                },
                "paid": {
                    "type": "string",
                    "example": "1000"
                },
                "unpaid": {
                    "type": "string",
                    "example": "250"
                }
            }
        },
        "domain.Phone": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "office": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    },
                    "example": [
                        "020-25501234"
                    ]
                },
                "mobile": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    },
                    "example": [
                        "9876543210"
                    ]
                }
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string",
                    "example": "Asha Patil"
                },
                "email": {
                    "type": "string",
                    "example": "asha@billdesk.local"
                },
                "role": {
                    "type": "string",
                    "enum": [
                        "ADMIN",
                        "STAFF"
                    ]
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "handler.AddressRequest": {
            "type": "object",
            "required": [
                "pincode",
                "state"
            ],
            "properties": {
                "street": {
                    "type": "string",
                    "example": "12 MG Road"
                },
                "city": {
                    "type": "string",
                    "example": "Pune"
                },
                "post": {
                    "type": "string",
                    "example": "Shivajinagar"
                },
                "district": {
                    "type": "string",
                    "example": "Pune"
                },
                "state": {
                    "type": "string",
                    "example": "Maharashtra"
                },
                "pincode": {
                    "type": "string",
                    "example": "411005"
                },
                "st_code": {
                    "type": "string",
                    "example": "27"
                }
            }
        },
        "handler.BillItemRequest": {
            "type": "object",
            "required": [
                "amount",
                "hsn",
                "name",
                "quantity",
                "rate"
            ],
            "properties": {
                "name": {
                    "type": "string",
                    "example": "M8 hex bolt"
                },
                "hsn": {
                    "type": "string",
                    "example": "7318"
                },
                "quantity": {
                    "type": "number",
                    "example": 10
                },
                "rate": {
                    "type": "number",
                    "example": 12.5
                },
                "amount": {
                    "type": "number",
                    "example": 125
                }
            }
        },
        "handler.ContactRequest": {
            "type": "object",
            "required": [
                "gstin",
                "name"
            ],
            "properties": {
                "name": {
                    "type": "string",
                    "example": "Acme Traders"
                },
                "gstin": {
                    "type": "string",
                    "example": "27AAPFU0939F1ZV"
                },
                "address": {
                    "$ref": "#/definitions/handler.AddressRequest"
                },
                "phone": {
                    "$ref": "#/definitions/handler.PhoneRequest"
                }
            }
        },
        "handler.CreateUserRequest": {
            "type": "object",
            "required": [
                "email",
                "name",
                "password"
            ],
            "properties": {
                "name": {
                    "type": "string",
                    "example": "Asha Patil"
                },
                "email": {
                    "type": "string",
                    "example": "asha@billdesk.local"
                },
                "password": {
                    "type": "string",
                    "example": "securepassword123"
                },
                "role": {
                    "type": "string",
                    "enum": [
                        "ADMIN",
                        "STAFF"
                    ],
                    "example": "STAFF"
                }
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean",
                    "example": false
                },
                "message": {
                    "type": "string",
                    "example": "Validation failed"
                },
                "status": {
                    "type": "integer",
                    "example": 400
                },
                "errors": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": [
                "email",
                "password"
            ],
            "properties": {
                "email": {
                    "type": "string",
                    "example": "admin@billdesk.local"
                },
                "password": {
                    "type": "string",
                    "example": "securepassword123"
                }
            }
        },
        "handler.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string",
                    "example": "operation completed successfully"
                }
            }
        },
        "handler.PagMeta": {
            "type": "object",
            "properties": {
                "total": {
                    "type": "integer"
                },
                "offset": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                }
            }
        },
        "handler.PhoneRequest": {
            "type": "object",
            "required": [
                "mobile"
            ],
            "properties": {
                "office": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    },
                    "example": [
                        "020-25501234"
                    ]
                },
                "mobile": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    },
                    "example": [
                        "9876543210"
                    ]
                }
            }
        },
        "handler.ProcessBillRequest": {
            "type": "object",
            "properties": {
                "billImage": {
                    "type": "string",
                    "example": "data:image/jpeg;base64,/9j/4AAQSkZJRgABAQ..."
                }
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean",
                    "example": true
                },
                "data": {},
                "message": {
                    "type": "string",
                    "example": "Bill saved successfully"
                },
                "status": {
                    "type": "integer",
                    "example": 200
                },
                "meta": {
                    "$ref": "#/definitions/handler.PagMeta"
                }
            }
        },
        "handler.SaveBillRequest": {
            "type": "object",
            "required": [
                "bill_date",
                "bill_number",
                "items",
                "location",
                "payment_status",
                "total_billed_amount"
            ],
            "properties": {
                "bill_number": {
                    "type": "string",
                    "example": "INV-2024-001"
                },
                "bill_date": {
                    "type": "string",
                    "example": "2024-01-15"
                },
                "location": {
                    "type": "string",
                    "example": "Pune"
                },
                "total_billed_amount": {
                    "type": "number",
                    "example": 125
                },
                "payment_status": {
                    "type": "string",
                    "example": "unpaid"
                },
                "supplierId": {
                    "type": "string",
                    "example": "550e8400-e29b-41d4-a716-446655440000"
                },
                "newSupplier": {
                    "$ref": "#/definitions/handler.ContactRequest"
                },
                "partyId": {
                    "type": "string",
                    "example": "660e8400-e29b-41d4-a716-446655440001"
                },
                "newParty": {
                    "$ref": "#/definitions/handler.ContactRequest"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/handler.BillItemRequest"
                    }
                }
            }
        },
        "handler.UpdateBillRequest": {
            "type": "object",
            "properties": {
                "bill_number": {
                    "type": "string",
                    "example": "INV-2024-001A"
                },
                "bill_date": {
                    "type": "string",
                    "example": "2024-01-16"
                },
                "location": {
                    "type": "string",
                    "example": "Mumbai"
                },
                "total_billed_amount": {
                    "type": "number",
                    "example": 250
                },
                "payment_status": {
                    "type": "string",
                    "example": "paid"
                },
                "supplierId": {
                    "type": "string"
                },
                "partyId": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/handler.BillItemRequest"
                    }
                }
            }
        },
        "handler.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string",
                    "example": "Asha P."
                },
                "email": {
                    "type": "string",
                    "example": "asha.p@billdesk.local"
                },
                "password": {
                    "type": "string",
                    "example": "newpassword456"
                },
                "role": {
                    "type": "string",
                    "enum": [
                        "ADMIN",
                        "STAFF"
                    ],
                    "example": "ADMIN"
                }
            }
        },
        "service.ExtractResult": {
            "type": "object",
            "properties": {
                "bill_number": {
                    "type": "string",
                    "example": "INV-42"
                },
                "bill_date": {
                    "type": "string",
                    "example": "2024-02-10"
                },
                "location": {
                    "type": "string",
                    "example": "Pune"
                },
                "total_billed_amount": {
                    "type": "string",
                    "example": "1180.5"
                },
                "supplier": {
                    "$ref": "#/definitions/domain.ExtractedParty"
                },
                "party": {
                    "$ref": "#/definitions/domain.ExtractedParty"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.ExtractedItem"
                    }
                },
                "image_key": {
                    "type": "string",
                    "example": "scans/2024/02/3f2c.png"
                },
                "image_url": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "SessionCookie": {
            "type": "apiKey",
            "name": "bill_session",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Billdesk API",
	Description:      "Bill capture and management: image extraction, supplier and party records, bills and exports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
