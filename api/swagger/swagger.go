package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Institute Portal API",
        "description": "Institute management portal: entity store, timetable grids, conflicts, workload, bookings and exports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Institute and portal user authentication"},
        {"name": "Institutes", "description": "Institute registry"},
        {"name": "Entities", "description": "Departments, teachers and infrastructure"},
        {"name": "Timetables", "description": "Master grid, class timetables and conflicts"},
        {"name": "Workload", "description": "Computed teaching load"},
        {"name": "Bookings", "description": "Ad-hoc room reservations and availability"},
        {"name": "Exports", "description": "Synchronous renders and asynchronous export jobs"}
    ],
    "paths": {
        "/auth/institute/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an institute",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InstituteLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a portal user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/institutes": {
            "get": {
                "tags": ["Institutes"],
                "summary": "List registered institutes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Institutes"],
                "summary": "Register a new institute",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterInstituteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Code already registered"}
                }
            }
        },
        "/institutes/{code}": {
            "get": {
                "tags": ["Institutes"],
                "summary": "Get an institute summary",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Institutes"],
                "summary": "Delete an institute",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/institutes/{code}/departments": {
            "get": {
                "tags": ["Entities"],
                "summary": "List departments",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Entities"],
                "summary": "Create a department",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DepartmentRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/institutes/{code}/teachers": {
            "get": {
                "tags": ["Entities"],
                "summary": "List teachers",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Entities"],
                "summary": "Create a teacher",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/institutes/{code}/infrastructure": {
            "get": {
                "tags": ["Entities"],
                "summary": "List buildings and rooms",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/institutes/{code}/master-timetable": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get the master grid shape",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/institutes/{code}/master-timetable/periods": {
            "put": {
                "tags": ["Timetables"],
                "summary": "Replace the master period list",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePeriodsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "A period starts at or after its end"}
                }
            }
        },
        "/institutes/{code}/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List class timetables",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Timetables"],
                "summary": "Create an empty class timetable",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Timetable already exists"}
                }
            }
        },
        "/institutes/{code}/timetables/{year}/{department}/{division}/slots/{day}/{period}": {
            "put": {
                "tags": ["Timetables"],
                "summary": "Write a timetable cell",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "department", "in": "path", "required": true, "type": "string"},
                    {"name": "division", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "path", "required": true, "type": "string"},
                    {"name": "period", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SlotRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Clear a timetable cell",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "department", "in": "path", "required": true, "type": "string"},
                    {"name": "division", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "path", "required": true, "type": "string"},
                    {"name": "period", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/institutes/{code}/conflicts": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Detect teacher and room double-bookings",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/institutes/{code}/teachers/{id}/workload": {
            "get": {
                "tags": ["Workload"],
                "summary": "Get a teacher's computed workload",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/institutes/{code}/workload-report": {
            "get": {
                "tags": ["Workload"],
                "summary": "Institute-wide workload report",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/institutes/{code}/bookings": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List room bookings",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Bookings"],
                "summary": "Create a room booking",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/institutes/{code}/rooms/available": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List rooms with availability for a date and period",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/institutes/{code}/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Render a dataset synchronously",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "dataset", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/institutes/{code}/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an asynchronous export job",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export by signed token",
                "parameters": [{"name": "token", "in": "query", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "InstituteLoginRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "institute": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "teacher", "student"]},
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterInstituteRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "DepartmentRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "years": {"type": "integer"}
            }
        },
        "TeacherRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "code": {"type": "string"},
                "name": {"type": "string"},
                "department": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "UpdatePeriodsRequest": {
            "type": "object",
            "properties": {
                "periods": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "start": {"type": "string"},
                            "end": {"type": "string"}
                        }
                    }
                }
            }
        },
        "CreateTimetableRequest": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "department": {"type": "string"},
                "division": {"type": "string"}
            }
        },
        "SlotRequest": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "teacher": {"type": "string"},
                "room": {"type": "string"},
                "type": {"type": "string", "enum": ["theory", "lab", "tutorial", "other"]},
                "merged": {"type": "boolean"}
            }
        },
        "CreateBookingRequest": {
            "type": "object",
            "properties": {
                "roomId": {"type": "string"},
                "teacherId": {"type": "string"},
                "date": {"type": "string"},
                "period": {"type": "integer"},
                "purpose": {"type": "string"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "dataset": {"type": "string", "enum": ["timetables", "conflicts", "workload", "bookings"]},
                "format": {"type": "string", "enum": ["csv", "json", "pdf"]}
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
