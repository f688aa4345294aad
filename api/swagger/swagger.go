package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Deputat Planner API",
        "description": "Teaching-load allocation and staffing reports for secondary schools.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Planning",
            "description": "Optimizer runs, assignments and team teaching"
        },
        {
            "name": "Staffing",
            "description": "Hour demand and staffing reports"
        },
        {
            "name": "Catalogue",
            "description": "Master data read by the planner"
        },
        {
            "name": "Observability",
            "description": "Metrics"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "Database unreachable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/metrics/summary": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "In-process metrics snapshot (ADMIN)",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/teachers": {
            "get": {
                "tags": [
                    "Catalogue"
                ],
                "summary": "List teachers with workload",
                "parameters": [
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "active",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/teachers/{id}": {
            "get": {
                "tags": [
                    "Catalogue"
                ],
                "summary": "Get teacher workload",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/subjects": {
            "get": {
                "tags": [
                    "Catalogue"
                ],
                "summary": "List subjects",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/parallel-groups": {
            "get": {
                "tags": [
                    "Catalogue"
                ],
                "summary": "List parallel groups",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/classes/{schoolYear}": {
            "get": {
                "tags": [
                    "Catalogue"
                ],
                "summary": "List classes of a school year",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/planning/{schoolYear}/optimize": {
            "post": {
                "tags": [
                    "Planning"
                ],
                "summary": "Run the assignment optimizer",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Run already in progress",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/planning/{schoolYear}/optimize/async": {
            "post": {
                "tags": [
                    "Planning"
                ],
                "summary": "Queue an optimizer run",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/planning/{schoolYear}/assignments": {
            "get": {
                "tags": [
                    "Planning"
                ],
                "summary": "List assignments of a school year",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/planning/{schoolYear}/runs": {
            "get": {
                "tags": [
                    "Planning"
                ],
                "summary": "List recent optimizer runs",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "minimum": 1,
                        "maximum": 100
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/planning/runs/{id}": {
            "get": {
                "tags": [
                    "Planning"
                ],
                "summary": "Get one optimizer run",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/planning/{schoolYear}/team-teaching": {
            "post": {
                "tags": [
                    "Planning"
                ],
                "summary": "Form a team teaching group",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/TeamTeachingRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Inconsistent group",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/planning/{schoolYear}/team-teaching/{id}": {
            "delete": {
                "tags": [
                    "Planning"
                ],
                "summary": "Remove an assignment from its team",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/staffing/policy-defaults": {
            "get": {
                "tags": [
                    "Staffing"
                ],
                "summary": "Default staffing policy",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/staffing/{schoolYear}/grade-hours": {
            "get": {
                "tags": [
                    "Staffing"
                ],
                "summary": "Weekly hour demand per grade",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    },
                    {
                        "name": "semester",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/staffing/{schoolYear}/roster-report": {
            "get": {
                "tags": [
                    "Staffing"
                ],
                "summary": "Roster-derived staffing report",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    },
                    {
                        "name": "persist",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/staffing/{schoolYear}/policy-report": {
            "post": {
                "tags": [
                    "Staffing"
                ],
                "summary": "Administrative staffing worksheet",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    },
                    {
                        "name": "persist",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/PolicyReportRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/staffing/{schoolYear}/export": {
            "get": {
                "tags": [
                    "Staffing"
                ],
                "summary": "Download a staffing report",
                "parameters": [
                    {
                        "name": "schoolYear",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "School year, e.g. 2025-26"
                    },
                    {
                        "name": "mode",
                        "in": "query",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "roster",
                            "policy"
                        ]
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf",
                            "xlsx"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ]
            }
        }
    },
    "definitions": {
        "TeamTeachingRequest": {
            "type": "object",
            "properties": {
                "assignment_ids": {
                    "type": "array",
                    "minItems": 2,
                    "items": {
                        "type": "string"
                    }
                }
            },
            "required": [
                "assignment_ids"
            ]
        },
        "CustomLine": {
            "type": "object",
            "properties": {
                "label": {
                    "type": "string"
                },
                "hours": {
                    "type": "number"
                }
            }
        },
        "StaffingPolicy": {
            "type": "object",
            "properties": {
                "student_count": {
                    "type": "number"
                },
                "student_teacher_ratio": {
                    "type": "number"
                },
                "training_deduction": {
                    "type": "number"
                },
                "rounding_adjustment": {
                    "type": "number"
                },
                "per_position_deputat": {
                    "type": "number"
                },
                "compensation": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "number"
                    }
                },
                "other_areas": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "number"
                    }
                },
                "custom_1": {
                    "$ref": "#/definitions/CustomLine"
                },
                "custom_2": {
                    "$ref": "#/definitions/CustomLine"
                }
            }
        },
        "PolicyReportRequest": {
            "type": "object",
            "properties": {
                "policy": {
                    "$ref": "#/definitions/StaffingPolicy"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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
