// Package docs holds the Swagger document served under /docs. It follows the
// swag output layout; rerun go generate after changing handler annotations.
package docs

//go:generate swag init -d ../ -g cmd/bot/main.go -o ./ --outputTypes go

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
        "/aggregate": {
            "post": {
                "description": "Sums event values per hour, day or month between dt_from and dt_upto (both inclusive)",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Aggregation"
                ],
                "summary": "Aggregate events into calendar buckets",
                "parameters": [
                    {
                        "description": "Aggregation query",
                        "name": "query",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/fiber.AggregateRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/fiber.AggregateResponse"
                        }
                    },
                    "400": {
                        "description": "Error occured, try to send a valid json",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "Error occured, try to send a valid json",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Liveness check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/fiber.HealthResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "fiber.AggregateRequest": {
            "type": "object",
            "properties": {
                "dt_from": {
                    "type": "string",
                    "example": "2022-09-01T00:00:00"
                },
                "dt_upto": {
                    "type": "string",
                    "example": "2022-12-31T23:59:00"
                },
                "group_type": {
                    "type": "string",
                    "enum": [
                        "hour",
                        "day",
                        "month"
                    ],
                    "example": "month"
                }
            }
        },
        "fiber.AggregateResponse": {
            "type": "object",
            "properties": {
                "dataset": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    },
                    "example": [
                        5906586,
                        5515874,
                        5889803,
                        6092634
                    ]
                },
                "labels": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    },
                    "example": [
                        "2022-09-01T00:00:00",
                        "2022-10-01T00:00:00",
                        "2022-11-01T00:00:00",
                        "2022-12-01T00:00:00"
                    ]
                }
            }
        },
        "fiber.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "example": "ok"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Event Aggregation API",
	Description:      "Aggregates timestamped event values into hourly, daily or monthly buckets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
