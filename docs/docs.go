// Package docs registers the OpenAPI description served under /swagger/.
// Regenerate with `swag init -g cmd/app/main.go` after changing handler annotations.
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
        "/spawns/nearby": {
            "get": {
                "produces": ["application/json"],
                "tags": ["hunt"],
                "summary": "List nearby spawns",
                "parameters": [
                    {"type": "string", "name": "X-Player-ID", "in": "header", "required": true},
                    {"type": "number", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "name": "lng", "in": "query", "required": true},
                    {"type": "number", "name": "radius", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.NearbySpawnsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/spawns/{spawnID}/reserve": {
            "post": {
                "produces": ["application/json"],
                "tags": ["hunt"],
                "summary": "Reserve a spawn",
                "parameters": [
                    {"type": "string", "name": "X-Player-ID", "in": "header", "required": true},
                    {"type": "string", "name": "spawnID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ReservationResult"}},
                    "409": {"description": "Held by another player", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "410": {"description": "Spawn expired", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/spawns/{spawnID}/arrive": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["hunt"],
                "summary": "Arrive at a reserved spawn",
                "parameters": [
                    {"type": "string", "name": "X-Player-ID", "in": "header", "required": true},
                    {"type": "string", "name": "spawnID", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ArriveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ArrivalResult"}},
                    "422": {"description": "Too far", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/spawns/{spawnID}/catch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["hunt"],
                "summary": "Attempt a catch",
                "parameters": [
                    {"type": "string", "name": "X-Player-ID", "in": "header", "required": true},
                    {"type": "string", "name": "spawnID", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.CatchResult"}},
                    "429": {"description": "Daily cap reached", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/spawns/{spawnID}/abandon": {
            "post": {
                "produces": ["application/json"],
                "tags": ["hunt"],
                "summary": "Abandon a reservation",
                "parameters": [
                    {"type": "string", "name": "X-Player-ID", "in": "header", "required": true},
                    {"type": "string", "name": "spawnID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SuccessResponse"}}
                }
            }
        },
        "/progress": {
            "get": {
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "Get player progress",
                "parameters": [
                    {"type": "string", "name": "X-Player-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.PlayerProgress"}}
                }
            }
        },
        "/catches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "List catch history",
                "parameters": [
                    {"type": "string", "name": "X-Player-ID", "in": "header", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.CatchHistoryResponse"}}
                }
            }
        },
        "/warmth/spend": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "Spend warmth",
                "parameters": [
                    {"type": "string", "name": "X-Player-ID", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SpendWarmthRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SpendResult"}},
                    "402": {"description": "Not enough warmth", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/admin/spawns": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create a spawn",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateSpawnRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Spawn"}}
                }
            }
        },
        "/admin/sweep": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Run the expiry sweep",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SweepResponse"}}
                }
            }
        },
        "/admin/daily-reset": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Trigger the daily cap reset",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DailyResetResponse"}}
                }
            }
        },
        "/admin/events": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Filters by player and event type. since and until take RFC 3339 timestamps.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List logged events",
                "parameters": [
                    {"type": "string", "description": "Player ID", "name": "player_id", "in": "query"},
                    {"type": "string", "description": "Event type, e.g. catch.resolved", "name": "type", "in": "query"},
                    {"type": "string", "description": "Earliest created_at (RFC 3339)", "name": "since", "in": "query"},
                    {"type": "string", "description": "Latest created_at (RFC 3339)", "name": "until", "in": "query"},
                    {"type": "integer", "description": "Maximum events (default 50, max 500)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/repository.EventLogEntry"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Location": {
            "type": "object",
            "properties": {"lat": {"type": "number"}, "lng": {"type": "number"}}
        },
        "domain.NearbySpawn": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string"},
                "rarity": {"type": "string"},
                "location": {"$ref": "#/definitions/domain.Location"},
                "state": {"type": "string"},
                "distance_meters": {"type": "number"},
                "expires_at": {"type": "string"},
                "held_by_you": {"type": "boolean"}
            }
        },
        "domain.ReservationResult": {
            "type": "object",
            "properties": {
                "spawn_id": {"type": "string"},
                "holder_id": {"type": "string"},
                "reserved_at": {"type": "string"},
                "deadline": {"type": "string"},
                "seconds_remaining": {"type": "integer"}
            }
        },
        "domain.ArrivalResult": {
            "type": "object",
            "properties": {
                "spawn_id": {"type": "string"},
                "distance_meters": {"type": "number"},
                "target_center": {"type": "number"},
                "target_half_width": {"type": "number"},
                "deadline": {"type": "string"}
            }
        },
        "domain.CatchResult": {
            "type": "object",
            "properties": {
                "catch_id": {"type": "string"},
                "spawn_id": {"type": "string"},
                "quality": {"type": "string"},
                "success_probability": {"type": "number"},
                "outcome": {"type": "string"},
                "rarity": {"type": "string"},
                "xp_awarded": {"type": "integer"},
                "points_awarded": {"type": "integer"},
                "warmth_gained": {"type": "integer"},
                "leveled_up": {"type": "boolean"},
                "new_level": {"type": "integer"},
                "spawn_state": {"type": "string"}
            }
        },
        "domain.PlayerProgress": {
            "type": "object",
            "properties": {
                "player_id": {"type": "string"},
                "level": {"type": "integer"},
                "warmth": {"type": "integer"}
            }
        },
        "domain.SpendResult": {
            "type": "object",
            "properties": {
                "feature": {"type": "string"},
                "cost": {"type": "integer"},
                "warmth_remaining": {"type": "integer"}
            }
        },
        "domain.Spawn": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string"},
                "rarity": {"type": "string"},
                "location": {"$ref": "#/definitions/domain.Location"},
                "state": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "handler.ArriveRequest": {
            "type": "object",
            "required": ["lat", "lng"],
            "properties": {"lat": {"type": "number"}, "lng": {"type": "number"}}
        },
        "handler.CatchRequest": {
            "type": "object",
            "required": ["timing_input"],
            "properties": {"timing_input": {"type": "number", "minimum": 0, "maximum": 1}}
        },
        "handler.SpendWarmthRequest": {
            "type": "object",
            "required": ["feature"],
            "properties": {
                "feature": {"type": "string", "enum": ["tracker_ping", "second_attempt", "heat_mode"]},
                "lat": {"type": "number"},
                "lng": {"type": "number"}
            }
        },
        "handler.CreateSpawnRequest": {
            "type": "object",
            "required": ["kind"],
            "properties": {
                "kind": {"type": "string", "enum": ["creature", "egg"]},
                "rarity": {"type": "string"},
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "ttl_seconds": {"type": "integer"},
                "max_attempts": {"type": "integer"}
            }
        },
        "handler.NearbySpawnsResponse": {
            "type": "object",
            "properties": {"spawns": {"type": "array", "items": {"$ref": "#/definitions/domain.NearbySpawn"}}}
        },
        "handler.CatchHistoryResponse": {
            "type": "object",
            "properties": {"catches": {"type": "array", "items": {"type": "object"}}}
        },
        "handler.SweepResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "expired": {"type": "integer"}}
        },
        "handler.DailyResetResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "records_affected": {"type": "integer"}}
        },
        "handler.SuccessResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "code": {"type": "string"}}
        },
        "repository.EventLogEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "event_type": {"type": "string"},
                "player_id": {"type": "string"},
                "payload": {"type": "object"},
                "metadata": {"type": "object"},
                "created_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Hunt API",
	Description:      "Location-based creature hunting: reserve, arrive, catch and progress.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
