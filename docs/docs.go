// Package docs registers the OpenAPI description served at /swagger/.
// Regenerate with: swag init -g main.go -o docs
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
        "/auth/signup": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a new account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.SignupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorBody"}},
                    "409": {"description": "Username or email already in use", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/auth/signin": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in with email and password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.SigninRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.User"}},
                    "401": {"description": "Wrong credentials", "schema": {"$ref": "#/definitions/types.ErrorBody"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/auth/google": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in with Google",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.FederatedAuthRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.User"}},
                    "401": {"description": "Identity could not be verified", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/auth/signout": {
            "get": {
                "tags": ["Auth"],
                "summary": "Sign out",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}
            }
        },
        "/user/{id}": {
            "get": {
                "tags": ["User"],
                "summary": "Get a seller's public profile",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PublicProfile"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/user/update/{id}": {
            "post": {
                "tags": ["User"],
                "summary": "Update your account",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.UpdateUserParams"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.User"}},
                    "401": {"description": "You can only update your own account!", "schema": {"$ref": "#/definitions/types.ErrorBody"}},
                    "409": {"description": "Username or email already in use", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/user/delete/{id}": {
            "delete": {
                "tags": ["User"],
                "summary": "Delete your account",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "You can only delete your own account!", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/user/listings/{id}": {
            "get": {
                "tags": ["User"],
                "summary": "List your own listings",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.Listing"}}},
                    "401": {"description": "You cannot view your listings", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/listing/create": {
            "post": {
                "tags": ["Listings"],
                "summary": "Create a listing",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.CreateListingParams"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.Listing"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/listing/update/{id}": {
            "post": {
                "tags": ["Listings"],
                "summary": "Update one of your listings",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.UpdateListingParams"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Listing"}},
                    "401": {"description": "You can only update your own listings!", "schema": {"$ref": "#/definitions/types.ErrorBody"}},
                    "404": {"description": "Listing not found!", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/listing/delete/{id}": {
            "delete": {
                "tags": ["Listings"],
                "summary": "Delete one of your listings",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Solo puedes eliminar uno", "schema": {"$ref": "#/definitions/types.ErrorBody"}},
                    "404": {"description": "Apuntes no encontrados", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/listing/get/{id}": {
            "get": {
                "tags": ["Listings"],
                "summary": "Get a listing",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Listing"}},
                    "404": {"description": "Apunte no encontrado", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/listing/get": {
            "get": {
                "tags": ["Listings"],
                "summary": "Search listings",
                "parameters": [
                    {"type": "string", "name": "searchTerm", "in": "query"},
                    {"type": "string", "name": "semester", "in": "query"},
                    {"type": "string", "default": "createdAt", "name": "sort", "in": "query"},
                    {"type": "string", "default": "desc", "name": "order", "in": "query"},
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "startIndex", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ListingPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        },
        "/storage/presign": {
            "post": {
                "tags": ["Storage"],
                "summary": "Get an upload URL for a listing image",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.PresignRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PresignedUpload"}},
                    "400": {"description": "only image uploads are allowed", "schema": {"$ref": "#/definitions/types.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "types.Response": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}},
        "types.ErrorBody": {"type": "object", "properties": {"success": {"type": "boolean"}, "statusCode": {"type": "integer"}, "message": {"type": "string"}}},
        "types.SignupRequest": {"type": "object", "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "types.SigninRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "types.FederatedAuthRequest": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "photo": {"type": "string"}, "accessToken": {"type": "string"}}},
        "types.User": {"type": "object", "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"}, "avatar": {"type": "string"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}}},
        "types.PublicProfile": {"type": "object", "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"}, "avatar": {"type": "string"}}},
        "types.UpdateUserParams": {"type": "object", "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "avatar": {"type": "string"}}},
        "types.Listing": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "course": {"type": "string"}, "semester": {"type": "integer"}, "price": {"type": "number"}, "imageUrls": {"type": "array", "items": {"type": "string"}}, "userRef": {"type": "string"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}}},
        "types.CreateListingParams": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "course": {"type": "string"}, "semester": {"type": "integer"}, "price": {"type": "number"}, "imageUrls": {"type": "array", "items": {"type": "string"}}}},
        "types.UpdateListingParams": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "course": {"type": "string"}, "semester": {"type": "integer"}, "price": {"type": "number"}, "imageUrls": {"type": "array", "items": {"type": "string"}}}},
        "types.ListingPage": {"type": "object", "properties": {"listings": {"type": "array", "items": {"$ref": "#/definitions/types.Listing"}}, "total": {"type": "integer"}, "limit": {"type": "integer"}, "startIndex": {"type": "integer"}, "hasMore": {"type": "boolean"}}},
        "types.PresignRequest": {"type": "object", "properties": {"fileName": {"type": "string"}, "contentType": {"type": "string"}}},
        "types.PresignedUpload": {"type": "object", "properties": {"key": {"type": "string"}, "uploadUrl": {"type": "string"}, "publicUrl": {"type": "string"}, "expiresAt": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Apuntes Marketplace API",
	Description:      "Buy and sell course notes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
