// Package docs registers the OpenAPI document served under /swagger.
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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"], "summary": "Register a customer",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/user.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/user.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"], "summary": "Exchange credentials for a bearer token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/user.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        },
        "/cart": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["cart"], "summary": "Show the caller's cart with live prices",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/cart.View"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["cart"], "summary": "Empty the cart",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/cart/items": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["cart"], "summary": "Whether the cart holds a line for product_id",
                "parameters": [{"type": "string", "in": "query", "name": "product_id", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["cart"], "summary": "Add a product to the cart, merging with an existing line",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/cart.AddItemRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        },
        "/cart/items/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["cart"], "summary": "Set the quantity of a cart line",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/cart.UpdateItemRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/product.HTTPError"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["cart"], "summary": "Remove a cart line",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/product.HTTPError"}}}
            }
        },
        "/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"], "summary": "List the caller's orders",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/OrderListResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"], "summary": "Turn the caller's cart into a PENDING order",
                "parameters": [
                    {"type": "string", "in": "header", "name": "Idempotency-Key", "description": "Replays return the first order"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"], "summary": "Get one order with its items",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/product.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        },
        "/orders/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"], "summary": "Cancel one of the caller's orders and restore its stock",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/product.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        },
        "/admin/orders/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"], "summary": "Move an order along its lifecycle",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/product.HTTPError"}}
                }
            }
        },
        "/products": {
            "get": {
                "tags": ["products"], "summary": "List products (pagination only)",
                "parameters": [
                    {"type": "integer", "in": "query", "name": "limit"},
                    {"type": "integer", "in": "query", "name": "offset"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/product.ListResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"], "summary": "Create a product",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProductRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}}}
            }
        },
        "/products/search": {
            "get": {
                "tags": ["products"], "summary": "Search products by name or description",
                "parameters": [
                    {"type": "string", "in": "query", "name": "q", "required": true},
                    {"type": "integer", "in": "query", "name": "limit"},
                    {"type": "integer", "in": "query", "name": "offset"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/product.ListResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}}}
            }
        },
        "/products/{id}/availability": {
            "get": {
                "tags": ["stock"], "summary": "Whether qty units are currently in stock",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"type": "integer", "in": "query", "name": "qty"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Availability"}}}
            }
        },
        "/products/{id}/stock": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["stock"], "summary": "Overwrite the stock counter",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SetStockRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/product.HTTPError"}}}
            }
        }
    },
    "definitions": {
        "product.HTTPError": {"type": "object", "properties": {"error": {"type": "string", "example": "not found"}}},
        "product.ListResponse": {
            "type": "object",
            "properties": {
                "q": {"type": "string"}, "limit": {"type": "integer"}, "offset": {"type": "integer"},
                "items": {"type": "array", "items": {"type": "object"}}
            }
        },
        "CreateProductRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Mechanical Keyboard"},
                "description": {"type": "string", "example": "RGB 60%"},
                "price": {"type": "string", "example": "199.90"},
                "stock": {"type": "integer", "example": 10}
            }
        },
        "SetStockRequest": {"type": "object", "properties": {"stock": {"type": "integer", "example": 25}}},
        "Availability": {
            "type": "object",
            "properties": {"product_id": {"type": "string"}, "requested": {"type": "integer"}, "available": {"type": "boolean"}}
        },
        "user.RegisterRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "user.LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "user.TokenResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"type": "object"}}},
        "cart.AddItemRequest": {"type": "object", "properties": {"product_id": {"type": "string"}, "quantity": {"type": "integer", "example": 2}}},
        "cart.UpdateItemRequest": {"type": "object", "properties": {"quantity": {"type": "integer", "example": 3}}},
        "cart.View": {
            "type": "object",
            "properties": {"lines": {"type": "array", "items": {"type": "object"}}, "total": {"type": "string"}, "count": {"type": "integer"}}
        },
        "CreateOrderRequest": {"type": "object", "properties": {"shipping_address": {"type": "string"}}},
        "UpdateStatusRequest": {
            "type": "object",
            "properties": {"status": {"type": "string", "enum": ["PENDING", "CONFIRMED", "SHIPPED", "DELIVERED", "CANCELLED"]}}
        },
        "OrderListResponse": {"type": "object", "properties": {"items": {"type": "array", "items": {"type": "object"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tienda Checkout API",
	Description:      "Cart, checkout and catalog services with an inventory-consistent order workflow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
