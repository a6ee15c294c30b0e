// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `swag init -g cmd/ecommerce-demo-backend/main.go`.
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
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid credentials"}, "429": {"description": "Too many login attempts"}}}},
        "/auth/register": {"post": {"tags": ["Auth"], "summary": "Register a new user", "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "Log out", "responses": {"200": {"description": "OK"}}}},
        "/categories": {"get": {"tags": ["Categories"], "summary": "List categories", "responses": {"200": {"description": "OK"}}}},
        "/categories/{id}": {"get": {"tags": ["Categories"], "summary": "Get a category", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/products": {"get": {"tags": ["Products"], "summary": "List available products", "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "pageSize", "in": "query"}, {"type": "string", "name": "category", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/products/search": {"get": {"tags": ["Products"], "summary": "Search available products by name", "parameters": [{"type": "string", "name": "q", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/products/{id}": {"get": {"tags": ["Products"], "summary": "Get an available product", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/carts/current": {"get": {"security": [{"BearerAuth": []}], "tags": ["Cart"], "summary": "Get the current cart", "responses": {"200": {"description": "OK"}}}},
        "/carts/add_item": {"post": {"security": [{"BearerAuth": []}], "tags": ["Cart"], "summary": "Add a product to the cart", "responses": {"200": {"description": "OK"}, "404": {"description": "Product not found"}}}},
        "/carts/update_item": {"post": {"security": [{"BearerAuth": []}], "tags": ["Cart"], "summary": "Set the quantity of a cart line", "responses": {"200": {"description": "OK"}, "404": {"description": "Cart or cart item not found"}}}},
        "/carts/remove_item": {"delete": {"security": [{"BearerAuth": []}], "tags": ["Cart"], "summary": "Remove a product from the cart", "responses": {"200": {"description": "OK"}}}},
        "/cartitems": {"get": {"security": [{"BearerAuth": []}], "tags": ["Cart"], "summary": "List the lines of the current cart", "responses": {"200": {"description": "OK"}}}},
        "/orders/create_order": {"post": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "Check out the current cart", "responses": {"200": {"description": "OK"}, "400": {"description": "Cart is empty"}}}},
        "/orders/listorders": {"get": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "List the caller's orders", "responses": {"200": {"description": "OK"}}}},
        "/orders/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["Orders"], "summary": "Get one of the caller's orders", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Order not found"}}}},
        "/admin/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "Check admin access", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/admin/orders": {"get": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "List every order", "responses": {"200": {"description": "OK"}}}},
        "/admin/delete_order": {"post": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "Delete an order", "responses": {"200": {"description": "OK"}, "404": {"description": "Order not found"}}}},
        "/admin/categories": {"post": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "Create a category", "responses": {"201": {"description": "Created"}, "409": {"description": "Slug already exists"}}}},
        "/admin/categories/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "Update a category", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "Delete a category", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Category still has products"}}}
        },
        "/admin/products": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "List all products including unavailable ones", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "Create a product", "consumes": ["application/json", "multipart/form-data"], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "413": {"description": "Upload too large"}}}
        },
        "/admin/products/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "Get any product", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "Update a product", "consumes": ["application/json", "multipart/form-data"], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "413": {"description": "Upload too large"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "Delete a product", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Product has orders"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Token\" or \"Bearer\" followed by a space and the token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "E-commerce Demo Backend API",
	Description:      "Catalog, cart, checkout and order history for the e-commerce demo.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
