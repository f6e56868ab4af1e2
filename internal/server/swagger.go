package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the API reference.
// - GET /swagger/index.html  -> Swagger UI page loading the document below
// - GET /swagger/doc.json    -> OpenAPI description of the issue API
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>issuetracker - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Every operation answers 200; failures are bodies with an "error" key.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "issuetracker", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Issue": { "type": "object", "properties": {
        "_id": {"type":"string"}, "issue_title": {"type":"string"}, "issue_text": {"type":"string"},
        "created_by": {"type":"string"}, "assigned_to": {"type":"string"}, "status_text": {"type":"string"},
        "open": {"type":"boolean"}, "created_on": {"type":"string","format":"date-time"}, "updated_on": {"type":"string","format":"date-time"} } },
      "Result": { "type": "object", "properties": { "result": {"type":"string"}, "_id": {"type":"string"} } },
      "Error": { "type": "object", "properties": { "error": {"type":"string"}, "_id": {"type":"string"} } }
    }
  },
  "paths": {
    "/api/issues/{project}": {
      "parameters": [ { "name": "project", "in": "path", "required": true, "schema": {"type":"string"} } ],
      "post": {
        "summary": "Create an issue",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["issue_title","issue_text","created_by"],"properties":{"issue_title":{"type":"string"},"issue_text":{"type":"string"},"created_by":{"type":"string"},"assigned_to":{"type":"string"},"status_text":{"type":"string"},"open":{"type":"boolean"}}}}}},
        "responses": { "200": { "description": "created issue, or error \"required field(s) missing\"" } }
      },
      "get": {
        "summary": "List issues; every query parameter is an equality filter on an issue field",
        "responses": { "200": { "description": "array of issues, or error \"could not fetch issues\"" } }
      },
      "put": {
        "summary": "Update an issue",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["_id"],"properties":{"_id":{"type":"string"},"issue_title":{"type":"string"},"issue_text":{"type":"string"},"created_by":{"type":"string"},"assigned_to":{"type":"string"},"status_text":{"type":"string"},"open":{"type":"boolean"}}}}}},
        "responses": { "200": { "description": "\"successfully updated\", or error \"missing _id\" | \"no update field(s) sent\" | \"could not update\"" } }
      },
      "delete": {
        "summary": "Delete an issue",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["_id"],"properties":{"_id":{"type":"string"}}}}}},
        "responses": { "200": { "description": "\"successfully deleted\", or error \"missing _id\" | \"could not delete\"" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
