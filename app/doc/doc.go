package doc

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

func serveSwaggerJSON(environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		originalJSON, err := swag.ReadDoc()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read Swagger doc"})
			return
		}

		var swaggerData map[string]interface{}
		if err := json.Unmarshal([]byte(originalJSON), &swaggerData); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Swagger doc"})
			return
		}

		swaggerData["servers"] = getServersForEnvironment(environment, c.Request.Host)

		components, _ := swaggerData["components"].(map[string]interface{})
		if components == nil {
			components = make(map[string]interface{})
			swaggerData["components"] = components
		}
		securitySchemes, _ := components["securitySchemes"].(map[string]interface{})
		if securitySchemes == nil {
			securitySchemes = make(map[string]interface{})
			components["securitySchemes"] = securitySchemes
		}
		securitySchemes["BearerAuth"] = map[string]interface{}{
			"type":         "http",
			"scheme":       "bearer",
			"bearerFormat": "PASETO",
			"description":  "Enter a v2.local PASETO token",
		}

		modifiedJSON, err := json.Marshal(swaggerData)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate modified Swagger doc"})
			return
		}

		c.Data(http.StatusOK, "application/json", modifiedJSON)
	}
}

// getServersForEnvironment lists the local server outside production and the requesting host
// otherwise.
func getServersForEnvironment(environment, host string) []map[string]interface{} {
	if environment == "production" && host != "" {
		return []map[string]interface{}{
			{"url": "https://" + host, "description": "Production Server"},
		}
	}

	servers := []map[string]interface{}{
		{
			"url":         "http://localhost:8080",
			"description": "Local Development Server",
		},
	}
	if host != "" && host != "localhost:8080" {
		servers = append(servers, map[string]interface{}{
			"url":         "http://" + host,
			"description": "Current Host",
		})
	}
	return servers
}

func serveElements(c *gin.Context) {
	elementsHTML := `
<!DOCTYPE html>
<html>
<head>
    <title>Catalog API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
    <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
    <style>
        body { margin: 0; padding: 0; height: 100vh; }
        elements-api { height: 100%; }
    </style>
</head>
<body>
    <elements-api
        apiDescriptionUrl="/swagger/doc.json"
        router="hash"
        layout="sidebar"
        tryItCredentialsPolicy="include"
        tryItCorsProxy=""
        hideInternal="false"
    ></elements-api>
</body>
</html>`
	c.Header("Content-Type", "text/html")
	c.String(http.StatusOK, elementsHTML)
}

// Init mounts the raw document and the rendered reference.
func Init(r *gin.Engine, environment string) {
	r.GET("/swagger/doc.json", serveSwaggerJSON(environment))

	r.GET("/docs/*any", serveElements)
}
