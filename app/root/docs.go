package root

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.yaml
var openAPI []byte

// Docs serves the API description
func Docs(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openAPI)
}
