package v1

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed docs.html
var docsPage []byte

// Redirect sends the root path to the docs page.
func Redirect(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, "/docs")
}

// Docs serves the static endpoint reference.
func Docs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", docsPage)
}
