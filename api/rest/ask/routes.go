package ask

import (
	"github.com/gin-gonic/gin"
)

// guards run before the handler in order, e.g. auth then rate limiting
func RegisterRoutes(router *gin.RouterGroup, service Asker, guards ...gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	handlers = append(handlers, AskHandler(service))

	router.POST("/ask", handlers...)
}
