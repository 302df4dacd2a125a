package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope : format unique de toutes les réponses de l'API.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// JSON écrit l'enveloppe {status, message, data} avec le code HTTP assorti.
func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// Error écrit une enveloppe d'erreur (data toujours null).
func Error(c *gin.Context, status int, message string) {
	JSON(c, status, message, nil)
}

// Abort écrit une enveloppe d'erreur et stoppe la chaîne de middlewares.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Status:  status,
		Message: message,
		Data:    nil,
	})
}
