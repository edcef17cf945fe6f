package utils

import (
	"log"

	"github.com/gin-gonic/gin"
)

// debugBodyWriter mirrors error response bodies to the log before they go
// out, so failed curation calls are diagnosable without a client-side trace
type debugBodyWriter struct {
	gin.ResponseWriter
	context *gin.Context
}

func (w *debugBodyWriter) Write(b []byte) (int, error) {
	if status := w.context.Writer.Status(); status >= 400 {
		log.Printf("Response %d: %s", status, string(b))
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware logs error response bodies in debug mode. Incompatible
// with the gzip middleware, which is why main only wires one of the two.
func ErrorLogMiddleware(c *gin.Context) {
	c.Writer = &debugBodyWriter{context: c, ResponseWriter: c.Writer}
	c.Next()
}
