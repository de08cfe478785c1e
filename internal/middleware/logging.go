package middleware

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxLoggedBodyBytes = 1024

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// containsCredentials reports whether a path carries secrets that must
// never land in log files.
func containsCredentials(path string) bool {
	return strings.HasPrefix(path, "/auth/")
}

// Logger returns a middleware that logs requests using logrus
func Logger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Read the request body
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			// Restore the request body for later use
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		// Capture the response
		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		duration := time.Since(start)

		fields := logrus.Fields{
			"status":     strconv.Itoa(c.Writer.Status()),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
			"duration":   duration.String(),
			"user_agent": c.Request.UserAgent(),
		}

		if requestID := c.GetString(RequestIDKey); requestID != "" {
			fields["request_id"] = requestID
		}

		// Bodies on auth routes carry passwords and tokens; never log them.
		if !containsCredentials(c.Request.URL.Path) {
			if len(requestBody) > 0 && len(requestBody) < maxLoggedBodyBytes {
				fields["request_body"] = string(requestBody)
			}
			if w.body.Len() > 0 && w.body.Len() < maxLoggedBodyBytes {
				fields["response_body"] = w.body.String()
			}
		}

		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		statusCode := c.Writer.Status()
		switch {
		case statusCode >= 500:
			log.WithFields(fields).Error("Server error")
		case statusCode >= 400:
			log.WithFields(fields).Warn("Client error")
		case statusCode >= 300:
			log.WithFields(fields).Info("Redirection")
		default:
			log.WithFields(fields).Info("Success")
		}
	}
}
