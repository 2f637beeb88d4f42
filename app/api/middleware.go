package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joefazee/catalog/internal/logger"
	"github.com/joefazee/catalog/internal/metrics"
	"github.com/joefazee/catalog/internal/security"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
	RequestIDHeaderKey      = "X-Request-ID"

	ContextKeyRequestID = "requestID"
	ContextKeySubject   = "subject"
	ContextKeyPayload   = "tokenPayload"
)

// RequestID propagates an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeaderKey))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Writer.Header().Set(RequestIDHeaderKey, id)
		c.Next()
	}
}

// RequestLogger writes one line per request through log.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"route":      c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if id, ok := c.Get(ContextKeyRequestID); ok {
			fields["request_id"] = id
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		if c.Writer.Status() >= 500 {
			log.Warn("request failed", fields)
			return
		}
		log.Info("request", fields)
	}
}

// Metrics records request count and latency keyed by the matched route.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.RecordHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// TokenAuth requires a valid bearer token and stores its subject and scope in the context.
func TokenAuth(tokenMaker security.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeaderKey)
		if authHeader == "" {
			UnauthorizedResponse(c)
			c.Abort()
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || fields[0] != AuthorizationTypeBearer {
			UnauthorizedResponse(c)
			c.Abort()
			return
		}

		payload, err := tokenMaker.VerifyToken(fields[1])
		if err != nil {
			UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(ContextKeySubject, payload.Subject)
		c.Set(ContextKeyPayload, payload)
		c.Next()
	}
}

// Can rejects requests whose token does not grant scope. It must run after TokenAuth.
func Can(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextKeyPayload)
		if !exists {
			ForbiddenResponse(c, "Access Denied: Token not found in context")
			c.Abort()
			return
		}

		payload, ok := value.(*security.Payload)
		if !ok {
			ForbiddenResponse(c, "Access Denied: Invalid token data in context")
			c.Abort()
			return
		}

		if !payload.HasScope(scope) {
			ForbiddenResponse(c, "Access Denied: You do not have the required permission")
			c.Abort()
			return
		}
		c.Next()
	}
}
