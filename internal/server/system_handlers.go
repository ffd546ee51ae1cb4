package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lichinka/ht/internal/activity"
	"github.com/lichinka/ht/internal/api"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// ActivityQueue reports how many activity events are waiting in redis.
// Useful to spot a stuck drain loop.
func ActivityQueue(sink *activity.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pending": sink.QueueLength(c.Request.Context())})
	}
}

// Metrics exposes Prometheus metrics in text format.
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
