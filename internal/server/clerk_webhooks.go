package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	identitydomain "github.com/vantagehq/vantage/internal/identity/domain"
	"github.com/vantagehq/vantage/internal/identity/webhook"
	"go.uber.org/zap"
)

var webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vantage_webhook_events_total",
	Help: "Clerk webhook deliveries by event kind and outcome.",
}, []string{"kind", "outcome"})

// HandleClerkWebhook receives one IdP event: verify, classify, apply.
// Status codes follow the sender's redelivery contract: 2xx acknowledges,
// 4xx drops, 5xx redelivers.
func (s *Server) HandleClerkWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		webhookEvents.WithLabelValues("unknown", "rejected").Inc()
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.verifier.Verify(payload, c.Request.Header); err != nil {
		webhookEvents.WithLabelValues("unknown", "rejected").Inc()
		s.log.Warn("webhook rejected", zap.Error(err))
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// Authenticity established; a message marked by a previous successful
	// apply can be acknowledged without touching the store.
	messageID := strings.TrimSpace(c.GetHeader("svix-id"))
	if s.guard.Seen(c.Request.Context(), messageID) {
		webhookEvents.WithLabelValues("unknown", "duplicate").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	evt, err := webhook.Classify(payload)
	if err != nil {
		if errors.Is(err, identitydomain.ErrEventIgnored) {
			// Intentionally unhandled kind; acknowledge so the sender
			// does not retry forever.
			webhookEvents.WithLabelValues("unknown", "ignored").Inc()
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}
		webhookEvents.WithLabelValues("unknown", "malformed").Inc()
		s.log.Error("webhook classification failed",
			zap.Error(err),
			zap.String("svix_id", messageID),
		)
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	outcome, err := s.syncSvc.Process(c.Request.Context(), evt)
	if err != nil {
		// No mark was written, so the sender's redelivery is not mistaken
		// for a duplicate.
		if identitydomain.IsRetryable(err) {
			webhookEvents.WithLabelValues(evt.Kind(), "retryable").Inc()
			s.log.Warn("webhook deferred",
				zap.String("kind", evt.Kind()),
				zap.Error(err),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "retry"})
			return
		}

		webhookEvents.WithLabelValues(evt.Kind(), "failed").Inc()
		s.log.Error("webhook failed",
			zap.String("kind", evt.Kind()),
			zap.Error(err),
		)
		AbortWithError(c, err)
		return
	}

	s.guard.Mark(c.Request.Context(), messageID)
	webhookEvents.WithLabelValues(evt.Kind(), string(outcome)).Inc()
	c.JSON(http.StatusOK, gin.H{"status": string(outcome)})
}
