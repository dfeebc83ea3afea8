package middleware

import (
	"context"
	"net/http"

	"servicehub/internal/lifecycle"
	"servicehub/internal/pkg/metrics"
	"servicehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccessEvaluator decides host access from the current subscription.
type AccessEvaluator interface {
	Access(ctx context.Context, hostID int64) (lifecycle.AccessDecision, error)
}

// RequireHostAccess gates host management routes on the subscription access
// policy. The decision is evaluated on every request. Admins bypass the gate.
func RequireHostAccess(access AccessEvaluator, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor.IsAdmin() {
			c.Next()
			return
		}
		if !actor.IsHost() {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Host access required")
			return
		}

		decision, err := access.Access(c.Request.Context(), actor.UserID)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}
		if !decision.HasAccess {
			m.AccessDenied(string(decision.Reason))
			response.ErrorWithDetails(c, http.StatusForbidden, "ACCESS_DENIED", decision.Message, gin.H{
				"reason":         decision.Reason,
				"next_action":    decision.NextAction,
				"trial_end_date": decision.TrialEndDate,
				"end_date":       decision.EndDate,
			})
			c.Abort()
			return
		}

		c.Set("access_reason", string(decision.Reason))
		c.Next()
	}
}
