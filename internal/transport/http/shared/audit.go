package shared

import (
	"log/slog"
	"net/http"

	"hrms/internal/domain/audit"
	"hrms/internal/platform/requestctx"
)

// Audit records a mutation for the calling user. A failed write is logged
// and never fails the request.
func Audit(r *http.Request, trail audit.Trail, action, entityType, entityID string, before, after any) {
	if trail == nil {
		return
	}
	ctx := r.Context()
	entry := audit.Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestctx.GetRequestID(ctx),
		IP:         requestctx.GetClientIP(ctx),
		Before:     before,
		After:      after,
	}
	if user, ok := requestctx.GetUser(ctx); ok {
		entry.ActorID = user.UserID
	}
	if err := trail.Record(ctx, entry); err != nil {
		slog.WarnContext(ctx, "audit record failed", "action", action, "entityId", entityID, "err", err)
	}
}
