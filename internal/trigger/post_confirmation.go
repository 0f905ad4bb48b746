// Package trigger implements the user pool post-confirmation hook that turns
// a self-declared role attribute into group membership.
//
// Group assignment is best effort. Account confirmation is the critical path,
// so Handle never returns an error: a failed assignment is logged and the
// user stays confirmed without the group until an operator fixes it.
package trigger

import (
	"context"
	"time"

	"glamgo/internal/roles"
	"glamgo/internal/util"

	"github.com/aws/aws-lambda-go/events"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GroupAdder adds a user to a named group in the identity platform.
type GroupAdder interface {
	AddUserToGroup(ctx context.Context, userPoolID, username, group string) error
}

// Outcome describes what happened to a role assignment. It is informational
// only and never changes what Handle returns.
type Outcome int

const (
	Skipped Outcome = iota
	Assigned
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Assigned:
		return "assigned"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single assignment attempt.
type Result struct {
	Outcome Outcome
	Role    roles.Role
	Reason  string
}

// Handler is the post-confirmation trigger.
type Handler struct {
	groups GroupAdder
	logger *zap.Logger
}

// NewHandler creates a handler. A nil logger falls back to the global one.
func NewHandler(groups GroupAdder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = util.GetLogger()
	}
	return &Handler{
		groups: groups,
		logger: logger,
	}
}

// Handle assigns the confirmed user to the group named by their custom:role
// attribute and returns the event unchanged.
func (h *Handler) Handle(
	ctx context.Context,
	event events.CognitoEventUserPoolsPostConfirmation,
) (events.CognitoEventUserPoolsPostConfirmation, error) {
	ctx, span := util.StartSpan(ctx, "PostConfirmation.Handle")
	defer span.End()

	h.logger.Info("Post confirmation trigger event", zap.Any("event", event))

	rawRole := event.Request.UserAttributes[roles.AttributeName]
	h.logger.Info("User role claim",
		zap.String("username", event.UserName),
		zap.String("role", rawRole))

	res := h.Assign(ctx, event.UserPoolID, event.UserName, rawRole)

	span.SetAttributes(
		attribute.String("role_assignment.outcome", res.Outcome.String()),
		attribute.String("role_assignment.role", rawRole),
	)

	return event, nil
}

// Assign validates rawRole and, when it names a known role, requests group
// membership. Errors from the identity platform are logged and reported in
// the Result, never returned.
func (h *Handler) Assign(ctx context.Context, userPoolID, username, rawRole string) Result {
	role, ok := roles.Parse(rawRole)
	if !ok {
		h.logger.Warn("Invalid or missing role",
			zap.String("username", username),
			zap.String("role", rawRole))
		return Result{Outcome: Skipped, Reason: "invalid or missing role"}
	}

	start := time.Now()
	err := h.groups.AddUserToGroup(ctx, userPoolID, username, role.Group())
	if err != nil {
		h.logger.Error("Error adding user to group",
			zap.String("username", username),
			zap.String("group", role.Group()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return Result{Outcome: Failed, Role: role, Reason: err.Error()}
	}

	h.logger.Info("Added user to group",
		zap.String("username", username),
		zap.String("group", role.Group()),
		zap.Duration("elapsed", time.Since(start)))
	return Result{Outcome: Assigned, Role: role}
}
