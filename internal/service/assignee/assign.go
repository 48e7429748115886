package assignee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/crm-activity-backend/internal/domain"
	"github.com/heartmarshall/crm-activity-backend/pkg/ctxutil"
)

// Assign persists the picked user as the activity's assignee.
//
// The user's workspace membership is resolved first; the first membership
// wins. A failed or empty lookup does not block the assignment: the
// membership relation is cleared instead. Exactly one record update is
// issued and its error is returned. OnSubmit fires once after the update
// attempt, or immediately when nothing was selected.
func (s *Service) Assign(ctx context.Context, in AssignInput) error {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return err
	}

	if in.Selected == nil {
		s.rec.Assignment(OutcomeSkipped)
		submit(in.OnSubmit)
		return nil
	}

	userID := in.Selected.ID
	memberID := s.resolveMembership(ctx, userID)

	err := s.activities.UpdateOne(ctx, domain.RecordUpdate{
		ObjectNameSingular: domain.ObjectActivity,
		IDToUpdate:         in.Activity.ID,
		Connections: map[string]domain.Connect{
			domain.FieldAssignee:                {ID: &userID},
			domain.FieldWorkspaceMemberAssignee: {ID: memberID},
		},
	})

	submit(in.OnSubmit)

	if err != nil {
		s.rec.Assignment(OutcomeFailed)
		return fmt.Errorf("update activity %s: %w", in.Activity.ID, err)
	}

	s.rec.Assignment(OutcomeAssigned)
	s.log.InfoContext(ctx, "activity assigned",
		slog.String("activity_id", in.Activity.ID.String()),
		slog.String("assignee_id", userID.String()),
		slog.Bool("has_membership", memberID != nil),
	)

	return nil
}

// resolveMembership returns the id of the first workspace membership of
// userID, or nil when there is none or the lookup failed.
func (s *Service) resolveMembership(ctx context.Context, userID uuid.UUID) *uuid.UUID {
	members, err := s.members.GetByUserIDs(ctx, []uuid.UUID{userID})
	if err != nil {
		s.rec.MembershipMiss()
		s.log.WarnContext(ctx, "workspace member lookup failed, assigning without membership",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}

	for _, m := range members {
		if m.UserID == userID {
			id := m.ID
			return &id
		}
	}

	s.rec.MembershipMiss()
	s.log.DebugContext(ctx, "user has no workspace membership", slog.String("user_id", userID.String()))
	return nil
}

func submit(fn func()) {
	if fn != nil {
		fn()
	}
}
