package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// RequestFeedback opens a feedback conversation for a completed
// appointment, replacing any session the recipient currently has. It is
// the only way into StateFeedback.
func (e *Engine) RequestFeedback(ctx context.Context, recipientID, appointmentID string) error {
	recipientID = normalizeRecipient(recipientID)

	cctx, cancel := e.callCtx(ctx)
	appt, err := e.dir.GetAppointment(cctx, appointmentID)
	cancel()
	if err != nil {
		return err
	}
	if appt.Status != models.StatusCompleted {
		return fmt.Errorf("appointment %s is %s, feedback needs %s", appointmentID, appt.Status, models.StatusCompleted)
	}

	sh := e.store.shardFor(recipientID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.destroy(recipientID)
	sh.sessions[recipientID] = &Session{
		RecipientID:           recipientID,
		State:                 StateFeedback,
		LastActivityAt:        e.now(),
		UserID:                appt.UserID,
		FeedbackAppointmentID: appointmentID,
	}
	e.send(ctx, recipientID, msgFeedbackPrompt)
	return nil
}

// handleFeedback parses "N - comment" (comment optional), rating 1..5.
func (e *Engine) handleFeedback(ctx context.Context, sh *sessionShard, sess *Session, text string) Outcome {
	ratingPart, comment, _ := strings.Cut(text, "-")
	rating, err := strconv.Atoi(strings.TrimSpace(ratingPart))
	if err != nil || rating < 1 || rating > 5 {
		return e.reprompt(ctx, sh, sess, msgFeedbackInvalid)
	}

	cctx, cancel := e.callCtx(ctx)
	appt, err := e.dir.GetAppointment(cctx, sess.FeedbackAppointmentID)
	cancel()
	if err != nil {
		return e.failHard(ctx, sh, sess, msgGenericError)
	}

	cctx, cancel = e.callCtx(ctx)
	err = e.dir.CreateRating(cctx, &models.Rating{
		AppointmentID: sess.FeedbackAppointmentID,
		UserID:        sess.UserID,
		SalonID:       appt.SalonID,
		Rating:        rating,
		Comment:       strings.TrimSpace(comment),
	})
	cancel()
	if err != nil {
		return e.failHard(ctx, sh, sess, msgGenericError)
	}

	recipient := sess.RecipientID
	sh.destroy(recipient)
	e.send(ctx, recipient, msgFeedbackThanks)
	return OutcomeAdvanced
}
