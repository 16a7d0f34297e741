package booking

import (
	"context"
	"strings"

	"github.com/vishudhGupta/salon-management-api/internal/events"
	"github.com/vishudhGupta/salon-management-api/internal/metrics"
	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// enterConfirmation moves the just-completed selection into the cart and
// prompts for confirm / add / cancel.
func (e *Engine) enterConfirmation(ctx context.Context, sh *sessionShard, sess *Session) Outcome {
	sess.Cart = append(sess.Cart, CartItem{
		Salon:      sess.SelectedSalon,
		Service:    sess.SelectedService,
		Expert:     sess.SelectedExpert,
		Date:       sess.SelectedDate,
		TimeBucket: sess.SelectedTime,
	})
	e.send(ctx, sess.RecipientID, renderCart(sess.Cart))
	return OutcomeAdvanced
}

func (e *Engine) handleConfirmation(ctx context.Context, sh *sessionShard, sess *Session, text string) Outcome {
	switch strings.ToLower(text) {
	case "confirm", "yes":
		return e.commitCart(ctx, sh, sess)

	case "add", "more", "add more":
		if len(sess.Cart) >= maxCartItems {
			// A full cart no longer offers this option; treat it like any
			// other invalid input.
			return e.reprompt(ctx, sh, sess, msgCartFull)
		}
		// Adding another booking re-enters the flow at service selection,
		// keeping the chosen salon; downstream picks are discarded.
		sess.SelectedService = models.Service{}
		sess.SelectedExpert = models.Expert{}
		sess.SelectedDate = ""
		sess.SelectedTime = 0
		sess.ServiceOptions = nil
		sess.ExpertOptions = nil
		sess.DateOptions = nil
		sess.TimeOptions = nil
		if !e.advanceTo(sh, sess, StateServiceSelection) {
			return e.failHard(ctx, sh, sess, msgGenericError)
		}
		return e.showServices(ctx, sh, sess)

	default:
		if len(sess.Cart) >= maxCartItems {
			return e.reprompt(ctx, sh, sess, msgConfirmOptionsFull)
		}
		return e.reprompt(ctx, sh, sess, msgConfirmOptions)
	}
}

// commitCart persists cart items one at a time, in insertion order. The
// commit is not atomic: a failure stops the loop but items already written
// stay written, and the recipient is told exactly how far it got.
func (e *Engine) commitCart(ctx context.Context, sh *sessionShard, sess *Session) Outcome {
	committed := make([]models.Appointment, 0, len(sess.Cart))
	for _, item := range sess.Cart {
		appt := &models.Appointment{
			UserID:     sess.UserID,
			SalonID:    item.Salon.SalonID,
			ServiceID:  item.Service.ServiceID,
			ExpertID:   item.Expert.ExpertID,
			Date:       item.Date,
			TimeBucket: item.TimeBucket,
		}
		cctx, cancel := e.callCtx(ctx)
		err := e.dir.CreateAppointment(cctx, appt)
		cancel()
		if err != nil {
			e.logger.Error().Err(err).
				Str("recipient", sess.RecipientID).
				Str("expert", item.Expert.ExpertID).
				Str("date", item.Date).
				Int("committed", len(committed)).
				Msg("appointment commit failed mid-cart")
			return e.failHard(ctx, sh, sess, msgCommitFailed)
		}
		committed = append(committed, *appt)
		metrics.IncAppointmentsCommitted()
	}

	ids := make([]string, len(committed))
	for i, a := range committed {
		ids[i] = a.AppointmentID
	}
	e.publish(events.TypeBookingCommitted, sess.RecipientID, map[string]any{
		"appointment_ids": ids,
		"user_id":         sess.UserID,
	})

	recipient := sess.RecipientID
	sh.destroy(recipient)
	e.send(ctx, recipient, renderCommitted(committed))
	return OutcomeAdvanced
}
