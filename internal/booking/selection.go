package booking

import (
	"context"
	"errors"
	"strconv"

	"github.com/vishudhGupta/salon-management-api/internal/repository"
)

// parseSelection interprets input as a 1-based index into a list of n
// options. The bool result is false for anything unparseable or out of
// range; parse failure is routine input handling, not an error path.
func parseSelection(input string, n int) (int, bool) {
	v, err := strconv.Atoi(input)
	if err != nil || v < 1 || v > n {
		return 0, false
	}
	return v - 1, true
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// --- salon ---

func (e *Engine) showSalons(ctx context.Context, sh *sessionShard, sess *Session) Outcome {
	cctx, cancel := e.callCtx(ctx)
	salons, err := e.dir.ListSalons(cctx)
	cancel()
	if err != nil {
		return e.failHard(ctx, sh, sess, msgSalonsUnavailable)
	}
	if len(salons) == 0 {
		// First list of the flow: nowhere to route backward.
		return e.failHard(ctx, sh, sess, msgNoSalons)
	}

	sess.SalonOptions = salons
	e.send(ctx, sess.RecipientID, renderSalonList(salons))
	return OutcomeAdvanced
}

func (e *Engine) handleSalonSelection(ctx context.Context, sh *sessionShard, sess *Session, text string) Outcome {
	if len(sess.SalonOptions) == 0 {
		return e.showSalons(ctx, sh, sess)
	}
	idx, ok := parseSelection(text, len(sess.SalonOptions))
	if !ok {
		return e.reprompt(ctx, sh, sess, msgPickNumber)
	}

	sess.SelectedSalon = sess.SalonOptions[idx]
	if !e.advanceTo(sh, sess, StateServiceSelection) {
		return e.failHard(ctx, sh, sess, msgGenericError)
	}
	return e.showServices(ctx, sh, sess)
}

// --- service ---

func (e *Engine) showServices(ctx context.Context, sh *sessionShard, sess *Session) Outcome {
	cctx, cancel := e.callCtx(ctx)
	services, err := e.dir.ListServicesForSalon(cctx, sess.SelectedSalon.SalonID)
	cancel()
	if err != nil {
		return e.failHard(ctx, sh, sess, msgServicesUnavailable)
	}
	if len(services) == 0 {
		// Empty option set routes backward, never forward.
		e.send(ctx, sess.RecipientID, msgNoServices)
		if !e.advanceTo(sh, sess, StateSalonSelection) {
			return e.failHard(ctx, sh, sess, msgGenericError)
		}
		return e.showSalons(ctx, sh, sess)
	}

	sess.ServiceOptions = services
	e.send(ctx, sess.RecipientID, renderServiceList(services))
	return OutcomeAdvanced
}

func (e *Engine) handleServiceSelection(ctx context.Context, sh *sessionShard, sess *Session, text string) Outcome {
	if len(sess.ServiceOptions) == 0 {
		return e.showServices(ctx, sh, sess)
	}
	idx, ok := parseSelection(text, len(sess.ServiceOptions))
	if !ok {
		return e.reprompt(ctx, sh, sess, msgPickNumber)
	}

	sess.SelectedService = sess.ServiceOptions[idx]
	if !e.advanceTo(sh, sess, StateExpertSelection) {
		return e.failHard(ctx, sh, sess, msgGenericError)
	}
	return e.showExperts(ctx, sh, sess)
}

// --- expert ---

func (e *Engine) showExperts(ctx context.Context, sh *sessionShard, sess *Session) Outcome {
	cctx, cancel := e.callCtx(ctx)
	experts, err := e.dir.ListExpertsForSalon(cctx, sess.SelectedSalon.SalonID)
	cancel()
	if err != nil {
		return e.failHard(ctx, sh, sess, msgExpertsUnavailable)
	}
	if len(experts) == 0 {
		e.send(ctx, sess.RecipientID, msgNoExperts)
		if !e.advanceTo(sh, sess, StateServiceSelection) {
			return e.failHard(ctx, sh, sess, msgGenericError)
		}
		return e.showServices(ctx, sh, sess)
	}

	sess.ExpertOptions = experts
	e.send(ctx, sess.RecipientID, renderExpertList(experts))
	return OutcomeAdvanced
}

func (e *Engine) handleExpertSelection(ctx context.Context, sh *sessionShard, sess *Session, text string) Outcome {
	if len(sess.ExpertOptions) == 0 {
		return e.showExperts(ctx, sh, sess)
	}
	idx, ok := parseSelection(text, len(sess.ExpertOptions))
	if !ok {
		return e.reprompt(ctx, sh, sess, msgPickNumber)
	}

	sess.SelectedExpert = sess.ExpertOptions[idx]
	if !e.advanceTo(sh, sess, StateDateSelection) {
		return e.failHard(ctx, sh, sess, msgGenericError)
	}
	return e.showDates(ctx, sh, sess)
}

// --- date ---

func (e *Engine) showDates(ctx context.Context, sh *sessionShard, sess *Session) Outcome {
	dates := make([]string, 0, 7)
	for i := 1; i <= 7; i++ {
		dates = append(dates, e.now().AddDate(0, 0, i).Format("2006-01-02"))
	}
	sess.DateOptions = dates
	e.send(ctx, sess.RecipientID, renderDateList(dates))
	return OutcomeAdvanced
}

func (e *Engine) handleDateSelection(ctx context.Context, sh *sessionShard, sess *Session, text string) Outcome {
	if len(sess.DateOptions) == 0 {
		return e.showDates(ctx, sh, sess)
	}
	idx, ok := parseSelection(text, len(sess.DateOptions))
	if !ok {
		return e.reprompt(ctx, sh, sess, msgPickNumber)
	}

	sess.SelectedDate = sess.DateOptions[idx]
	if !e.advanceTo(sh, sess, StateTimeSelection) {
		return e.failHard(ctx, sh, sess, msgGenericError)
	}
	return e.showTimes(ctx, sh, sess)
}

// --- time ---

func (e *Engine) showTimes(ctx context.Context, sh *sessionShard, sess *Session) Outcome {
	buckets, err := e.availableBuckets(ctx, sess.SelectedSalon.SalonID, sess.SelectedExpert, sess.SelectedDate)
	if err != nil {
		return e.failHard(ctx, sh, sess, msgTimesUnavailable)
	}
	buckets = excludeCartHeld(buckets, sess.Cart, sess.SelectedExpert.ExpertID, sess.SelectedDate)
	if len(buckets) == 0 {
		e.send(ctx, sess.RecipientID, msgNoSlots)
		if !e.advanceTo(sh, sess, StateDateSelection) {
			return e.failHard(ctx, sh, sess, msgGenericError)
		}
		return e.showDates(ctx, sh, sess)
	}

	sess.TimeOptions = buckets
	e.send(ctx, sess.RecipientID, renderTimeList(buckets))
	return OutcomeAdvanced
}

func (e *Engine) handleTimeSelection(ctx context.Context, sh *sessionShard, sess *Session, text string) Outcome {
	if len(sess.TimeOptions) == 0 {
		return e.showTimes(ctx, sh, sess)
	}
	idx, ok := parseSelection(text, len(sess.TimeOptions))
	if !ok {
		return e.reprompt(ctx, sh, sess, msgPickNumber)
	}

	sess.SelectedTime = sess.TimeOptions[idx]
	if !e.advanceTo(sh, sess, StateConfirmation) {
		return e.failHard(ctx, sh, sess, msgGenericError)
	}
	return e.enterConfirmation(ctx, sh, sess)
}
