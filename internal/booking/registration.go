package booking

import (
	"context"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// beginRegistration enters the registration sub-flow and asks for the
// first field.
func (e *Engine) beginRegistration(ctx context.Context, sh *sessionShard, sess *Session) Outcome {
	if !e.advanceTo(sh, sess, StateRegistration) {
		return e.failHard(ctx, sh, sess, msgGenericError)
	}
	sess.Registration = &RegistrationDraft{Step: regStepName}
	e.send(ctx, sess.RecipientID, msgRegistrationIntro)
	return OutcomeAdvanced
}

// handleRegistration consumes one field per message: name, email, address,
// password. Field re-prompts never consume the outer retry budget; the
// sub-flow is a single linear path.
func (e *Engine) handleRegistration(ctx context.Context, sh *sessionShard, sess *Session, text string) Outcome {
	draft := sess.Registration
	if draft == nil {
		// Draft must exist while in this state; treat its absence as a defect.
		return e.failHard(ctx, sh, sess, msgGenericError)
	}

	switch draft.Step {
	case regStepName:
		draft.Name = text
		draft.Step = regStepEmail
		e.send(ctx, sess.RecipientID, msgAskEmail)
		return OutcomeAdvanced

	case regStepEmail:
		draft.Email = text
		draft.Step = regStepAddress
		e.send(ctx, sess.RecipientID, msgAskAddress)
		return OutcomeAdvanced

	case regStepAddress:
		draft.Address = text
		draft.Step = regStepPassword
		e.send(ctx, sess.RecipientID, msgAskPassword)
		return OutcomeAdvanced

	case regStepPassword:
		if len(text) < 8 {
			e.send(ctx, sess.RecipientID, msgPasswordTooShort)
			return OutcomeReprompted
		}
		draft.Password = text
		return e.completeRegistration(ctx, sh, sess)

	default:
		return e.failHard(ctx, sh, sess, msgGenericError)
	}
}

func (e *Engine) completeRegistration(ctx context.Context, sh *sessionShard, sess *Session) Outcome {
	draft := sess.Registration
	user := &models.User{
		Name:         draft.Name,
		Email:        draft.Email,
		PhoneNumber:  sess.RecipientID,
		Address:      draft.Address,
		PasswordHash: draft.Password,
		Type:         "user",
	}

	cctx, cancel := e.callCtx(ctx)
	err := e.dir.CreateUser(cctx, user)
	cancel()
	if err != nil {
		// Registration is not retried automatically.
		return e.failHard(ctx, sh, sess, msgRegistrationFailed)
	}

	sess.UserID = user.UserID
	sess.UserName = user.Name
	sess.Registration = nil

	if !e.advanceTo(sh, sess, StateSalonSelection) {
		return e.failHard(ctx, sh, sess, msgGenericError)
	}
	e.send(ctx, sess.RecipientID, msgRegistrationDone(user.Name))
	return e.showSalons(ctx, sh, sess)
}
