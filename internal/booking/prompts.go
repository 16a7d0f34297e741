package booking

import (
	"fmt"
	"strings"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// Everything the recipient ever reads lives in this file. Handlers never
// build user-facing strings inline.

const (
	msgWelcome = "Welcome to the Salon Booking System! \U0001F31F\n\n" +
		"Please type exactly one of these options:\n" +
		"• Type 'LOGIN' if you're an existing user\n" +
		"• Type 'REGISTER' if you're new\n\n" +
		"You can type 'cancel' at any time to start over."

	msgCancelled = "Your booking has been cancelled. Send 'hi' whenever you'd like to start again."

	msgGenericError = "Sorry, something went wrong on our side. Please send 'hi' to start over."

	msgTooManyAttempts = "Too many invalid attempts. Your session has ended; send 'hi' to start again."

	msgLoginError = "We couldn't look up your account right now. Please send 'hi' to try again."

	msgRegistrationIntro = "Let's get you registered! \U0001F4DD\n\nStart by entering your name."

	msgAskEmail = "Thanks! Now enter your email address."

	msgAskAddress = "Got it. Now enter your address."

	msgAskPassword = "Almost done. Choose a password (at least 8 characters)."

	msgPasswordTooShort = "That password is too short. Please choose one with at least 8 characters."

	msgRegistrationFailed = "We couldn't complete your registration. Please send 'hi' to try again."

	msgPickNumber = "Please reply with just the number of your choice from the list above."

	msgSalonsUnavailable   = "We couldn't load the salon list right now. Please send 'hi' to try again."
	msgServicesUnavailable = "We couldn't load the services right now. Please send 'hi' to try again."
	msgExpertsUnavailable  = "We couldn't load the experts right now. Please send 'hi' to try again."
	msgTimesUnavailable    = "We couldn't check availability right now. Please send 'hi' to try again."

	msgNoSalons = "No salons are available for booking right now. Please try again later by sending 'hi'."

	msgNoServices = "That salon has no services available at the moment. Let's pick a different salon."

	msgNoExperts = "No experts are available for that salon right now. Let's pick a different service."

	msgNoSlots = "No time slots are free on that date. Let's pick a different date."

	msgCartFull = "Your cart is full (5 bookings maximum). Reply 'confirm' to book them, or 'cancel' to discard."

	msgConfirmOptions = "Please reply 'confirm' to book, 'add' to add another service, or 'cancel' to discard everything."

	msgConfirmOptionsFull = "Please reply 'confirm' to book, or 'cancel' to discard everything."

	msgCommitFailed = "Sorry, we couldn't complete your booking. Please send 'hi' to start over."

	msgFeedbackPrompt = "Thank you for visiting us! We'd love to hear your feedback.\n\n" +
		"Please reply with a rating from 1 to 5, optionally followed by a comment, like:\n" +
		"5 - Loved the service!"

	msgFeedbackInvalid = "Please send a rating between 1 and 5, optionally followed by '- your comment'."

	msgFeedbackThanks = "Thank you for your feedback! We appreciate your input."
)

func msgLoginWelcomeBack(name string) string {
	return fmt.Sprintf("Welcome back, %s! \U0001F44B", name)
}

func msgRegistrationDone(name string) string {
	return fmt.Sprintf("\U0001F389 Registration successful! Welcome %s!", name)
}

func renderSalonList(salons []models.Salon) string {
	var b strings.Builder
	b.WriteString("Available Salons:\n\n")
	for i, s := range salons {
		fmt.Fprintf(&b, "%d. %s - Rating: %.1f/5.0\n", i+1, s.Name, s.AverageRating)
	}
	b.WriteString("\nPlease reply with the number of your chosen salon.")
	return b.String()
}

func renderServiceList(services []models.Service) string {
	var b strings.Builder
	b.WriteString("Available Services:\n\n")
	for i, s := range services {
		fmt.Fprintf(&b, "%d. %s - $%.2f\n", i+1, s.Name, s.Cost)
	}
	b.WriteString("\nPlease reply with the number of your chosen service.")
	return b.String()
}

func renderExpertList(experts []models.Expert) string {
	var b strings.Builder
	b.WriteString("Available Experts:\n\n")
	for i, ex := range experts {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, ex.Name, ex.Specialization)
	}
	b.WriteString("\nPlease reply with the number of your chosen expert.")
	return b.String()
}

func renderDateList(dates []string) string {
	var b strings.Builder
	b.WriteString("Available Dates:\n\n")
	for i, d := range dates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
	}
	b.WriteString("\nPlease reply with the number of your chosen date.")
	return b.String()
}

func renderTimeList(buckets []int) string {
	var b strings.Builder
	b.WriteString("Available Times:\n\n")
	for i, bucket := range buckets {
		fmt.Fprintf(&b, "%d. %s\n", i+1, models.BucketLabel(bucket))
	}
	b.WriteString("\nPlease reply with the number of your chosen time.")
	return b.String()
}

func renderCart(cart []CartItem) string {
	var b strings.Builder
	b.WriteString("Your bookings so far:\n\n")
	for i, item := range cart {
		fmt.Fprintf(&b, "%d. %s with %s at %s on %s %s\n",
			i+1, item.Service.Name, item.Expert.Name, item.Salon.Name,
			item.Date, models.BucketLabel(item.TimeBucket))
	}
	if len(cart) >= maxCartItems {
		fmt.Fprintf(&b, "\nReply 'confirm' to book all %d, or 'cancel' to discard everything.", len(cart))
	} else {
		fmt.Fprintf(&b, "\nReply 'confirm' to book all %d, 'add' to add another service, or 'cancel' to discard everything.", len(cart))
	}
	return b.String()
}

func renderCommitted(appointments []models.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\U0001F389 All set! %d appointment(s) booked:\n\n", len(appointments))
	for i, a := range appointments {
		fmt.Fprintf(&b, "%d. %s on %s at %s\n", i+1, a.AppointmentID, a.Date, models.BucketLabel(a.TimeBucket))
	}
	b.WriteString("\nWe look forward to seeing you!")
	return b.String()
}
