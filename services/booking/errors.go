package booking

import "fmt"

// Error is a typed transition rejection. Handlers map the code to an HTTP
// status and show the message as-is.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrNotAvailable: the slot is no longer in a state the transition accepts.
	ErrNotAvailable = &Error{Code: "not_available", Message: "this appointment is no longer available"}
	// ErrNotOwner: the actor is not the stylist who owns the slot.
	ErrNotOwner = &Error{Code: "not_owner", Message: "this appointment does not belong to you"}
	// ErrNotOccupant: the actor is not the customer holding the slot.
	ErrNotOccupant = &Error{Code: "not_occupant", Message: "you did not book this appointment"}
	// ErrAlreadyOccupied: a booking race was lost, either on the slot or on
	// the customer's one-booked-slot allowance.
	ErrAlreadyOccupied = &Error{Code: "already_occupied", Message: "sorry, this chair has already been filled"}
	// ErrTooEarlyToComplete: a customer tried to complete before the slot time.
	ErrTooEarlyToComplete = &Error{Code: "too_early_to_complete", Message: "the appointment time has not passed yet"}
	// ErrInvalidAddOn: an add-on references neither the catalog nor valid legacy fields.
	ErrInvalidAddOn = &Error{Code: "invalid_add_on", Message: "requested add-on is not offered for this appointment"}
	// ErrNotReviewable: only completed appointments take reviews.
	ErrNotReviewable = &Error{Code: "not_reviewable", Message: "the appointment must be completed before it can be reviewed"}
	// ErrAlreadyReviewed: the appointment already has a review.
	ErrAlreadyReviewed = &Error{Code: "already_reviewed", Message: "you already left a review for this appointment"}
	// ErrInvalidReview: rating outside 1..5, or missing/oversized content.
	ErrInvalidReview = &Error{Code: "invalid_review", Message: "a review needs a 1 to 5 rating and a short text"}
)

// IsCode reports whether err is a booking Error with the given code.
func IsCode(err error, code string) bool {
	be, ok := err.(*Error)
	return ok && be.Code == code
}
