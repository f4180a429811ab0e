package services

import "errors"

// Sentinel errors returned by the reservation, settlement and wallet
// services. Handlers map these onto HTTP status codes.
var (
	ErrNotFound          = errors.New("record not found")
	ErrNotOwner          = errors.New("acting user does not own the trip")
	ErrNotParticipant    = errors.New("acting user is not a participant of the booking")
	ErrNotPending        = errors.New("booking is not pending")
	ErrNotApproved       = errors.New("booking is not approved")
	ErrTripNotActive     = errors.New("trip is not active")
	ErrSelfBooking       = errors.New("cannot book a seat on your own trip")
	ErrCapacityExceeded  = errors.New("not enough remaining seats")
	ErrAlreadyCompleted  = errors.New("trip is already completed or cancelled")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSeatsBelowSold    = errors.New("total seats cannot drop below seats already booked")
)
