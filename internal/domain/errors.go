package domain

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyJoined = errors.New("user already joined the room")
	ErrNotInRoom     = errors.New("user not in the room")

	ErrSeatTaken   = errors.New("seat is already taken")
	ErrSeatLocked  = errors.New("seat is locked")
	ErrInvalidSeat = errors.New("seat number out of range")

	ErrForbidden   = errors.New("action not allowed")
	ErrOwnerImmune = errors.New("room owner cannot be targeted")

	ErrBanned          = errors.New("user is banned from the room")
	ErrBanNotFound     = errors.New("active ban not found")
	ErrInvalidDuration = errors.New("invalid ban duration")

	ErrGrantNotFound = errors.New("moderator grant not found")
)
