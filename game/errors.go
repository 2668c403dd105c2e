package game

import "errors"

var (
	// Capacity / identity conflicts while joining.
	ErrLobbyFull      = errors.New("this lobby is full")
	ErrAlreadyPresent = errors.New("you are already connected to this game")

	// Start precondition.
	ErrNotReady = errors.New("not every player is ready")

	// The lobby was consumed by Start between resolution and use.
	ErrAlreadyStarted = errors.New("this game has already started")

	// Cut authorization.
	ErrDontHaveWireCutter = errors.New("you don't have the wire cutter")
	ErrCannotSelfCut      = errors.New("you can't cut one of your own cables")

	ErrUnknownPlayer = errors.New("unknown player")
)
