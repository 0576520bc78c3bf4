package client

import "errors"

// Client-specific errors
var (
	ErrClientClosed     = errors.New("client is closed")
	ErrNotConnected     = errors.New("client is not connected")
	ErrAlreadyConnected = errors.New("client is already connected")
	ErrNotJoined        = errors.New("client has not joined yet")
	ErrSendFailed       = errors.New("send failed")
)
