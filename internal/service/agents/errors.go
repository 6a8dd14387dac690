package agents

import "errors"

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameExists         = errors.New("game already initialized")
	ErrAgentNotFound      = errors.New("agent not found")
	ErrAgentExists        = errors.New("agent already exists")
	ErrNextLevelNotFound  = errors.New("next agent level not found")
	ErrRemoteGameNotFound = errors.New("remote game not found")
	ErrBlobNotFound       = errors.New("file not found in storage")
	ErrInvalidProfile     = errors.New("invalid agent profile")
	ErrInvalidResources   = errors.New("invalid game resources")
)
