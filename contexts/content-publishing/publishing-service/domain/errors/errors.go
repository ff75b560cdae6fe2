package errors

import "errors"

var (
	ErrCardNotFound           = errors.New("card not found")
	ErrCardExists             = errors.New("card already exists")
	ErrContractNotFound       = errors.New("contract not found")
	ErrContractExists         = errors.New("card already has a contract for this platform format")
	ErrInvalidPublishingInput = errors.New("invalid publishing input")
	ErrInvalidStateTransition = errors.New("invalid publishing state transition")
	ErrInvalidSchedule        = errors.New("publish time must be in the future")
	ErrContractPayloadInvalid = errors.New("contract payload failed validation")
	ErrNoReadyContracts       = errors.New("card has no ready contracts")
	ErrNoValidAccessToken     = errors.New("no valid access token")
)
