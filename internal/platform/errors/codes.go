// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Dice notation errors
	CodeDiceSyntax                 Code = "DICE_SYNTAX"
	CodeDiceRange                  Code = "DICE_RANGE"
	CodeDiceLimitExceeded          Code = "DICE_LIMIT_EXCEEDED"
	CodeDiceUnsupportedCombination Code = "DICE_UNSUPPORTED_COMBINATION"

	// Dice pool errors
	CodeDiceMissing     Code = "DICE_MISSING"
	CodeDiceInvalidSpec Code = "DICE_INVALID_SPEC"

	// Storage errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeHistoryDisabled Code = "HISTORY_DISABLED"
)

// Metadata keys shared by dice errors.
const (
	MetaSegment  = "Segment"
	MetaPosition = "Position"
	MetaToken    = "Token"
	MetaValue    = "Value"
	MetaMin      = "Min"
	MetaMax      = "Max"
	MetaLimit    = "Limit"
	MetaReason   = "Reason"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeDiceSyntax,
		CodeDiceRange,
		CodeDiceUnsupportedCombination,
		CodeDiceMissing,
		CodeDiceInvalidSpec:
		return codes.InvalidArgument

	// ResourceExhausted - request exceeds hard limits
	case CodeDiceLimitExceeded:
		return codes.ResourceExhausted

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// FailedPrecondition - feature not configured on this server
	case CodeHistoryDisabled:
		return codes.FailedPrecondition

	default:
		return codes.Internal
	}
}
