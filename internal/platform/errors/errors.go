package errors

import (
	"errors"
	"maps"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain is the error domain for Dice Maiden errors.
const Domain = "github.com/louisbranch/dicemaiden"

// Error is a dice or history failure with a code and the metadata its
// localized message is rendered from. Values are treated as immutable; use
// With or InSegment to derive an annotated copy.
type Error struct {
	Code Code
	// Message is the English diagnostic for logs and spans.
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// Meta returns one metadata value, "" when absent.
func (e *Error) Meta(key string) string {
	return e.Metadata[key]
}

// With returns a copy of e carrying key=value.
func (e *Error) With(key, value string) *Error {
	out := *e
	out.Metadata = maps.Clone(e.Metadata)
	if out.Metadata == nil {
		out.Metadata = make(map[string]string, 1)
	}
	out.Metadata[key] = value
	return &out
}

// New creates an error without metadata.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates an error whose localized message is rendered from
// metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap creates an error around an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WrapWithMetadata creates an error with both metadata and a cause.
func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata, Cause: cause}
}

// InSegment tags err with the 1-based roll segment it came from. Errors that
// are not *Error pass through unchanged.
func InSegment(err error, segment int) error {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return err
	}
	return appErr.With(MetaSegment, strconv.Itoa(segment))
}

// ToGRPCStatus converts the error to a gRPC status. The status message keeps
// the English diagnostic; userMessage travels as a LocalizedMessage detail
// next to an ErrorInfo carrying the code and metadata.
func (e *Error) ToGRPCStatus(locale string, userMessage string) error {
	grpcCode := e.Code.GRPCCode()
	st, err := status.New(grpcCode, e.Message).WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  locale,
			Message: userMessage,
		},
	)
	if err != nil {
		return status.New(grpcCode, e.Message).Err()
	}
	return st.Err()
}
