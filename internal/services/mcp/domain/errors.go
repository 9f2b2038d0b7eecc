package domain

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"

	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
)

// IsDomainError reports whether err carries a dice error code that should be
// surfaced to the model as a tool result rather than a protocol failure.
func IsDomainError(err error) bool {
	return err != nil && apperrors.GetCode(err) != apperrors.CodeUnknown
}

// ToolErrorResult renders a domain error as a tool result flagged IsError.
// The first content block is the localized message; the second is the
// status proto as JSON, including the error code and metadata.
func ToolErrorResult(err error, locale string, meta ToolCallMetadata) *mcp.CallToolResult {
	result := CallToolResultWithMetadata(meta)
	result.IsError = true
	result.Content = []mcp.Content{
		&mcp.TextContent{Text: apperrors.LocalizedMessage(err, locale)},
	}
	if st, ok := status.FromError(apperrors.HandleError(err, locale)); ok {
		if data, marshalErr := protojson.Marshal(st.Proto()); marshalErr == nil {
			result.Content = append(result.Content, &mcp.TextContent{Text: string(data)})
		}
	}
	return result
}
