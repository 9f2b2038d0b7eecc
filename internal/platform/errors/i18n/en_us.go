package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                    = "UNKNOWN"
	CodeDiceSyntax                 = "DICE_SYNTAX"
	CodeDiceRange                  = "DICE_RANGE"
	CodeDiceLimitExceeded          = "DICE_LIMIT_EXCEEDED"
	CodeDiceUnsupportedCombination = "DICE_UNSUPPORTED_COMBINATION"
	CodeDiceMissing                = "DICE_MISSING"
	CodeDiceInvalidSpec            = "DICE_INVALID_SPEC"
	CodeNotFound                   = "NOT_FOUND"
	CodeHistoryDisabled            = "HISTORY_DISABLED"
)

var enUSMessages = map[Code]string{
	CodeUnknown:                    "An unexpected error occurred",
	CodeDiceSyntax:                 `Invalid dice notation{{if .Token}} near "{{.Token}}"{{end}}{{if .Position}} at position {{.Position}}{{end}}{{if .Reason}}: {{.Reason}}{{end}}`,
	CodeDiceRange:                  `{{if .Reason}}{{.Token}}: {{.Reason}}{{else}}{{.Token}} must be between {{.Min}} and {{.Max}}{{if .Value}}, got {{.Value}}{{end}}{{end}}`,
	CodeDiceLimitExceeded:          `{{.Token}} exceeds the limit of {{.Limit}}`,
	CodeDiceUnsupportedCombination: `"{{.Token}}" cannot be used here{{if .Reason}}: {{.Reason}}{{end}}`,
	CodeDiceMissing:                "At least one die is required",
	CodeDiceInvalidSpec:            "Dice must have a positive count and number of sides",
	CodeNotFound:                   `{{if .Resource}}{{.Resource}}{{else}}Resource{{end}} not found`,
	CodeHistoryDisabled:            "Roll history is not enabled",
}
