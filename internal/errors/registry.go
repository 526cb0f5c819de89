package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// Registered error codes.
const (
	CodeInvalidURL          = "U001"
	CodeArity               = "U002"
	CodeTypeMismatch        = "U003"
	CodeInstallationFailure = "U004"
	CodeConfigRead          = "U100"
	CodeConfigMissing       = "U101"
	CodeConfigInvalid       = "U102"
	CodeBadRequest          = "U200"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Parse Errors (U001)
	// ============================================

	CodeInvalidURL: {
		Category:   CategoryParse,
		Message:    "Invalid URL",
		Suggestion: "Relative references need a base URL with a scheme, e.g. https://example.com/",
	},

	// ============================================
	// Query Errors (U002-U003)
	// ============================================

	CodeArity: {
		Category:   CategoryQuery,
		Message:    "Each query pair must have exactly two elements",
		Suggestion: "Pass pairs as [][]string{{\"key\", \"value\"}}",
	},
	CodeTypeMismatch: {
		Category:   CategoryQuery,
		Message:    "Unsupported search params initializer",
		Suggestion: "Use a string, *searchparams.Params, a pair sequence, a map or a struct",
	},

	// ============================================
	// Install Errors (U004)
	// ============================================

	CodeInstallationFailure: {
		Category: CategoryInstall,
		Message:  "Failed to define global name",
	},

	// ============================================
	// Config Errors (U100-U199)
	// ============================================

	CodeConfigRead: {
		Category:   CategoryConfig,
		Message:    "Failed to read configuration",
		Suggestion: "Check that urlkit.json is valid JSON",
	},
	CodeConfigMissing: {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create urlkit.json or run without --config to use defaults",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// Request Errors (U200-U299)
	// ============================================

	CodeBadRequest: {
		Category:   CategoryRequest,
		Message:    "Malformed request body",
		Suggestion: "Send a JSON object with Content-Type: application/json",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
