package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryRuntime,
		Message:  "Unexpected error",
		Detail:   "An error without a registered code was returned.",
	},
	"E101": {
		Category: CategoryRuntime,
		Message:  "Key not found",
		Detail:   "The key is not part of the container. Containers have a fixed key set taken from the initial state.",
	},
	"E102": {
		Category: CategoryRuntime,
		Message:  "Listener panicked",
		Detail:   "A listener panicked while a change was dispatched. The value was still written and the other listeners still ran.",
	},
	"E103": {
		Category: CategoryRuntime,
		Message:  "Invalid value",
		Detail:   "The value could not be parsed. Values are written as JSON: numbers, strings in double quotes, true, false, null, arrays and objects.",
	},
	"E104": {
		Category: CategoryRuntime,
		Message:  "Type mismatch",
		Detail:   "The stored value does not have the type expected by the typed key.",
	},

	// ============================================
	// Config Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryConfig,
		Message:  "Config file not readable",
		Detail:   "The configuration file could not be opened.",
	},
	"E201": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The configuration file could not be parsed. observe.json must be JSON and observe.yaml must be YAML.",
	},
	"E202": {
		Category: CategoryConfig,
		Message:  "Invalid write mode",
		Detail:   "Write modes are \"replace\" and \"merge\".",
	},
	"E203": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "Log levels are \"debug\", \"info\", \"warn\" and \"error\".",
	},
	"E204": {
		Category: CategoryConfig,
		Message:  "Mode for unknown key",
		Detail:   "A per-key write mode names a key that is not part of the initial state.",
	},

	// ============================================
	// CLI Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryCLI,
		Message:  "Unknown command",
		Detail:   "Commands are get, set, snapshot, keys, watch, unwatch, once, help and quit.",
	},
	"E302": {
		Category: CategoryCLI,
		Message:  "Missing argument",
		Detail:   "The command needs more arguments.",
	},
	"E303": {
		Category: CategoryCLI,
		Message:  "Metrics server failed",
		Detail:   "The metrics HTTP server could not be started.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
