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
	// Node Errors (E200-E209)
	// ============================================

	"E200": {
		Category: CategoryNode,
		Message:  "Malformed node",
		Detail:   "A virtual node is missing a field its kind requires, such as a Native node without a tag or a component node without a type.",
	},
	"E201": {
		Category: CategoryNode,
		Message:  "Unknown node kind",
		Detail:   "The node kind is not one of Text, Void, Native, Function, Class or Foreign.",
	},
	"E202": {
		Category: CategoryNode,
		Message:  "Render output cannot be normalized",
		Detail:   "A component returned a value that is not a node, a primitive, nil, or a single-element list.",
	},

	// ============================================
	// Host Errors (E210-E219)
	// ============================================

	"E210": {
		Category: CategoryHost,
		Message:  "Host operation failed",
		Detail:   "The host tree rejected a mutation. Mutations already applied are kept; nothing is retried.",
	},

	// ============================================
	// Foreign Errors (E220-E229)
	// ============================================

	"E220": {
		Category: CategoryForeign,
		Message:  "No foreign adapter configured",
		Detail:   "A Foreign node was mounted but the render kit has no ForeignAdapter.",
	},
	"E221": {
		Category: CategoryForeign,
		Message:  "Foreign instance creation failed",
		Detail:   "The foreign framework could not create, bind or check the component instance.",
	},
	"E222": {
		Category: CategoryForeign,
		Message:  "Foreign instance destruction failed",
		Detail:   "The foreign framework failed while tearing down a component instance.",
	},
	"E223": {
		Category: CategoryForeign,
		Message:  "Foreign output subscription failed",
		Detail:   "Subscribing to or unsubscribing from a foreign component output failed.",
	},
	"E224": {
		Category: CategoryForeign,
		Message:  "Foreign input push failed",
		Detail:   "The foreign framework rejected updated input values.",
	},

	// ============================================
	// Document Errors (E230-E239)
	// ============================================

	"E230": {
		Category: CategoryDocument,
		Message:  "Invalid tree document",
		Detail:   "The tree document could not be parsed or references an unknown component.",
	},
	"E231": {
		Category: CategoryDocument,
		Message:  "Expression evaluation failed",
		Detail:   "A ${...} expression in a tree document failed to compile or run.",
	},
	"E232": {
		Category: CategoryDocument,
		Message:  "Document source unavailable",
		Detail:   "The tree document could not be read from its file, stdin or object store location.",
	},

	// ============================================
	// Protocol Errors (E240-E249)
	// ============================================

	"E240": {
		Category: CategoryProtocol,
		Message:  "Invalid mutation frame",
		Detail:   "A mutation frame could not be decoded. The peer may use a different protocol version.",
	},

	// ============================================
	// Configuration Errors (E250-E259)
	// ============================================

	"E250": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The graft configuration file or environment could not be loaded.",
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
