package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://folio.vango.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Discovery Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryDiscovery,
		Message:  "Module discovery failed",
		Detail:   "A page or layout module could not be listed or loaded. Discovery never continues with a partial route table.",
		DocURL:   docBase + "E100",
	},
	"E101": {
		Category: CategoryValidation,
		Message:  "Invalid route table",
		Detail:   "Two pages compile to the same route, a route pattern is malformed, or two dynamic routes match the same paths.",
		DocURL:   docBase + "E101",
	},

	// ============================================
	// Enumeration Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryEnumeration,
		Message:  "Dynamic route has no static-parameter generator",
		Detail:   "Every page with [name] or [...name] segments must declare the parameter bindings it is prerendered with.",
		DocURL:   docBase + "E110",
	},
	"E111": {
		Category: CategoryEnumeration,
		Message:  "Static-parameter generator failed",
		Detail:   "A generator returned an error, so the set of static paths is incomplete.",
		DocURL:   docBase + "E111",
	},
	"E112": {
		Category: CategoryEnumeration,
		Message:  "Invalid binding record",
		Detail:   "A binding record is missing a parameter, names a parameter the route does not declare, or gives a value of the wrong shape.",
		DocURL:   docBase + "E112",
	},

	// ============================================
	// Config Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No folio.json was found in the current directory or any parent directory.",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Config parse error",
		Detail:   "folio.json is not valid JSON.",
		DocURL:   docBase + "E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range or inconsistent with another.",
		DocURL:   docBase + "E122",
	},
	"E125": {
		Category: CategoryContent,
		Message:  "Invalid content document",
		Detail:   "A content document has malformed front matter or is missing a required field.",
		DocURL:   docBase + "E125",
	},

	// ============================================
	// Render and Write Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "A page or one of its layouts returned an error while rendering.",
		DocURL:   docBase + "E130",
	},
	"E131": {
		Category: CategoryRender,
		Message:  "Output write failed",
		Detail:   "A rendered file could not be written to the output directory or bucket.",
		DocURL:   docBase + "E131",
	},

	// ============================================
	// Build Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryBuild,
		Message:  "Build failed",
		Detail:   "The static build did not complete.",
		DocURL:   docBase + "E140",
	},
	"E141": {
		Category: CategoryBuild,
		Message:  "Asset bundling failed",
		Detail:   "esbuild reported errors while bundling client assets.",
		DocURL:   docBase + "E141",
	},
	"E142": {
		Category: CategoryBuild,
		Message:  "Public files copy failed",
		Detail:   "Files under public/ could not be copied into the output directory.",
		DocURL:   docBase + "E142",
	},

	// ============================================
	// CLI Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
		DocURL:   docBase + "E150",
	},
	"E151": {
		Category: CategoryCLI,
		Message:  "Code generation failed",
		Detail:   "Route parameter types could not be generated.",
		DocURL:   docBase + "E151",
	},
}

// GetAllCodes returns all registered error codes in order.
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

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
