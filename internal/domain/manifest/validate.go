package manifest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult holds the result of validating a module manifest.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []ValidationError `json:"warnings,omitempty"`
}

// Err collapses the result into a single error, nil when valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("invalid manifest: %s", strings.Join(msgs, "; "))
}

// Regular expressions for validation
var (
	namePattern     = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	versionPattern  = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	toolNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	sha256Pattern   = regexp.MustCompile(`^[a-f0-9]{64}$`)
)

// ValidRuntimeTypes contains all valid runtime type values.
var ValidRuntimeTypes = map[RuntimeType]bool{
	RuntimeWASM: true,
	RuntimeJS:   true,
}

var callMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Validate checks a Module against the schema rules.
func Validate(mod *Module) *ValidationResult {
	result := &ValidationResult{Valid: true}

	validateRequired(mod, result)
	if len(result.Errors) > 0 {
		result.Valid = false
		return result
	}

	validateFormats(mod, result)
	validateTools(mod, result)
	validateResources(mod, result)
	validatePrompts(mod, result)
	if mod.Runtime != nil {
		validateRuntime(mod.Runtime, result)
	}
	addWarnings(mod, result)

	result.Valid = len(result.Errors) == 0
	return result
}

func validateRequired(mod *Module, result *ValidationResult) {
	if mod.Name == "" {
		result.Errors = append(result.Errors, ValidationError{"name", "required field is missing"})
	}
	if mod.Version == "" {
		result.Errors = append(result.Errors, ValidationError{"version", "required field is missing"})
	}
	if mod.Description == "" {
		result.Errors = append(result.Errors, ValidationError{"description", "required field is missing"})
	}
	if len(mod.Tools) == 0 && len(mod.Resources) == 0 && len(mod.Prompts) == 0 {
		result.Errors = append(result.Errors, ValidationError{"module", "must declare at least one tool, resource, or prompt"})
	}
}

func validateFormats(mod *Module, result *ValidationResult) {
	if len(mod.Name) < 2 || len(mod.Name) > 64 {
		result.Errors = append(result.Errors, ValidationError{"name", "must be between 2 and 64 characters"})
	} else if !namePattern.MatchString(mod.Name) {
		result.Errors = append(result.Errors, ValidationError{"name", "must be lowercase letters, numbers, and hyphens only, starting with a letter"})
	}

	if !versionPattern.MatchString(mod.Version) {
		result.Errors = append(result.Errors, ValidationError{"version", "must be a valid semantic version (e.g., 1.0.0)"})
	}

	if len(mod.Title) > 64 {
		result.Errors = append(result.Errors, ValidationError{"title", "must be 64 characters or less"})
	}

	if len(mod.Description) < 10 {
		result.Errors = append(result.Errors, ValidationError{"description", "must be at least 10 characters"})
	} else if len(mod.Description) > 200 {
		result.Errors = append(result.Errors, ValidationError{"description", "must be 200 characters or less"})
	}
}

func validateTools(mod *Module, result *ValidationResult) {
	seenNames := make(map[string]bool)

	for i, tool := range mod.Tools {
		prefix := fmt.Sprintf("tools[%d]", i)

		if tool.Name == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".name", "required"})
		} else {
			if !toolNamePattern.MatchString(tool.Name) {
				result.Errors = append(result.Errors, ValidationError{prefix + ".name", "must be snake_case (lowercase letters, numbers, underscores)"})
			}
			if seenNames[tool.Name] {
				result.Errors = append(result.Errors, ValidationError{prefix + ".name", fmt.Sprintf("duplicate tool name: %s", tool.Name)})
			}
			seenNames[tool.Name] = true
		}

		if tool.Description == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".description", "required"})
		} else if len(tool.Description) < 10 {
			result.Errors = append(result.Errors, ValidationError{prefix + ".description", "must be at least 10 characters"})
		}

		if tool.InputSchema == nil {
			result.Errors = append(result.Errors, ValidationError{prefix + ".inputSchema", "required"})
		} else if tool.InputSchema.Type != "object" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".inputSchema.type", "must be 'object'"})
		}

		switch {
		case tool.Call != nil && tool.Handler != "":
			result.Errors = append(result.Errors, ValidationError{prefix, "call and handler are mutually exclusive"})
		case tool.Call != nil:
			validateCall(prefix+".call", tool.Call, result)
		case tool.Handler != "":
			if mod.Runtime == nil {
				result.Errors = append(result.Errors, ValidationError{prefix + ".handler", "requires a runtime section"})
			}
		default:
			result.Errors = append(result.Errors, ValidationError{prefix, "either call or handler is required"})
		}
	}
}

func validateCall(prefix string, call *HTTPCall, result *ValidationResult) {
	if !callMethods[strings.ToUpper(call.Method)] {
		result.Errors = append(result.Errors, ValidationError{prefix + ".method", fmt.Sprintf("invalid HTTP method: %s", call.Method)})
	}
	if call.Path == "" {
		result.Errors = append(result.Errors, ValidationError{prefix + ".path", "required"})
	} else if !strings.HasPrefix(call.Path, "/") {
		result.Errors = append(result.Errors, ValidationError{prefix + ".path", "must start with /"})
	}
	for _, p := range call.PathParams {
		if !strings.Contains(call.Path, "{"+p+"}") {
			result.Errors = append(result.Errors, ValidationError{prefix + ".pathParams", fmt.Sprintf("path has no {%s} placeholder", p)})
		}
	}
}

func validateResources(mod *Module, result *ValidationResult) {
	seenURIs := make(map[string]bool)

	for i, res := range mod.Resources {
		prefix := fmt.Sprintf("resources[%d]", i)

		if res.URI == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".uri", "required"})
		} else {
			if !strings.Contains(res.URI, "://") {
				result.Errors = append(result.Errors, ValidationError{prefix + ".uri", "must be a scheme://path URI"})
			}
			if seenURIs[res.URI] {
				result.Errors = append(result.Errors, ValidationError{prefix + ".uri", fmt.Sprintf("duplicate resource URI: %s", res.URI)})
			}
			seenURIs[res.URI] = true
		}

		if res.Name == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".name", "required"})
		}

		switch {
		case res.Text != "" && res.Handler != "":
			result.Errors = append(result.Errors, ValidationError{prefix, "text and handler are mutually exclusive"})
		case res.Text == "" && res.Handler == "":
			result.Errors = append(result.Errors, ValidationError{prefix, "either text or handler is required"})
		case res.Handler != "" && mod.Runtime == nil:
			result.Errors = append(result.Errors, ValidationError{prefix + ".handler", "requires a runtime section"})
		}
	}
}

func validatePrompts(mod *Module, result *ValidationResult) {
	seenNames := make(map[string]bool)

	for i, prompt := range mod.Prompts {
		prefix := fmt.Sprintf("prompts[%d]", i)

		if prompt.Name == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".name", "required"})
		} else {
			if !toolNamePattern.MatchString(prompt.Name) {
				result.Errors = append(result.Errors, ValidationError{prefix + ".name", "must be snake_case (lowercase letters, numbers, underscores)"})
			}
			if seenNames[prompt.Name] {
				result.Errors = append(result.Errors, ValidationError{prefix + ".name", fmt.Sprintf("duplicate prompt name: %s", prompt.Name)})
			}
			seenNames[prompt.Name] = true
		}

		if prompt.Text == "" {
			result.Errors = append(result.Errors, ValidationError{prefix + ".text", "required"})
		}
	}
}

func validateRuntime(runtime *Runtime, result *ValidationResult) {
	if !ValidRuntimeTypes[runtime.Type] {
		result.Errors = append(result.Errors, ValidationError{"runtime.type", fmt.Sprintf("invalid runtime type: %s", runtime.Type)})
	}
	if runtime.Module == "" {
		result.Errors = append(result.Errors, ValidationError{"runtime.module", "required"})
	} else if filepath.IsAbs(runtime.Module) || strings.Contains(runtime.Module, "..") {
		result.Errors = append(result.Errors, ValidationError{"runtime.module", "must be a relative path inside the module directory"})
	}
	if runtime.SHA256 != "" && !sha256Pattern.MatchString(runtime.SHA256) {
		result.Errors = append(result.Errors, ValidationError{"runtime.sha256", "invalid SHA256 hash"})
	}
}

func addWarnings(mod *Module, result *ValidationResult) {
	if mod.Title == "" {
		result.Warnings = append(result.Warnings, ValidationError{"title", "recommended: add a display title"})
	}
	if mod.Metadata == nil || mod.Metadata.Author == "" {
		result.Warnings = append(result.Warnings, ValidationError{"metadata.author", "recommended: add an author"})
	}
}

// Load reads and parses a manifest file by extension, without validating.
func Load(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var mod Module
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &mod); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &mod); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest extension: %s", filepath.Ext(path))
	}
	return &mod, nil
}

// ValidateFile reads, parses, and validates a manifest file.
func ValidateFile(path string) (*ValidationResult, error) {
	mod, err := Load(path)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "file",
				Message: err.Error(),
			}},
		}, nil
	}
	return Validate(mod), nil
}

// ValidateDirectory validates all manifest files in a directory.
func ValidateDirectory(dir string) (map[string]*ValidationResult, error) {
	results := make(map[string]*ValidationResult)

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext != ".json" && ext != ".toml" {
			continue
		}

		path := filepath.Join(dir, file.Name())
		result, err := ValidateFile(path)
		if err != nil {
			results[file.Name()] = &ValidationResult{
				Valid: false,
				Errors: []ValidationError{{
					Field:   "file",
					Message: err.Error(),
				}},
			}
		} else {
			results[file.Name()] = result
		}
	}

	return results, nil
}
