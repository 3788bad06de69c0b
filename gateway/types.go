package gateway

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/EstebanAdso/GraphQL-Workfront/errors"
)

// OperationKind is the GraphQL root type a field belongs to
type OperationKind string

// Root types
const (
	KindQuery    OperationKind = "query"
	KindMutation OperationKind = "mutation"
)

// ListGuard selects how a list query treats the upstream payload
type ListGuard string

const (
	// GuardArray replaces any non-array payload with an empty list
	GuardArray ListGuard = "array"
	// GuardFalsy replaces only falsy payloads (absent, null, false, 0, "")
	// with an empty list; other non-arrays pass through unchanged
	GuardFalsy ListGuard = "falsy"
)

// ResultSource selects what a mutation resolves to on success
type ResultSource string

const (
	// ResultPayload returns the upstream data member
	ResultPayload ResultSource = "payload"
	// ResultEcho returns the mutation's own arguments, ignoring the response body
	ResultEcho ResultSource = "echo"
)

// RouteMapping defines how a GraphQL root field maps to one upstream REST call
type RouteMapping struct {
	// Field is the GraphQL field name (e.g. "getProjects")
	Field string `json:"field"`

	// Kind is the root type of the field
	Kind OperationKind `json:"kind"`

	// Method is the upstream HTTP method
	Method string `json:"method"`

	// Path is the upstream path relative to API_URL. Segments written as
	// {name} are filled from the argument of the same name.
	Path string `json:"path"`

	// Params lists the arguments forwarded upstream: URL query parameters for
	// GET, JSON body members otherwise. Path arguments are not repeated here.
	Params []string `json:"params,omitempty"`

	// Fixed holds constant query parameters sent on every call
	Fixed map[string]string `json:"fixed,omitempty"`

	// Defaults mirrors the schema's argument defaults; a nil value is a null default
	Defaults map[string]*string `json:"defaults,omitempty"`

	// Guard applies to queries
	Guard ListGuard `json:"guard,omitempty"`

	// Result applies to mutations
	Result ResultSource `json:"result,omitempty"`

	// FailureMessage is logged when the call fails
	FailureMessage string `json:"failure_message"`
}

// Validate ensures the route mapping is well formed
func (r *RouteMapping) Validate() error {
	if r.Field == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteMapping", "Validate",
			"field cannot be empty")
	}

	switch r.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteMapping", "Validate",
			fmt.Sprintf("invalid HTTP method %q for %s", r.Method, r.Field))
	}

	if !strings.HasPrefix(r.Path, "/") {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteMapping", "Validate",
			fmt.Sprintf("path for %s must start with /", r.Field))
	}

	pathParams, err := parsePathParams(r.Path)
	if err != nil {
		return errors.WrapInvalid(err, "RouteMapping", "Validate",
			fmt.Sprintf("parse path for %s", r.Field))
	}
	for _, p := range pathParams {
		for _, q := range r.Params {
			if p == q {
				return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteMapping", "Validate",
					fmt.Sprintf("%s: argument %s is both a path and a body parameter", r.Field, p))
			}
		}
	}

	switch r.Kind {
	case KindQuery:
		if r.Method != http.MethodGet {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteMapping", "Validate",
				fmt.Sprintf("query %s must use GET", r.Field))
		}
		if r.Guard != GuardArray && r.Guard != GuardFalsy {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteMapping", "Validate",
				fmt.Sprintf("query %s needs a list guard", r.Field))
		}
	case KindMutation:
		if r.Result != ResultPayload && r.Result != ResultEcho {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteMapping", "Validate",
				fmt.Sprintf("mutation %s needs a result source", r.Field))
		}
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteMapping", "Validate",
			fmt.Sprintf("invalid kind %q for %s", r.Kind, r.Field))
	}

	for name := range r.Defaults {
		if !r.hasArgument(name) {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteMapping", "Validate",
				fmt.Sprintf("%s: default for unknown argument %s", r.Field, name))
		}
	}

	if r.FailureMessage == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "RouteMapping", "Validate",
			fmt.Sprintf("failure message for %s cannot be empty", r.Field))
	}

	return nil
}

// Arguments returns every argument the route consumes, path parameters first
func (r *RouteMapping) Arguments() []string {
	pathParams, _ := parsePathParams(r.Path)
	return append(pathParams, r.Params...)
}

func (r *RouteMapping) hasArgument(name string) bool {
	for _, a := range r.Arguments() {
		if a == name {
			return true
		}
	}
	return false
}

// ExpandPath fills the {name} segments of Path from args. Values are path
// escaped; a missing or null argument leaves the segment empty.
func (r *RouteMapping) ExpandPath(args map[string]*string) string {
	var b strings.Builder
	rest := r.Path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:open])
		name := rest[open+1 : open+closing]
		if v := args[name]; v != nil {
			b.WriteString(url.PathEscape(*v))
		}
		rest = rest[open+closing+1:]
	}
}

func parsePathParams(path string) ([]string, error) {
	var params []string
	rest := path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return nil, fmt.Errorf("unbalanced } in %s", path)
			}
			return params, nil
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return nil, fmt.Errorf("unterminated { in %s", path)
		}
		name := rest[open+1 : open+closing]
		if name == "" {
			return nil, fmt.Errorf("empty parameter name in %s", path)
		}
		params = append(params, name)
		rest = rest[open+closing+1:]
	}
}

// Config holds the route table the resolvers dispatch through
type Config struct {
	Routes []RouteMapping `json:"routes"`
}

// Validate ensures every route is valid and field names are unique
func (c *Config) Validate() error {
	if len(c.Routes) == 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"at least one route mapping is required")
	}

	seen := make(map[string]bool, len(c.Routes))
	for i := range c.Routes {
		route := &c.Routes[i]
		if err := route.Validate(); err != nil {
			return errors.WrapInvalid(err, "Config", "Validate",
				fmt.Sprintf("invalid route at index %d", i))
		}
		if seen[route.Field] {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				fmt.Sprintf("duplicate route for field %s", route.Field))
		}
		seen[route.Field] = true
	}
	return nil
}

// Lookup returns the route for a GraphQL field
func (c *Config) Lookup(field string) (RouteMapping, bool) {
	for _, r := range c.Routes {
		if r.Field == field {
			return r, true
		}
	}
	return RouteMapping{}, false
}

func str(s string) *string { return &s }

// DefaultConfig returns the Workfront route table
func DefaultConfig() Config {
	return Config{
		Routes: []RouteMapping{
			{
				Field:          "getProjects",
				Kind:           KindQuery,
				Method:         http.MethodGet,
				Path:           "/proj/search",
				Params:         []string{"ownerID"},
				Guard:          GuardArray,
				FailureMessage: "Error Fetching projects",
			},
			{
				Field:          "getTasksById",
				Kind:           KindQuery,
				Method:         http.MethodGet,
				Path:           "/task/search",
				Params:         []string{"projectID"},
				Guard:          GuardFalsy,
				FailureMessage: "Error Fetching tasks",
			},
			{
				Field:          "getUserById",
				Kind:           KindQuery,
				Method:         http.MethodGet,
				Path:           "/user/search",
				Params:         []string{"ID"},
				Fixed:          map[string]string{"fields": "username"},
				Guard:          GuardArray,
				FailureMessage: "Error Fetching user",
			},
			{
				Field:          "getAllCategories",
				Kind:           KindQuery,
				Method:         http.MethodGet,
				Path:           "/category/search",
				Guard:          GuardFalsy,
				FailureMessage: "Error Fetching categories",
			},
			{
				Field:  "createProject",
				Kind:   KindMutation,
				Method: http.MethodPost,
				Path:   "/proj",
				Params: []string{"name", "objCode", "description", "percentComplete", "plannedCompletionDate",
					"plannedStartDate", "priority", "projectedCompletionDate", "status"},
				Defaults:       map[string]*string{"objCode": str("PROJ")},
				Result:         ResultPayload,
				FailureMessage: "Error Creating project",
			},
			{
				Field:          "createTask",
				Kind:           KindMutation,
				Method:         http.MethodPost,
				Path:           "/task",
				Params:         []string{"projectID", "name", "objCode", "status", "assignedToID", "priority"},
				Defaults:       map[string]*string{"objCode": str("PROJ"), "assignedToID": nil},
				Result:         ResultPayload,
				FailureMessage: "Error Creating task",
			},
			{
				Field:          "createSubTask",
				Kind:           KindMutation,
				Method:         http.MethodPost,
				Path:           "/task",
				Params:         []string{"projectID", "name", "description", "status", "parentID"},
				Result:         ResultPayload,
				FailureMessage: "Error Creating subtask",
			},
			{
				Field:          "createIssueProject",
				Kind:           KindMutation,
				Method:         http.MethodPost,
				Path:           "/issue",
				Params:         []string{"projectID", "name", "description", "status", "priority"},
				Result:         ResultPayload,
				FailureMessage: "Error Creating issue project",
			},
			{
				Field:  "createIssueTask",
				Kind:   KindMutation,
				Method: http.MethodPost,
				Path:   "/issue",
				Params: []string{"projectID", "name", "description", "status", "priority", "opTaskType",
					"assignedToID", "sourceObjID", "sourceObjCode"},
				Defaults: map[string]*string{
					"opTaskType":    str("ISU"),
					"assignedToID":  nil,
					"sourceObjCode": str("TASK"),
				},
				Result:         ResultPayload,
				FailureMessage: "Error Creating issue task",
			},
			{
				Field:          "AssignedCategoryToProject",
				Kind:           KindMutation,
				Method:         http.MethodPut,
				Path:           "/proj/{projectID}",
				Params:         []string{"categoryID"},
				Result:         ResultEcho,
				FailureMessage: "Error Assigning category to project",
			},
			{
				Field:          "AssignedCategoryToTask",
				Kind:           KindMutation,
				Method:         http.MethodPut,
				Path:           "/task/{taskID}",
				Params:         []string{"categoryID"},
				Result:         ResultEcho,
				FailureMessage: "Error Assigning category to task",
			},
			{
				Field:          "createNote",
				Kind:           KindMutation,
				Method:         http.MethodPost,
				Path:           "/note",
				Params:         []string{"noteText", "objID", "noteObjCode"},
				Defaults:       map[string]*string{"noteObjCode": str("TASK")},
				Result:         ResultEcho,
				FailureMessage: "Error Creating note",
			},
		},
	}
}
