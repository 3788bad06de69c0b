package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/graph-gophers/graphql-go"

	"github.com/EstebanAdso/GraphQL-Workfront/errors"
	"github.com/EstebanAdso/GraphQL-Workfront/gateway"
	"github.com/EstebanAdso/GraphQL-Workfront/metric"
	"github.com/EstebanAdso/GraphQL-Workfront/upstream"
)

// Upstream performs one REST call against the Workfront API
type Upstream interface {
	Do(ctx context.Context, req upstream.Request) (upstream.Envelope, error)
}

// MetricsRecorder interface for recording GraphQL operation metrics
type MetricsRecorder interface {
	RecordMetrics(ctx context.Context, operation string, fn func() error) error
}

// Resolver is the root resolver for the Query and Mutation types. Each field
// looks up its route and performs exactly one upstream call.
type Resolver struct {
	upstream Upstream
	routes   map[string]gateway.RouteMapping
	logger   *slog.Logger
	metrics  *metric.Metrics
	recorder MetricsRecorder
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used for fallbacks and guard coercions
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithResolverMetrics enables fallback and coercion counters
func WithResolverMetrics(m *metric.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithMetricsRecorder wraps every upstream call with recorder
func WithMetricsRecorder(recorder MetricsRecorder) ResolverOption {
	return func(r *Resolver) {
		r.recorder = recorder
	}
}

// NewResolver creates the root resolver. The route table must be valid and
// cover every root field of the schema.
func NewResolver(up Upstream, routes gateway.Config, opts ...ResolverOption) (*Resolver, error) {
	if up == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "Resolver", "NewResolver",
			"upstream client is required")
	}
	if err := routes.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "Resolver", "NewResolver", "route validation")
	}
	if err := checkRoutes(routes); err != nil {
		return nil, errors.WrapInvalid(err, "Resolver", "NewResolver", "route and schema mismatch")
	}

	r := &Resolver{
		upstream: up,
		routes:   make(map[string]gateway.RouteMapping, len(routes.Routes)),
		logger:   slog.Default(),
	}
	for _, route := range routes.Routes {
		r.routes[route.Field] = route
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "resolver")
	return r, nil
}

// Query fields

// GetProjects lists the projects owned by a user
func (r *Resolver) GetProjects(ctx context.Context, args struct{ OwnerID graphql.NullString }) (*[]*Project, error) {
	return resolveList(ctx, r, "getProjects", arguments{"ownerID": args.OwnerID}, newProject)
}

// GetTasksByID lists the tasks of a project
func (r *Resolver) GetTasksByID(ctx context.Context, args struct{ ProjectID graphql.NullString }) (*[]*Task, error) {
	return resolveList(ctx, r, "getTasksById", arguments{"projectID": args.ProjectID}, newTask)
}

// GetUserByID looks up users by ID
func (r *Resolver) GetUserByID(ctx context.Context, args struct{ ID graphql.NullString }) (*[]*User, error) {
	return resolveList(ctx, r, "getUserById", arguments{"ID": args.ID}, newUser)
}

// GetAllCategories lists every category
func (r *Resolver) GetAllCategories(ctx context.Context) (*[]*Category, error) {
	return resolveList(ctx, r, "getAllCategories", nil, newCategory)
}

// Mutation fields

type createProjectArgs struct {
	Name                    graphql.NullString
	Description             graphql.NullString
	ObjCode                 graphql.NullString
	PercentComplete         graphql.NullString
	PlannedCompletionDate   graphql.NullString
	PlannedStartDate        graphql.NullString
	Priority                graphql.NullString
	ProjectedCompletionDate graphql.NullString
	Status                  graphql.NullString
}

// CreateProject creates a project
func (r *Resolver) CreateProject(ctx context.Context, args createProjectArgs) (*Project, error) {
	return resolveObject(ctx, r, "createProject", arguments{
		"name":                    args.Name,
		"description":             args.Description,
		"objCode":                 args.ObjCode,
		"percentComplete":         args.PercentComplete,
		"plannedCompletionDate":   args.PlannedCompletionDate,
		"plannedStartDate":        args.PlannedStartDate,
		"priority":                args.Priority,
		"projectedCompletionDate": args.ProjectedCompletionDate,
		"status":                  args.Status,
	}, newProject)
}

type createTaskArgs struct {
	ProjectID    graphql.NullString
	Name         graphql.NullString
	ObjCode      graphql.NullString
	Status       graphql.NullString
	AssignedToID graphql.NullString
	Priority     graphql.NullString
}

// CreateTask creates a task
func (r *Resolver) CreateTask(ctx context.Context, args createTaskArgs) (*Task, error) {
	return resolveObject(ctx, r, "createTask", arguments{
		"projectID":    args.ProjectID,
		"name":         args.Name,
		"objCode":      args.ObjCode,
		"status":       args.Status,
		"assignedToID": args.AssignedToID,
		"priority":     args.Priority,
	}, newTask)
}

type createSubTaskArgs struct {
	ProjectID   graphql.NullString
	Name        graphql.NullString
	Description graphql.NullString
	Status      graphql.NullString
	ParentID    graphql.NullString
}

// CreateSubTask creates a task under a parent task
func (r *Resolver) CreateSubTask(ctx context.Context, args createSubTaskArgs) (*SubTask, error) {
	return resolveObject(ctx, r, "createSubTask", arguments{
		"projectID":   args.ProjectID,
		"name":        args.Name,
		"description": args.Description,
		"status":      args.Status,
		"parentID":    args.ParentID,
	}, newSubTask)
}

type createIssueProjectArgs struct {
	ProjectID   graphql.NullString
	Name        graphql.NullString
	Description graphql.NullString
	Status      graphql.NullString
	Priority    graphql.NullString
}

// CreateIssueProject raises an issue against a project
func (r *Resolver) CreateIssueProject(ctx context.Context, args createIssueProjectArgs) (*IssueProject, error) {
	return resolveObject(ctx, r, "createIssueProject", arguments{
		"projectID":   args.ProjectID,
		"name":        args.Name,
		"description": args.Description,
		"status":      args.Status,
		"priority":    args.Priority,
	}, newIssueProject)
}

type createIssueTaskArgs struct {
	ProjectID     graphql.NullString
	Name          graphql.NullString
	Description   graphql.NullString
	Status        graphql.NullString
	Priority      graphql.NullString
	OpTaskType    graphql.NullString
	AssignedToID  graphql.NullString
	SourceObjID   graphql.NullString
	SourceObjCode graphql.NullString
}

// CreateIssueTask raises an issue against a task
func (r *Resolver) CreateIssueTask(ctx context.Context, args createIssueTaskArgs) (*IssueTask, error) {
	return resolveObject(ctx, r, "createIssueTask", arguments{
		"projectID":     args.ProjectID,
		"name":          args.Name,
		"description":   args.Description,
		"status":        args.Status,
		"priority":      args.Priority,
		"opTaskType":    args.OpTaskType,
		"assignedToID":  args.AssignedToID,
		"sourceObjID":   args.SourceObjID,
		"sourceObjCode": args.SourceObjCode,
	}, newIssueTask)
}

type assignCategoryToProjectArgs struct {
	ProjectID  graphql.NullString
	CategoryID graphql.NullString
}

// AssignedCategoryToProject assigns a category to a project and echoes the assignment
func (r *Resolver) AssignedCategoryToProject(ctx context.Context,
	args assignCategoryToProjectArgs) (*AssignedCategoryToProject, error) {
	return resolveObject(ctx, r, "AssignedCategoryToProject", arguments{
		"projectID":  args.ProjectID,
		"categoryID": args.CategoryID,
	}, newAssignedCategoryToProject)
}

type assignCategoryToTaskArgs struct {
	TaskID     graphql.NullString
	CategoryID graphql.NullString
}

// AssignedCategoryToTask assigns a category to a task and echoes the assignment
func (r *Resolver) AssignedCategoryToTask(ctx context.Context,
	args assignCategoryToTaskArgs) (*AssignedCategoryToTask, error) {
	return resolveObject(ctx, r, "AssignedCategoryToTask", arguments{
		"taskID":     args.TaskID,
		"categoryID": args.CategoryID,
	}, newAssignedCategoryToTask)
}

type createNoteArgs struct {
	NoteText    graphql.NullString
	ObjID       graphql.NullString
	NoteObjCode graphql.NullString
}

// CreateNote attaches a note to an object and echoes it
func (r *Resolver) CreateNote(ctx context.Context, args createNoteArgs) (*Note, error) {
	return resolveObject(ctx, r, "createNote", arguments{
		"noteText":    args.NoteText,
		"objID":       args.ObjID,
		"noteObjCode": args.NoteObjCode,
	}, newNote)
}

// arguments maps GraphQL argument names to their values. A NullString that
// is not Set was omitted by the caller.
type arguments map[string]graphql.NullString

// bind resolves the values a route forwards. Set arguments are used as
// given, explicit nulls included. Unset arguments take the route default
// when there is one and are left out otherwise.
func bind(route gateway.RouteMapping, args arguments) map[string]*string {
	values := make(map[string]*string, len(args))
	for _, name := range route.Arguments() {
		if arg, ok := args[name]; ok && arg.Set {
			values[name] = arg.Value
			continue
		}
		if def, ok := route.Defaults[name]; ok {
			values[name] = def
		}
	}
	return values
}

// newRequest builds the upstream request for a route. GET parameters with a
// null value are dropped; body members keep explicit nulls.
func newRequest(route gateway.RouteMapping, values map[string]*string) upstream.Request {
	req := upstream.Request{
		Operation:   route.Field,
		Method:      route.Method,
		Path:        route.ExpandPath(values),
		DiscardBody: route.Result == gateway.ResultEcho,
	}

	query := url.Values{}
	for name, value := range route.Fixed {
		query.Set(name, value)
	}

	if route.Method == http.MethodGet {
		for _, name := range route.Params {
			if v := values[name]; v != nil {
				query.Set(name, *v)
			}
		}
		req.Query = query
		return req
	}

	body := make(map[string]any, len(route.Params))
	for _, name := range route.Params {
		v, ok := values[name]
		switch {
		case !ok:
		case v == nil:
			body[name] = nil
		default:
			body[name] = *v
		}
	}
	req.Query = query
	req.Body = body
	return req
}

// call performs the upstream request, through the metrics recorder when set
func (r *Resolver) call(ctx context.Context, route gateway.RouteMapping,
	values map[string]*string) (upstream.Envelope, error) {
	req := newRequest(route, values)

	var env upstream.Envelope
	fn := func() error {
		var err error
		env, err = r.upstream.Do(ctx, req)
		return err
	}

	var err error
	if r.recorder != nil {
		err = r.recorder.RecordMetrics(ctx, route.Field, fn)
	} else {
		err = fn()
	}
	return env, err
}

// decodePayload decodes the data member. An envelope without one decodes to nil.
func decodePayload(env upstream.Envelope) (any, error) {
	if !env.HasData() {
		return nil, nil
	}
	var payload any
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, errors.WrapInvalid(err, "Resolver", "decodePayload", "decode data member")
	}
	return payload, nil
}

// resolveList runs a list query. Upstream failures resolve to an empty list.
// A non-list payload is replaced by an empty list when the route guard
// allows it; otherwise it is reported as a field error.
func resolveList[T any](ctx context.Context, r *Resolver, field string, args arguments,
	shape func(record) *T) (*[]*T, error) {
	route := r.routes[field]

	env, err := r.call(ctx, route, bind(route, args))
	if err != nil {
		return fallback(ctx, r, route, err, &[]*T{}), nil
	}
	payload, err := decodePayload(env)
	if err != nil {
		return fallback(ctx, r, route, err, &[]*T{}), nil
	}

	if items, ok := payload.([]any); ok {
		return shapeList(items, shape), nil
	}
	if route.Guard == gateway.GuardArray || isFalsy(payload) {
		r.coerced(ctx, route, payload, env.HasData())
		return &[]*T{}, nil
	}
	return nil, &notIterableError{field: "Query." + route.Field}
}

// resolveObject runs a mutation. Upstream failures resolve to null.
func resolveObject[T any](ctx context.Context, r *Resolver, field string, args arguments,
	shape func(record) *T) (*T, error) {
	route := r.routes[field]
	values := bind(route, args)

	env, err := r.call(ctx, route, values)
	if err != nil {
		return fallback[*T](ctx, r, route, err, nil), nil
	}

	if route.Result == gateway.ResultEcho {
		echo := make(record, len(values))
		for name, v := range values {
			if v != nil {
				echo[name] = *v
			}
		}
		return shape(echo), nil
	}

	payload, err := decodePayload(env)
	if err != nil {
		return fallback[*T](ctx, r, route, err, nil), nil
	}
	return shapeValue(payload, shape), nil
}

// coerced records a payload the list guard replaced with an empty list
func (r *Resolver) coerced(ctx context.Context, route gateway.RouteMapping, payload any, present bool) {
	r.logger.Warn("Upstream payload is not a list, returning empty list",
		"operation", route.Field,
		"guard", string(route.Guard),
		"payload_type", jsonType(payload, present),
		"request_id", gateway.RequestID(ctx))
	if r.metrics != nil {
		r.metrics.RecordGuardCoercion(route.Field)
	}
}

func jsonType(v any, present bool) string {
	switch v.(type) {
	case nil:
		if !present {
			return "absent"
		}
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// notIterableError reports a list field whose value is not a list
type notIterableError struct {
	field string
}

func (e *notIterableError) Error() string {
	return fmt.Sprintf("Expected Iterable, but did not find one for field %q.", e.field)
}
