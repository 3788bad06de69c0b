package graphql

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/graph-gophers/graphql-go"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/EstebanAdso/GraphQL-Workfront/errors"
	"github.com/EstebanAdso/GraphQL-Workfront/gateway"
)

//go:embed schema.graphql
var schemaSDL string

// SchemaSDL returns the schema served by the gateway
func SchemaSDL() string {
	return schemaSDL
}

// NewSchema parses the schema and binds it to resolver. Object fields
// resolve straight from struct fields.
func NewSchema(resolver *Resolver, maxDepth int, logger *slog.Logger) (*graphql.Schema, error) {
	if logger == nil {
		logger = slog.Default()
	}

	schema, err := graphql.ParseSchema(schemaSDL, resolver,
		graphql.UseFieldResolvers(),
		graphql.MaxDepth(maxDepth),
		graphql.Logger(&panicLogger{logger: logger}),
	)
	if err != nil {
		return nil, errors.WrapFatal(err, "Schema", "NewSchema", "bind resolver to schema")
	}
	return schema, nil
}

// panicLogger reports resolver panics recovered by the execution engine
type panicLogger struct {
	logger *slog.Logger
}

// LogPanic implements the graphql-go logger
func (l *panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.logger.Error("GraphQL resolver panic",
		"panic", fmt.Sprint(value),
		"request_id", gateway.RequestID(ctx))
}

// loadSchema parses the SDL into its AST
func loadSchema() (*ast.Schema, error) {
	schema, gqlErr := gqlparser.LoadSchema(&ast.Source{
		Name:  "schema.graphql",
		Input: schemaSDL,
	})
	if gqlErr != nil {
		return nil, errors.WrapInvalid(gqlErr, "Schema", "gqlparser.LoadSchema",
			"parse GraphQL schema")
	}
	return schema, nil
}

// checkRoutes verifies that routes and the schema describe the same root
// fields: one route per field with the right kind, the same argument names
// and the same argument defaults.
func checkRoutes(routes gateway.Config) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	fields := make(map[string]gateway.OperationKind)
	for kind, def := range map[gateway.OperationKind]*ast.Definition{
		gateway.KindQuery:    schema.Query,
		gateway.KindMutation: schema.Mutation,
	} {
		if def == nil {
			continue
		}
		for _, field := range def.Fields {
			if strings.HasPrefix(field.Name, "__") {
				continue
			}
			fields[field.Name] = kind

			route, ok := routes.Lookup(field.Name)
			if !ok {
				return errors.WrapInvalid(
					fmt.Errorf("no route for %s field %s", kind, field.Name),
					"Schema", "checkRoutes", "route lookup")
			}
			if err := checkField(route, kind, field); err != nil {
				return err
			}
		}
	}

	for _, route := range routes.Routes {
		if _, ok := fields[route.Field]; !ok {
			return errors.WrapInvalid(
				fmt.Errorf("route %s has no schema field", route.Field),
				"Schema", "checkRoutes", "route lookup")
		}
	}
	return nil
}

func checkField(route gateway.RouteMapping, kind gateway.OperationKind, field *ast.FieldDefinition) error {
	if route.Kind != kind {
		return errors.WrapInvalid(
			fmt.Errorf("route %s is a %s, schema declares a %s", route.Field, route.Kind, kind),
			"Schema", "checkField", "kind check")
	}

	declared := make([]string, 0, len(field.Arguments))
	for _, arg := range field.Arguments {
		declared = append(declared, arg.Name)
	}
	routed := route.Arguments()
	sort.Strings(declared)
	sort.Strings(routed)
	if fmt.Sprint(declared) != fmt.Sprint(routed) {
		return errors.WrapInvalid(
			fmt.Errorf("%s: schema arguments %v, route arguments %v", route.Field, declared, routed),
			"Schema", "checkField", "argument check")
	}

	for _, arg := range field.Arguments {
		def, hasDefault := route.Defaults[arg.Name]
		if arg.DefaultValue == nil {
			if hasDefault {
				return errors.WrapInvalid(
					fmt.Errorf("%s.%s: route default without schema default", route.Field, arg.Name),
					"Schema", "checkField", "default check")
			}
			continue
		}
		if !hasDefault || !sameDefault(arg.DefaultValue, def) {
			return errors.WrapInvalid(
				fmt.Errorf("%s.%s: route default does not match schema default %s",
					route.Field, arg.Name, arg.DefaultValue.String()),
				"Schema", "checkField", "default check")
		}
	}
	return nil
}

func sameDefault(value *ast.Value, def *string) bool {
	switch value.Kind {
	case ast.NullValue:
		return def == nil
	case ast.StringValue:
		return def != nil && *def == value.Raw
	default:
		return false
	}
}
