package graphql

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	pkgerrors "github.com/EstebanAdso/GraphQL-Workfront/errors"
	"github.com/EstebanAdso/GraphQL-Workfront/gateway"
)

func TestSchema_RootFields(t *testing.T) {
	schema, err := loadSchema()
	require.NoError(t, err)

	queries := []string{"getProjects", "getTasksById", "getUserById", "getAllCategories"}
	for _, name := range queries {
		field := schema.Query.Fields.ForName(name)
		require.NotNil(t, field, name)
		assert.Nil(t, field.Type.Elem.Elem, "%s returns a flat list", name)
		assert.False(t, field.Type.NonNull, "%s is nullable", name)
	}

	mutations := map[string]string{
		"createProject":             "Project",
		"createTask":                "Task",
		"createSubTask":             "SubTask",
		"createIssueProject":        "IssueProject",
		"createIssueTask":           "IssueTask",
		"AssignedCategoryToProject": "AssignedCategoryToProject",
		"AssignedCategoryToTask":    "AssignedCategoryToTask",
		"createNote":                "Note",
	}
	for name, typeName := range mutations {
		field := schema.Mutation.Fields.ForName(name)
		require.NotNil(t, field, name)
		assert.Equal(t, typeName, field.Type.NamedType)
		assert.False(t, field.Type.NonNull)
	}
}

func TestSchema_AllObjectFieldsAreNullableStrings(t *testing.T) {
	schema, err := loadSchema()
	require.NoError(t, err)

	for name, def := range schema.Types {
		if def.BuiltIn || def.Kind != ast.Object || name == "Query" || name == "Mutation" {
			continue
		}
		for _, field := range def.Fields {
			if field.Name == "__typename" {
				continue
			}
			assert.Equal(t, "String", field.Type.NamedType, "%s.%s", name, field.Name)
			assert.False(t, field.Type.NonNull, "%s.%s", name, field.Name)
		}
	}
}

func TestSchema_ArgumentDefaults(t *testing.T) {
	schema, err := loadSchema()
	require.NoError(t, err)

	tests := []struct {
		field    string
		arg      string
		kind     ast.ValueKind
		expected string
	}{
		{"createProject", "objCode", ast.StringValue, "PROJ"},
		{"createTask", "objCode", ast.StringValue, "PROJ"},
		{"createTask", "assignedToID", ast.NullValue, ""},
		{"createIssueTask", "opTaskType", ast.StringValue, "ISU"},
		{"createIssueTask", "assignedToID", ast.NullValue, ""},
		{"createIssueTask", "sourceObjCode", ast.StringValue, "TASK"},
		{"createNote", "noteObjCode", ast.StringValue, "TASK"},
	}

	for _, tt := range tests {
		t.Run(tt.field+"."+tt.arg, func(t *testing.T) {
			field := schema.Mutation.Fields.ForName(tt.field)
			require.NotNil(t, field)
			arg := field.Arguments.ForName(tt.arg)
			require.NotNil(t, arg)
			require.NotNil(t, arg.DefaultValue)
			assert.Equal(t, tt.kind, arg.DefaultValue.Kind)
			if tt.kind == ast.StringValue {
				assert.Equal(t, tt.expected, arg.DefaultValue.Raw)
			}
		})
	}
}

func TestCheckRoutes_DefaultConfig(t *testing.T) {
	require.NoError(t, checkRoutes(gateway.DefaultConfig()))
}

func TestCheckRoutes_Mismatches(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(r *gateway.RouteMapping)
	}{
		{"missing default", "createTask", func(r *gateway.RouteMapping) {
			r.Defaults = map[string]*string{"assignedToID": nil}
		}},
		{"wrong default value", "createIssueTask", func(r *gateway.RouteMapping) {
			r.Defaults = map[string]*string{"opTaskType": ptr("BUG"), "assignedToID": nil, "sourceObjCode": ptr("TASK")}
		}},
		{"string default where schema has null", "createTask", func(r *gateway.RouteMapping) {
			r.Defaults = map[string]*string{"objCode": ptr("PROJ"), "assignedToID": ptr("")}
		}},
		{"default without schema default", "createSubTask", func(r *gateway.RouteMapping) {
			r.Defaults = map[string]*string{"status": ptr("NEW")}
		}},
		{"extra argument", "getProjects", func(r *gateway.RouteMapping) {
			r.Params = append(r.Params, "status")
		}},
		{"missing argument", "createNote", func(r *gateway.RouteMapping) {
			r.Params = []string{"noteText", "noteObjCode"}
		}},
		{"wrong kind", "getAllCategories", func(r *gateway.RouteMapping) {
			r.Kind = gateway.KindMutation
			r.Result = gateway.ResultPayload
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes := gateway.DefaultConfig()
			for i := range routes.Routes {
				if routes.Routes[i].Field == tt.field {
					tt.mutate(&routes.Routes[i])
				}
			}

			err := checkRoutes(routes)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsInvalid(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestCheckRoutes_UnknownRoute(t *testing.T) {
	routes := gateway.DefaultConfig()
	routes.Routes = append(routes.Routes, gateway.RouteMapping{
		Field:          "getThings",
		Kind:           gateway.KindQuery,
		Method:         http.MethodGet,
		Path:           "/thing/search",
		Guard:          gateway.GuardArray,
		FailureMessage: "Error Fetching things",
	})

	err := checkRoutes(routes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getThings")
}

func TestNewSchema_BindsResolver(t *testing.T) {
	m := newMockWorkfront(t, reply(http.StatusOK, `{}`))
	r := newTestResolver(t, m)

	schema, err := NewSchema(r, 10, nil)
	require.NoError(t, err)
	assert.NotNil(t, schema)
	assert.Contains(t, SchemaSDL(), "getProjects(ownerID: String): [Project]")
}
