package graphql

import (
	"github.com/spf13/cast"
)

// Project is a Workfront project
type Project struct {
	ID                      *string
	Name                    *string
	Description             *string
	ObjCode                 *string
	PercentComplete         *string
	PlannedCompletionDate   *string
	PlannedStartDate        *string
	Priority                *string
	ProjectedCompletionDate *string
	Status                  *string
}

// Task is a Workfront task
type Task struct {
	ProjectID    *string
	Name         *string
	ObjCode      *string
	Status       *string
	AssignedToID *string
	Priority     *string
}

// SubTask is a task created under a parent task
type SubTask struct {
	Name        *string
	Description *string
	Status      *string
	ProjectID   *string
	ParentID    *string
}

// IssueProject is an issue raised against a project
type IssueProject struct {
	ProjectID   *string
	Name        *string
	Description *string
	Status      *string
	Priority    *string
}

// IssueTask is an issue raised against a task
type IssueTask struct {
	ProjectID     *string
	Name          *string
	Description   *string
	Status        *string
	Priority      *string
	OpTaskType    *string
	AssignedToID  *string
	SourceObjID   *string
	SourceObjCode *string
}

// Category is a custom form category
type Category struct {
	ID         *string
	Name       *string
	ObjCode    *string
	CustomerID *string
}

// AssignedCategoryToProject echoes a project category assignment
type AssignedCategoryToProject struct {
	ProjectID  *string
	CategoryID *string
}

// AssignedCategoryToTask echoes a task category assignment
type AssignedCategoryToTask struct {
	TaskID     *string
	CategoryID *string
}

// Note is a comment attached to an object
type Note struct {
	NoteText    *string
	ObjID       *string
	NoteObjCode *string
}

// User is a Workfront user
type User struct {
	ID       *string
	Name     *string
	ObjCode  *string
	Username *string
}

// record is one decoded upstream JSON object
type record map[string]any

// str returns the member as a GraphQL String. Strings pass through, booleans
// and numbers are formatted; null, absent and non-scalar members are nil.
func (r record) str(key string) *string {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	switch v.(type) {
	case map[string]any, []any:
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil
	}
	return &s
}

func newProject(r record) *Project {
	return &Project{
		ID:                      r.str("ID"),
		Name:                    r.str("name"),
		Description:             r.str("description"),
		ObjCode:                 r.str("objCode"),
		PercentComplete:         r.str("percentComplete"),
		PlannedCompletionDate:   r.str("plannedCompletionDate"),
		PlannedStartDate:        r.str("plannedStartDate"),
		Priority:                r.str("priority"),
		ProjectedCompletionDate: r.str("projectedCompletionDate"),
		Status:                  r.str("status"),
	}
}

func newTask(r record) *Task {
	return &Task{
		ProjectID:    r.str("projectID"),
		Name:         r.str("name"),
		ObjCode:      r.str("objCode"),
		Status:       r.str("status"),
		AssignedToID: r.str("assignedToID"),
		Priority:     r.str("priority"),
	}
}

func newSubTask(r record) *SubTask {
	return &SubTask{
		Name:        r.str("name"),
		Description: r.str("description"),
		Status:      r.str("status"),
		ProjectID:   r.str("projectID"),
		ParentID:    r.str("parentID"),
	}
}

func newIssueProject(r record) *IssueProject {
	return &IssueProject{
		ProjectID:   r.str("projectID"),
		Name:        r.str("name"),
		Description: r.str("description"),
		Status:      r.str("status"),
		Priority:    r.str("priority"),
	}
}

func newIssueTask(r record) *IssueTask {
	return &IssueTask{
		ProjectID:     r.str("projectID"),
		Name:          r.str("name"),
		Description:   r.str("description"),
		Status:        r.str("status"),
		Priority:      r.str("priority"),
		OpTaskType:    r.str("opTaskType"),
		AssignedToID:  r.str("assignedToID"),
		SourceObjID:   r.str("sourceObjID"),
		SourceObjCode: r.str("sourceObjCode"),
	}
}

func newCategory(r record) *Category {
	return &Category{
		ID:         r.str("ID"),
		Name:       r.str("name"),
		ObjCode:    r.str("objCode"),
		CustomerID: r.str("customerID"),
	}
}

func newAssignedCategoryToProject(r record) *AssignedCategoryToProject {
	return &AssignedCategoryToProject{
		ProjectID:  r.str("projectID"),
		CategoryID: r.str("categoryID"),
	}
}

func newAssignedCategoryToTask(r record) *AssignedCategoryToTask {
	return &AssignedCategoryToTask{
		TaskID:     r.str("taskID"),
		CategoryID: r.str("categoryID"),
	}
}

func newNote(r record) *Note {
	return &Note{
		NoteText:    r.str("noteText"),
		ObjID:       r.str("objID"),
		NoteObjCode: r.str("noteObjCode"),
	}
}

func newUser(r record) *User {
	return &User{
		ID:       r.str("ID"),
		Name:     r.str("name"),
		ObjCode:  r.str("objCode"),
		Username: r.str("username"),
	}
}

// shapeValue converts a decoded JSON value into an object. Objects become
// records, null stays nil and any other value yields a record with every
// field null.
func shapeValue[T any](v any, shape func(record) *T) *T {
	switch item := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return shape(item)
	default:
		return shape(record{})
	}
}

// shapeList converts a list payload element by element
func shapeList[T any](items []any, shape func(record) *T) *[]*T {
	out := make([]*T, len(items))
	for i, item := range items {
		out[i] = shapeValue(item, shape)
	}
	return &out
}

// isFalsy reports whether v is a falsy JSON value: null, false, 0 or ""
func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0
	case string:
		return x == ""
	default:
		return false
	}
}
