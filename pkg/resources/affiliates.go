package resources

import (
	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/console"
)

// Affiliates describes the affiliate accounts resource. Available to
// operations accounts only; deletion is never offered.
func Affiliates() *console.ResourceDescriptor {
	return &console.ResourceDescriptor{
		Collection:     "accounts",
		Singular:       "Affiliate",
		Plural:         "Affiliates",
		SupportsFilter: true,
		Columns: append([]console.ColumnDescriptor{
			{Title: "ID", FieldPath: "id"},
			{Title: "Name", FieldPath: "name"},
			{Title: "Additional ID", FieldPath: "external_id"},
			{Title: "Status", FieldPath: "status", Formatter: formatStatus},
		}, auditColumns()...),
		Fields: []console.FieldDescriptor{
			{ID: "name", Label: "Name", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "external_id", Label: "Operations Additional ID", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
		},
		PrepareCreatePayload: func(values map[string]string) api.Object {
			payload := api.Object{"type": "affiliate"}
			for id, v := range values {
				payload[id] = v
			}
			return payload
		},
		Actions: disableDeleteActions,
		Enabled: func(sess console.Session) bool { return sess.IsOperations() },
	}
}
