package resources

import (
	"context"
	"errors"

	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/console"
)

// organizationAdminFields are only collected when creating an
// organization; on edit they are hidden and stripped from the payload.
var organizationAdminFields = []string{"currency", "billing_currency", "admin_name", "admin_email"}

// Organizations describes the organizations resource. Creation first
// resolves or provisions the admin employee, then creates the
// organization bound to it.
func Organizations(client api.Client) *console.ResourceDescriptor {
	return &console.ResourceDescriptor{
		Collection:     "organizations",
		Singular:       "Organization",
		Plural:         "Organizations",
		SupportsFilter: true,
		Columns: append([]console.ColumnDescriptor{
			{Title: "ID", FieldPath: "id"},
			{Title: "Name", FieldPath: "name"},
			{Title: "Currency", FieldPath: "currency", Formatter: formatCurrency},
			{Title: "Billing Currency", FieldPath: "billing_currency", Formatter: formatCurrency},
			{Title: "Operations ID", FieldPath: "operations_external_id"},
			{Title: "Linked Organization ID", FieldPath: "linked_organization_id"},
			{Title: "Status", FieldPath: "status", Formatter: formatStatus},
		}, auditColumns()...),
		Fields: []console.FieldDescriptor{
			{ID: "name", Label: "Name", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "operations_external_id", Label: "Operations Additional ID", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "currency", Label: "Currency", Widget: console.WidgetSelect,
				Options: CurrencyOptions()},
			{ID: "billing_currency", Label: "Billing Currency", Widget: console.WidgetSelect,
				Options: CurrencyOptions()},
			{ID: "admin_name", Label: "Admin Name", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "admin_email", Label: "Admin Email", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
		},
		PrepareEditForm: func(ctx context.Context, client api.Client, _ console.Session, selected api.Object) (api.Object, *console.FormSetup, error) {
			obj, err := client.Get(ctx, "organizations", console.ObjectID(selected))
			if err != nil {
				return nil, nil, err
			}
			hidden := map[string]bool{}
			for _, id := range organizationAdminFields {
				hidden[id] = true
			}
			return obj, &console.FormSetup{Hidden: hidden}, nil
		},
		PrepareUpdatePayload: func(values map[string]string) api.Object {
			payload := api.Object{}
			for id, v := range values {
				payload[id] = v
			}
			for _, id := range organizationAdminFields {
				delete(payload, id)
			}
			return payload
		},
		Create:       createOrganization,
		Actions:      disableDeleteActions,
		DetailPanels: organizationDetailPanels(client),
		Enabled:      func(sess console.Session) bool { return sess.IsOperations() },
	}
}

// createOrganization resolves the admin employee by email, provisions one
// when missing, then creates the organization owned by that employee.
func createOrganization(ctx context.Context, client api.Client, payload api.Object) (api.Object, error) {
	adminName, _ := payload["admin_name"].(string)
	adminEmail, _ := payload["admin_email"].(string)
	delete(payload, "admin_name")
	delete(payload, "admin_email")

	employee, err := client.GetEmployee(ctx, adminEmail)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return nil, err
	}
	if employee == nil {
		employee, err = client.CreateEmployee(ctx, api.Object{
			"email":        adminEmail,
			"display_name": adminName,
		})
		if err != nil {
			return nil, err
		}
	}

	payload["user_id"] = console.ObjectID(employee)
	return client.Create(ctx, "organizations", payload)
}

func organizationDetailPanels(client api.Client) func(api.Object, console.Session) []console.DetailPanel {
	return func(obj api.Object, _ console.Session) []console.DetailPanel {
		id := console.ObjectID(obj)
		return []console.DetailPanel{
			{
				Title: "Datasources",
				Columns: []console.ColumnDescriptor{
					{Title: "ID", FieldPath: "id"},
					{Title: "Name", FieldPath: "name"},
					{Title: "Resources Charged (this month)", FieldPath: "resources_charged_this_month"},
					{Title: "Expenses to date (this month)", FieldPath: "expenses_so_far_this_month"},
					{Title: "Expenses forecast (this month)", FieldPath: "expenses_forecast_this_month"},
					{Title: "Parent datasource ID", FieldPath: "parent_id"},
				},
				Datasource: subCollection(client, "organizations/"+id+"/datasources", false),
			},
			{
				Title: "Users",
				Columns: []console.ColumnDescriptor{
					{Title: "ID", FieldPath: "id"},
					{Title: "Name", FieldPath: "display_name"},
					{Title: "Email", FieldPath: "email"},
					{Title: "Created At", FieldPath: "created_at", Formatter: formatTimestamp},
					{Title: "Last login", FieldPath: "last_login", Formatter: formatTimestamp},
				},
				Datasource: subCollection(client, "organizations/"+id+"/employees", false),
			},
		}
	}
}

// disableDeleteActions is the default action set with delete permanently
// disabled.
func disableDeleteActions(obj api.Object, sess console.Session) []console.Action {
	actions := console.DefaultActions(obj, sess)
	for i := range actions {
		if actions[i].ID == console.ActionDelete {
			actions[i].Disabled = true
		}
	}
	return actions
}
