package resources

import (
	"context"
	"fmt"

	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/console"
)

// Entitlements describes the entitlements resource. Entitlements are
// never edited in place; lifecycle moves through redeem and terminate.
func Entitlements() *console.ResourceDescriptor {
	return &console.ResourceDescriptor{
		Collection:     "entitlements",
		Singular:       "Entitlement",
		Plural:         "Entitlements",
		SupportsFilter: true,
		Columns: append([]console.ColumnDescriptor{
			{Title: "ID", FieldPath: "id"},
			{Title: "Name", FieldPath: "name"},
			{Title: "Affiliate", FieldPath: "owner", Formatter: formatObjectLabel},
			{Title: "Datasource", FieldPath: "datasource_id"},
			{Title: "Status", FieldPath: "status", Formatter: formatStatus},
		}, auditColumns()...),
		Fields: []console.FieldDescriptor{
			{ID: "name", Label: "Name", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "affiliate_external_id", Label: "Affiliate Additional ID", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "datasource_id", Label: "Datasource ID", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "owner", Label: "Affiliate", Widget: console.WidgetSelect},
		},
		PrepareAddForm: func(ctx context.Context, client api.Client, sess console.Session) (*console.FormSetup, error) {
			if !sess.IsOperations() {
				return &console.FormSetup{Hidden: map[string]bool{"owner": true}}, nil
			}
			options, err := accountOptions(ctx, client, activeAffiliatesQuery)
			if err != nil {
				return nil, err
			}
			return &console.FormSetup{
				Options: map[string][]console.SelectOption{"owner": options},
			}, nil
		},
		PrepareCreatePayload: entitlementCreatePayload,
		Actions:              entitlementActions,
	}
}

// entitlementCreatePayload nests the flat owner id under owner.id.
func entitlementCreatePayload(values map[string]string) api.Object {
	payload := api.Object{}
	for id, v := range values {
		payload[id] = v
	}
	owner, _ := payload["owner"].(string)
	delete(payload, "owner")
	if owner != "" {
		payload["owner"] = api.Object{"id": owner}
	}
	return payload
}

func entitlementActions(obj api.Object, sess console.Session) []console.Action {
	actions := console.DefaultActions(obj, sess)
	for i := range actions {
		switch actions[i].ID {
		case console.ActionEdit:
			actions[i].Disabled = true
		case console.ActionDelete:
			actions[i].Disabled = !sess.IsOperations()
		}
	}

	status, _ := obj["status"].(string)
	switch {
	case status == "new" && sess.IsOperations():
		actions = append(actions, console.Action{
			ID:     "redeem",
			Label:  "Redeem",
			Form:   redeemForm(console.ObjectID(obj)),
			Invoke: redeemEntitlement,
		})
	case status == "active":
		actions = append(actions, console.Action{
			ID:    "terminate",
			Label: "Terminate",
			Confirm: &console.ConfirmSpec{
				Title: "Confirm termination",
				Message: fmt.Sprintf("Are you sure you want terminate entitlement %s? "+
					"This process cannot be reversed.", console.ObjectID(obj)),
				ButtonLabel: "Terminate",
			},
			Invoke: terminateEntitlement,
		})
	}
	return actions
}

// redeemForm picks the target organization, then one of its datasources
// through a dependent dropdown.
func redeemForm(entitlementID string) *console.ActionFormSpec {
	return &console.ActionFormSpec{
		Title:     "Redeem Entitlement " + entitlementID,
		SaveLabel: "Redeem",
		Fields: []console.FieldDescriptor{
			{ID: "organization", Label: "Organization", Widget: console.WidgetSelect,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "datasource", Label: "Datasource", Widget: console.WidgetSelect,
				Validators: []console.Validator{console.MinLength(1)}},
		},
		Prepare: func(ctx context.Context, client api.Client, _ api.Object) (map[string][]console.SelectOption, error) {
			orgs, err := client.GetAllPaged(ctx, "organizations", activeOrgsQuery)
			if err != nil {
				return nil, err
			}
			return map[string][]console.SelectOption{"organization": objectOptions(orgs)}, nil
		},
		Dependents: map[string]console.DependentLoader{
			"datasource": {
				Parent: "organization",
				Load: func(ctx context.Context, client api.Client, organizationID string) ([]console.SelectOption, error) {
					page, err := client.ListUnpaged(ctx, "organizations/"+organizationID+"/datasources")
					if err != nil {
						return nil, err
					}
					return objectOptions(page.Items), nil
				},
			},
		},
	}
}

// redeemEntitlement posts the redeem action with the nested organization
// and datasource envelope the backend expects. The datasource is
// re-resolved so its name and type travel in the payload.
func redeemEntitlement(ctx context.Context, client api.Client, obj api.Object, params map[string]string) (string, error) {
	organizationID := params["organization"]
	datasourceID := params["datasource"]

	page, err := client.ListUnpaged(ctx, "organizations/"+organizationID+"/datasources")
	if err != nil {
		return "", err
	}
	var datasource api.Object
	for _, ds := range page.Items {
		if console.ObjectID(ds) == datasourceID {
			datasource = ds
			break
		}
	}
	if datasource == nil {
		return "", fmt.Errorf("datasource %s not found in organization %s", datasourceID, organizationID)
	}

	_, err = client.ExecuteAction(ctx, "entitlements", "POST", console.ObjectID(obj), "redeem", api.Object{
		"organization": api.Object{"id": organizationID},
		"datasource": api.Object{
			"id":   datasource["id"],
			"name": datasource["name"],
			"type": datasource["type"],
		},
	})
	if err != nil {
		return "", err
	}
	return "Entitlement successfully redeemed", nil
}

func terminateEntitlement(ctx context.Context, client api.Client, obj api.Object, _ map[string]string) (string, error) {
	_, err := client.ExecuteAction(ctx, "entitlements", "POST", console.ObjectID(obj), "terminate", nil)
	if err != nil {
		return "", err
	}
	return "Entitlement successfully terminated", nil
}
