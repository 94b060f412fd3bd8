package resources

import (
	"context"
	"fmt"

	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/console"
)

// Tokens describes the system tokens resource (backend collection
// "systems"). The JWT secret is only ever returned by the create call,
// so the success notification is persistent.
func Tokens() *console.ResourceDescriptor {
	return &console.ResourceDescriptor{
		Collection:     "systems",
		Singular:       "Token",
		Plural:         "Tokens",
		SupportsFilter: true,
		Columns: append([]console.ColumnDescriptor{
			{Title: "ID", FieldPath: "id"},
			{Title: "Name", FieldPath: "name"},
			{Title: "Account", FieldPath: "owner", Formatter: formatObjectLabel},
			{Title: "Status", FieldPath: "status", Formatter: formatStatus},
		}, auditColumns()...),
		Fields: []console.FieldDescriptor{
			{ID: "name", Label: "Name", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "external_id", Label: "External ID", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "description", Label: "Description", Widget: console.WidgetTextArea},
			{ID: "owner", Label: "Account", Widget: console.WidgetSelect},
		},
		PrepareAddForm: func(ctx context.Context, client api.Client, sess console.Session) (*console.FormSetup, error) {
			if !sess.IsOperations() {
				return &console.FormSetup{Hidden: map[string]bool{"owner": true}}, nil
			}
			options, err := accountOptions(ctx, client, activeAccountsQuery)
			if err != nil {
				return nil, err
			}
			return &console.FormSetup{
				Options: map[string][]console.SelectOption{"owner": options},
			}, nil
		},
		PrepareCreatePayload: tokenCreatePayload,
		CreatedNotice:        tokenCreatedNotice,
		Actions:              tokenActions,
	}
}

// tokenCreatePayload nests the flat owner id under owner.id.
func tokenCreatePayload(values map[string]string) api.Object {
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

// tokenCreatedNotice carries the one-time JWT secret. Timeout 0 keeps it
// up until dismissed.
func tokenCreatedNotice(obj api.Object) console.Notice {
	secret, _ := obj["jwt_secret"].(string)
	return console.Notice{
		Title: "Success",
		Message: fmt.Sprintf("Token created successfully: %s\n\nJWT Secret:\n%s",
			console.FormatObjectLabel(obj), secret),
		Severity: console.SeveritySuccess,
	}
}

func tokenActions(obj api.Object, sess console.Session) []console.Action {
	actions := console.DefaultActions(obj, sess)
	status, _ := obj["status"].(string)
	return append(actions,
		console.Action{
			ID:       "enable",
			Label:    "Enable",
			Disabled: status != "disabled",
			Invoke:   setTokenState("enable", "enabled"),
		},
		console.Action{
			ID:       "disable",
			Label:    "Disable",
			Disabled: status != "active",
			Invoke:   setTokenState("disable", "disabled"),
		},
	)
}

func setTokenState(action, pastTense string) console.ActionHandler {
	return func(ctx context.Context, client api.Client, obj api.Object, _ map[string]string) (string, error) {
		if _, err := client.ExecuteAction(ctx, "systems", "POST", console.ObjectID(obj), action, nil); err != nil {
			return "", err
		}
		return fmt.Sprintf("Token %s has been %s.", console.FormatObjectLabel(obj), pastTense), nil
	}
}
