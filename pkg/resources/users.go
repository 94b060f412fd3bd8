package resources

import (
	"context"
	"fmt"

	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/console"
)

// Users describes the users resource. Creating a user sends an
// invitation; the returned token is surfaced in a persistent
// notification so it can be copied before it scrolls away.
func Users(client api.Client) *console.ResourceDescriptor {
	return &console.ResourceDescriptor{
		Collection:     "users",
		Singular:       "User",
		Plural:         "Users",
		SupportsFilter: true,
		Columns: append([]console.ColumnDescriptor{
			{Title: "ID", FieldPath: "id"},
			{Title: "Name", FieldPath: "name"},
			{Title: "Email", FieldPath: "email"},
			{Title: "Status", FieldPath: "status", Formatter: formatStatus},
		}, auditColumns()...),
		Fields: []console.FieldDescriptor{
			{ID: "name", Label: "Name", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "email", Label: "Email", Widget: console.WidgetText,
				Validators: []console.Validator{console.MinLength(1)}},
			{ID: "account", Label: "Account", Widget: console.WidgetSelect},
		},
		PrepareAddForm: func(ctx context.Context, client api.Client, sess console.Session) (*console.FormSetup, error) {
			if !sess.IsOperations() {
				return &console.FormSetup{Hidden: map[string]bool{"account": true}}, nil
			}
			options, err := accountOptions(ctx, client, activeAccountsQuery)
			if err != nil {
				return nil, err
			}
			return &console.FormSetup{
				Options: map[string][]console.SelectOption{"account": options},
			}, nil
		},
		PrepareCreatePayload: userCreatePayload,
		CreatedNotice:        userInvitedNotice,
		Actions:              userActions,
		DetailPanels:         userDetailPanels(client),
	}
}

// userCreatePayload nests the flat account id under account.id.
func userCreatePayload(values map[string]string) api.Object {
	payload := api.Object{}
	for id, v := range values {
		payload[id] = v
	}
	account, _ := payload["account"].(string)
	delete(payload, "account")
	if account != "" {
		payload["account"] = api.Object{"id": account}
	}
	return payload
}

// userInvitedNotice carries the invitation token. Timeout 0 keeps the
// notification up until dismissed.
func userInvitedNotice(obj api.Object) console.Notice {
	accountUser, _ := obj["account_user"].(map[string]any)
	var account any
	var token string
	if accountUser != nil {
		account = accountUser["account"]
		token, _ = accountUser["invitation_token"].(string)
	}
	return console.Notice{
		Title: "Success",
		Message: fmt.Sprintf("User %s has been invited to %s.\n\nInvitation token:\n%s",
			console.FormatObjectLabel(obj), formatObjectLabel(account), token),
		Severity: console.SeveritySuccess,
	}
}

func userActions(obj api.Object, sess console.Session) []console.Action {
	actions := console.DefaultActions(obj, sess)
	for i := range actions {
		if actions[i].ID == console.ActionEdit {
			actions[i].Disabled = true
		}
	}
	status, _ := obj["status"].(string)
	actions = append(actions,
		console.Action{
			ID:       "enable",
			Label:    "Enable",
			Disabled: status != "disabled",
			Invoke:   setUserState("enable", "enabled"),
		},
		console.Action{
			ID:       "disable",
			Label:    "Disable",
			Disabled: status != "active",
			Invoke:   setUserState("disable", "disabled"),
		},
	)
	return actions
}

func setUserState(action, pastTense string) console.ActionHandler {
	return func(ctx context.Context, client api.Client, obj api.Object, _ map[string]string) (string, error) {
		if _, err := client.ExecuteAction(ctx, "users", "POST", console.ObjectID(obj), action, nil); err != nil {
			return "", err
		}
		return fmt.Sprintf("User %s has been %s.", console.FormatObjectLabel(obj), pastTense), nil
	}
}

// userDetailPanels lists the accounts a user belongs to, with membership
// actions on each row.
func userDetailPanels(client api.Client) func(api.Object, console.Session) []console.DetailPanel {
	return func(obj api.Object, sess console.Session) []console.DetailPanel {
		if sess.IsAffiliate() {
			return nil
		}
		userID := console.ObjectID(obj)
		return []console.DetailPanel{
			{
				Title: "Accounts",
				Columns: []console.ColumnDescriptor{
					{Title: "ID", FieldPath: "id"},
					{Title: "Name", FieldPath: "name"},
					{Title: "Type", FieldPath: "type"},
					{Title: "Status", FieldPath: "account_user.status", Formatter: formatStatus},
					{Title: "Invited", FieldPath: "account_user.created_at", Formatter: formatTimestamp},
					{Title: "Joined", FieldPath: "account_user.joined_at", Formatter: formatTimestamp},
				},
				Paginated:  true,
				Datasource: subCollection(client, "users/"+userID+"/accounts", true),
				Actions:    userAccountActions(userID, sess),
			},
		}
	}
}

// userAccountActions builds the membership actions of one account row.
// Accepting an invitation is only offered to the invited user themselves.
func userAccountActions(userID string, sess console.Session) func(api.Object, console.Session) []console.Action {
	return func(account api.Object, _ console.Session) []console.Action {
		actions := []console.Action{
			{
				ID:    "remove",
				Label: "Remove",
				Confirm: &console.ConfirmSpec{
					Title: "Confirm removal",
					Message: fmt.Sprintf("Remove the user from account %s?",
						console.FormatObjectLabel(account)),
					ButtonLabel: "Remove",
				},
				Invoke: removeUserFromAccount(userID),
			},
		}
		accountUser, _ := account["account_user"].(map[string]any)
		status, _ := accountUser["status"].(string)
		if status == "invited" {
			actions = append(actions, console.Action{
				ID:       "accept_invitation",
				Label:    "Accept invitation",
				Disabled: !invitationAcceptableBy(accountUser, sess),
				Form: &console.ActionFormSpec{
					Title:     "Accept invitation",
					SaveLabel: "Accept",
					Fields: []console.FieldDescriptor{
						{ID: "invitation_token", Label: "Invitation token", Widget: console.WidgetText,
							Validators: []console.Validator{console.MinLength(1)}},
					},
				},
				Invoke: acceptInvitation(userID),
			})
		}
		return actions
	}
}

func invitationAcceptableBy(accountUser map[string]any, sess console.Session) bool {
	user, _ := accountUser["user"].(map[string]any)
	if user == nil {
		return false
	}
	id, _ := user["id"].(string)
	return id != "" && id == sess.UserID()
}

func removeUserFromAccount(userID string) console.ActionHandler {
	return func(ctx context.Context, client api.Client, account api.Object, _ map[string]string) (string, error) {
		if err := client.Delete(ctx, "users/"+userID+"/accounts", console.ObjectID(account)); err != nil {
			return "", err
		}
		return "User removed from " + console.FormatObjectLabel(account), nil
	}
}

func acceptInvitation(userID string) console.ActionHandler {
	return func(ctx context.Context, client api.Client, _ api.Object, params map[string]string) (string, error) {
		_, err := client.ExecuteAction(ctx, "users", "POST", userID, "accept-invitation", api.Object{
			"invitation_token": params["invitation_token"],
		})
		if err != nil {
			return "", err
		}
		return "Invitation successfully accepted", nil
	}
}
