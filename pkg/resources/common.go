package resources

import (
	"context"

	"github.com/samber/lo"

	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/console"
)

// Backend query expressions used to populate owner/account dropdowns.
const (
	activeAffiliatesQuery = "and(eq(type,affiliate),eq(status,active))&order_by(name)"
	activeAccountsQuery   = "eq(status,active)&order_by(name)"
	activeOrgsQuery       = "eq(status,active)&order_by(name)"
)

// auditColumns is the created/updated audit trail shared by most grids.
func auditColumns() []console.ColumnDescriptor {
	return []console.ColumnDescriptor{
		{Title: "Created at", FieldPath: "events.created", Formatter: formatAt},
		{Title: "Created by", FieldPath: "events.created", Formatter: formatBy},
		{Title: "Updated at", FieldPath: "events.updated", Formatter: formatAt},
		{Title: "Updated by", FieldPath: "events.updated", Formatter: formatBy},
	}
}

// objectOptions maps fetched objects to "id - name" select options.
func objectOptions(objs []api.Object) []console.SelectOption {
	return lo.Map(objs, func(obj api.Object, _ int) console.SelectOption {
		return console.SelectOption{
			Label: console.FormatObjectLabel(obj),
			Value: console.ObjectID(obj),
		}
	})
}

// accountOptions fetches every account matching query as select options.
func accountOptions(ctx context.Context, client api.Client, query string) ([]console.SelectOption, error) {
	accounts, err := client.GetAllPaged(ctx, "accounts", query)
	if err != nil {
		return nil, err
	}
	return objectOptions(accounts), nil
}

// subCollection adapts a nested backend path into a grid datasource.
func subCollection(client api.Client, path string, paginated bool) console.Datasource {
	return func(ctx context.Context, limit, offset int, _ string) (api.Page, error) {
		if !paginated {
			return client.ListUnpaged(ctx, path)
		}
		return client.List(ctx, path, limit, offset, "")
	}
}

// Descriptors returns the console's resources in navbar order.
func Descriptors(client api.Client) []*console.ResourceDescriptor {
	return []*console.ResourceDescriptor{
		Affiliates(),
		Organizations(client),
		Entitlements(),
		Charges(),
		Users(client),
		Tokens(),
	}
}
