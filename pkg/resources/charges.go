package resources

import (
	"github.com/fincon/fincon/pkg/console"
)

// Charges describes the read-only charges file listing.
func Charges() *console.ResourceDescriptor {
	return &console.ResourceDescriptor{
		Collection:     "charges",
		Singular:       "Charges File",
		Plural:         "Charges Files",
		SupportsFilter: true,
		Columns: []console.ColumnDescriptor{
			{Title: "ID", FieldPath: "id"},
			{Title: "Document date", FieldPath: "document_date"},
			{Title: "Currency", FieldPath: "currency"},
			{Title: "Amount", FieldPath: "amount"},
			{Title: "Affiliate", FieldPath: "owner", Formatter: formatObjectLabel},
			{Title: "Status", FieldPath: "status", Formatter: formatStatus},
			{Title: "Created at", FieldPath: "events.created", Formatter: formatAt},
			{Title: "Updated at", FieldPath: "events.updated", Formatter: formatAt},
		},
	}
}
