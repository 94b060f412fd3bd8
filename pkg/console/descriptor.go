package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincon/fincon/pkg/api"
)

// placeholder is rendered for any cell whose field path cannot be resolved.
const placeholder = "-"

// ============================================================================
// Column & field descriptors
// ============================================================================

// ColumnDescriptor describes a single grid column. FieldPath addresses
// nested object fields with dots (e.g. "events.created").
type ColumnDescriptor struct {
	// Title is the column header text.
	Title string

	// FieldPath is the dotted path into the row object.
	FieldPath string

	// Formatter optionally converts the resolved value into display text.
	// It is only called for present, non-empty values.
	Formatter func(value any) string
}

// GetField resolves the column's field path against obj. Missing path
// segments, non-mapping intermediates, and empty values all resolve to the
// placeholder — never an error.
func (c ColumnDescriptor) GetField(obj api.Object) string {
	var value any = obj
	for _, part := range strings.Split(c.FieldPath, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return placeholder
		}
		value = m[part]
	}
	if isEmptyValue(value) {
		return placeholder
	}
	if c.Formatter != nil {
		return c.Formatter(value)
	}
	return FormatValue(value)
}

// FormatValue renders a decoded JSON scalar for display.
func FormatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return v == 0
	case bool:
		return !v
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

// Widget selects the input widget kind for a form field.
type Widget string

const (
	WidgetText     Widget = "text"
	WidgetPassword Widget = "password"
	WidgetSelect   Widget = "select"
	WidgetTextArea Widget = "textarea"
)

// Validator checks a single field value before submission. A non-nil error
// carries the user-facing failure message.
type Validator func(value string) error

// MinLength validates that the trimmed value has at least min characters.
func MinLength(min int) Validator {
	return func(value string) error {
		if len(strings.TrimSpace(value)) < min {
			if min == 1 {
				return fmt.Errorf("must not be empty")
			}
			return fmt.Errorf("must be at least %d characters", min)
		}
		return nil
	}
}

// SelectOption is one choice of a select widget.
type SelectOption struct {
	Label string
	Value string
}

// FieldDescriptor describes one form field. Fields absent from a
// descriptor list are never sent to the backend.
type FieldDescriptor struct {
	ID         string
	Label      string
	Widget     Widget
	Validators []Validator

	// Options are the initial choices for select widgets. Hooks may
	// replace them per mode (see FormSetup).
	Options []SelectOption
}

// ============================================================================
// Actions
// ============================================================================

// ActionHandler performs the remote side of a resource-specific action and
// returns a success message for the notification.
type ActionHandler func(ctx context.Context, client api.Client, obj api.Object, params map[string]string) (string, error)

// ConfirmSpec describes a confirmation dialog shown before a destructive
// action runs.
type ConfirmSpec struct {
	Title       string
	Message     string
	ButtonLabel string
}

// DependentLoader reloads a select field's options whenever another field
// of the same action form changes.
type DependentLoader struct {
	// Parent is the field ID whose value drives the reload.
	Parent string

	Load func(ctx context.Context, client api.Client, parentValue string) ([]SelectOption, error)
}

// ActionFormSpec describes a parameter form presented before an action's
// handler runs (e.g. redeem: pick organization, then a dependent
// datasource).
type ActionFormSpec struct {
	Title     string
	SaveLabel string
	Fields    []FieldDescriptor

	// Prepare loads initial per-field options.
	Prepare func(ctx context.Context, client api.Client, obj api.Object) (map[string][]SelectOption, error)

	// Dependents maps a field ID to its dependent option loader.
	Dependents map[string]DependentLoader
}

// Action is a named operation available on a selected object. An Action
// with no Invoke and a non-engine ID is purely informational. Actions are
// recomputed on every selection change, never cached.
type Action struct {
	ID       string
	Label    string
	Disabled bool

	// Confirm, when set, gates Invoke behind a confirmation dialog.
	Confirm *ConfirmSpec

	// Form, when set, collects parameters before Invoke runs.
	Form *ActionFormSpec

	// Invoke performs the remote operation. nil for the engine-provided
	// edit/details/delete actions.
	Invoke ActionHandler

	// Refresh overrides the runner's post-completion refresh for this
	// action. The engine sets it on delete, which resets pagination
	// instead of reloading a page that may no longer exist.
	Refresh func() tea.Cmd
}

// Engine-provided action IDs. The ResourceView implements these itself.
const (
	ActionEdit    = "edit"
	ActionDetails = "details"
	ActionDelete  = "delete"
)

// ============================================================================
// Notices
// ============================================================================

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a user-facing notification. A zero Timeout means the notice
// stays until manually dismissed.
type Notice struct {
	Title    string
	Message  string
	Severity Severity
	Timeout  time.Duration
}

// DefaultNoticeTimeout is applied by engine helpers for transient notices.
const DefaultNoticeTimeout = 3 * time.Second

// ============================================================================
// Resource descriptor
// ============================================================================

// Datasource fetches one page of rows. Non-paginated grids call it with
// limit 0, offset 0 and an empty filter.
type Datasource func(ctx context.Context, limit, offset int, filter string) (api.Page, error)

// FormSetup is the result of a form-preparation hook: per-field option
// sets and the fields hidden (and therefore excluded from the payload) in
// this mode.
type FormSetup struct {
	Options map[string][]SelectOption
	Hidden  map[string]bool
}

// DetailPanel is a resource-specific extra pane inside the details modal,
// rendered as a nested sub-grid.
type DetailPanel struct {
	Title      string
	Columns    []ColumnDescriptor
	Paginated  bool
	Datasource Datasource

	// Actions optionally resolves sub-grid row actions.
	Actions func(obj api.Object, sess Session) []Action
}

// ResourceDescriptor is the static configuration driving the generic
// engine for one resource. Defined once, never mutated at runtime.
type ResourceDescriptor struct {
	// Collection is the backend collection name.
	Collection string

	// Singular and Plural are the display names.
	Singular string
	Plural   string

	// SupportsFilter enables the filter bar.
	SupportsFilter bool

	Columns []ColumnDescriptor

	// Fields drive both add and edit forms. An empty list makes the
	// resource read-only (no Add button, no edit form).
	Fields []FieldDescriptor

	// Actions resolves the operations available for a selected object
	// under the given session.
	Actions func(obj api.Object, sess Session) []Action

	// PrepareCreatePayload and PrepareUpdatePayload shape the collected
	// form values into the request payload. Pure transforms, no I/O.
	// nil means the identity mapping.
	PrepareCreatePayload func(values map[string]string) api.Object
	PrepareUpdatePayload func(values map[string]string) api.Object

	// PrepareAddForm runs before showing an empty add form, e.g. to
	// populate a dependent dropdown. nil means no setup.
	PrepareAddForm func(ctx context.Context, client api.Client, sess Session) (*FormSetup, error)

	// PrepareEditForm fetches the object to edit and decides per-mode
	// field visibility. nil means fetch-by-id with all fields visible.
	PrepareEditForm func(ctx context.Context, client api.Client, sess Session, selected api.Object) (api.Object, *FormSetup, error)

	// Create overrides the default create call for resources that need
	// extra remote work first. nil means client.Create(Collection, payload).
	Create func(ctx context.Context, client api.Client, payload api.Object) (api.Object, error)

	// CreatedNotice customizes the success notification after a create,
	// e.g. to carry a one-time secret. nil means the standard transient
	// success notice.
	CreatedNotice func(obj api.Object) Notice

	// DetailPanels supplies extra detail-view panes. nil means none.
	DetailPanels func(obj api.Object, sess Session) []DetailPanel

	// Enabled reports whether this resource is available for the session.
	// nil means always enabled.
	Enabled func(sess Session) bool
}

// ReadOnly reports whether the resource has no editable form.
func (d *ResourceDescriptor) ReadOnly() bool { return len(d.Fields) == 0 }

// EnabledFor reports resource availability under sess.
func (d *ResourceDescriptor) EnabledFor(sess Session) bool {
	return d.Enabled == nil || d.Enabled(sess)
}

func (d *ResourceDescriptor) createPayload(values map[string]string) api.Object {
	if d.PrepareCreatePayload != nil {
		return d.PrepareCreatePayload(values)
	}
	return identityPayload(values)
}

func (d *ResourceDescriptor) updatePayload(values map[string]string) api.Object {
	if d.PrepareUpdatePayload != nil {
		return d.PrepareUpdatePayload(values)
	}
	return identityPayload(values)
}

func identityPayload(values map[string]string) api.Object {
	payload := api.Object{}
	for id, v := range values {
		payload[id] = v
	}
	return payload
}
