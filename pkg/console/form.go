package console

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/fincon/fincon/pkg/api"
)

// FormSaveMsg carries a valid form submission: the collected values of
// every enabled field, plus the edit target (empty for create mode).
type FormSaveMsg struct {
	FormID   string
	ObjectID string
	Values   map[string]string
}

// FormCancelMsg is emitted when the user cancels a form, valid or not.
type FormCancelMsg struct {
	FormID string
}

// FieldChangedMsg is emitted when a select field's value changes. Used to
// drive dependent dropdowns in action forms.
type FieldChangedMsg struct {
	FormID  string
	FieldID string
	Value   string
}

// formInput is one rendered field. Hidden inputs are excluded from
// validation and from the collected values; this is how per-mode field
// hiding works.
type formInput struct {
	desc    FieldDescriptor
	text    textinput.Model
	area    textarea.Model
	options []SelectOption
	optIdx  int // -1 = blank
	hidden  bool
	errMsg  string
}

func (in *formInput) value() string {
	switch in.desc.Widget {
	case WidgetSelect:
		if in.optIdx < 0 || in.optIdx >= len(in.options) {
			return ""
		}
		return in.options[in.optIdx].Value
	case WidgetTextArea:
		return in.area.Value()
	default:
		return in.text.Value()
	}
}

func (in *formInput) setValue(v string) {
	switch in.desc.Widget {
	case WidgetSelect:
		in.optIdx = -1
		for i, opt := range in.options {
			if opt.Value == v {
				in.optIdx = i
				break
			}
		}
	case WidgetTextArea:
		in.area.SetValue(v)
	default:
		in.text.SetValue(v)
	}
}

// Form renders an ordered list of input widgets derived from field
// descriptors and collects a save or cancel intent.
type Form struct {
	ID        string
	title     string
	saveLabel string

	inputs   []formInput
	focus    int // index into focusable slots; len(inputs) = save, +1 = cancel
	objectID string
}

// NewForm builds a form from field descriptors.
func NewForm(fields []FieldDescriptor, saveLabel string) *Form {
	f := &Form{ID: uuid.NewString(), saveLabel: saveLabel}
	for _, desc := range fields {
		in := formInput{desc: desc, options: desc.Options, optIdx: -1}
		switch desc.Widget {
		case WidgetTextArea:
			in.area = textarea.New()
			in.area.SetHeight(3)
			in.area.SetWidth(48)
		case WidgetSelect:
			// nothing to construct
		default:
			in.text = textinput.New()
			in.text.Width = 48
			in.text.CharLimit = 256
			if desc.Widget == WidgetPassword {
				in.text.EchoMode = textinput.EchoPassword
			}
		}
		f.inputs = append(f.inputs, in)
	}
	f.focusFirst()
	return f
}

// SetTitle sets the form heading ("Add Organization", "Edit User: …").
func (f *Form) SetTitle(title string) { f.title = title }

// Title returns the current form heading.
func (f *Form) Title() string { return f.title }

// ObjectID returns the edit target, or "" in create mode.
func (f *Form) ObjectID() string { return f.objectID }

// Apply installs per-mode option sets and field visibility from a
// preparation hook. A nil setup shows every field with its initial options.
func (f *Form) Apply(setup *FormSetup) {
	for i := range f.inputs {
		in := &f.inputs[i]
		in.hidden = false
		in.options = in.desc.Options
		if setup == nil {
			continue
		}
		if opts, ok := setup.Options[in.desc.ID]; ok {
			in.options = opts
			in.optIdx = -1
		}
		in.hidden = setup.Hidden[in.desc.ID]
	}
	f.focusFirst()
}

// SetOptions replaces one select field's options (dependent dropdowns).
func (f *Form) SetOptions(fieldID string, opts []SelectOption) {
	for i := range f.inputs {
		if f.inputs[i].desc.ID == fieldID {
			f.inputs[i].options = opts
			f.inputs[i].optIdx = -1
			return
		}
	}
}

// Load populates every enabled input from data keyed by field id (missing
// keys populate empty) and remembers objectID as the edit target.
func (f *Form) Load(objectID string, data api.Object) {
	f.objectID = objectID
	for i := range f.inputs {
		in := &f.inputs[i]
		if in.hidden {
			continue
		}
		v, _ := data[in.desc.ID].(string)
		in.setValue(v)
		in.errMsg = ""
	}
}

// Reset clears the edit target and every input value.
func (f *Form) Reset() {
	f.objectID = ""
	for i := range f.inputs {
		in := &f.inputs[i]
		in.setValue("")
		in.optIdx = -1
		in.errMsg = ""
	}
	f.focusFirst()
}

// Values collects {fieldID: value} for every enabled field. Hidden fields
// are excluded, which is how per-mode payload shaping starts.
func (f *Form) Values() map[string]string {
	values := map[string]string{}
	for i := range f.inputs {
		if f.inputs[i].hidden {
			continue
		}
		values[f.inputs[i].desc.ID] = f.inputs[i].value()
	}
	return values
}

// Validate runs every enabled input's validators, attaching failure
// messages to their fields. All failures surface together. Returns true
// when the form is valid.
func (f *Form) Validate() bool {
	valid := true
	for i := range f.inputs {
		in := &f.inputs[i]
		in.errMsg = ""
		if in.hidden {
			continue
		}
		for _, validate := range in.desc.Validators {
			if err := validate(in.value()); err != nil {
				in.errMsg = err.Error()
				valid = false
				break
			}
		}
	}
	return valid
}

// Save emits a save intent if the form validates; otherwise the failure
// messages stay attached to their fields and nothing is emitted. Entered
// values are never cleared by a failed save.
func (f *Form) Save() tea.Cmd {
	if !f.Validate() {
		return nil
	}
	msg := FormSaveMsg{FormID: f.ID, ObjectID: f.objectID, Values: f.Values()}
	return func() tea.Msg { return msg }
}

// Cancel emits a cancel intent regardless of validity.
func (f *Form) Cancel() tea.Cmd {
	id := f.ID
	return func() tea.Msg { return FormCancelMsg{FormID: id} }
}

// Update handles form navigation and editing keys.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "esc":
		return f.Cancel()
	case "ctrl+s":
		return f.Save()
	case "tab", "down":
		return f.moveFocus(1)
	case "shift+tab", "up":
		return f.moveFocus(-1)
	case "enter":
		switch f.focus {
		case f.saveSlot():
			return f.Save()
		case f.cancelSlot():
			return f.Cancel()
		}
		if in := f.focused(); in != nil && in.desc.Widget == WidgetTextArea {
			break // newline inside the textarea
		}
		return f.moveFocus(1)
	case "left", "right":
		if in := f.focused(); in != nil && in.desc.Widget == WidgetSelect {
			return f.cycleOption(in, key.String() == "right")
		}
	}

	if in := f.focused(); in != nil {
		var cmd tea.Cmd
		switch in.desc.Widget {
		case WidgetTextArea:
			in.area, cmd = in.area.Update(msg)
		case WidgetSelect:
			// selects only react to left/right
		default:
			in.text, cmd = in.text.Update(msg)
		}
		return cmd
	}
	return nil
}

func (f *Form) cycleOption(in *formInput, forward bool) tea.Cmd {
	if len(in.options) == 0 {
		return nil
	}
	if forward {
		in.optIdx = (in.optIdx + 1) % len(in.options)
	} else {
		in.optIdx--
		if in.optIdx < 0 {
			in.optIdx = len(in.options) - 1
		}
	}
	msg := FieldChangedMsg{FormID: f.ID, FieldID: in.desc.ID, Value: in.value()}
	return func() tea.Msg { return msg }
}

func (f *Form) saveSlot() int   { return len(f.inputs) }
func (f *Form) cancelSlot() int { return len(f.inputs) + 1 }

func (f *Form) focused() *formInput {
	if f.focus < 0 || f.focus >= len(f.inputs) {
		return nil
	}
	return &f.inputs[f.focus]
}

func (f *Form) focusFirst() {
	f.focus = -1
	f.advanceFocus(1)
	f.syncFocusStyles()
}

func (f *Form) moveFocus(delta int) tea.Cmd {
	f.advanceFocus(delta)
	return f.syncFocusStyles()
}

// advanceFocus moves over visible inputs plus the save/cancel slots,
// wrapping around and skipping hidden fields.
func (f *Form) advanceFocus(delta int) {
	total := len(f.inputs) + 2
	for i := 0; i < total; i++ {
		f.focus = (f.focus + delta + total) % total
		if f.focus >= len(f.inputs) {
			return // save or cancel slot
		}
		if !f.inputs[f.focus].hidden {
			return
		}
	}
}

func (f *Form) syncFocusStyles() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		in := &f.inputs[i]
		switch in.desc.Widget {
		case WidgetTextArea:
			if i == f.focus {
				cmd = in.area.Focus()
			} else {
				in.area.Blur()
			}
		case WidgetSelect:
			// focus shown by render styling only
		default:
			if i == f.focus {
				cmd = in.text.Focus()
			} else {
				in.text.Blur()
			}
		}
	}
	return cmd
}
