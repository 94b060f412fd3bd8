package console

import "github.com/fincon/fincon/pkg/api"

// Session is the account/user context propagated to every resource view.
// It has a single writer (the account-switch flow); views receive a new
// value atomically through a session-changed message.
type Session struct {
	Account api.Object
	User    api.Object
}

// IsOperations reports whether the active account is an operations
// account. Operations accounts see every resource and the owner pickers.
func (s Session) IsOperations() bool {
	return objField(s.Account, "type") == "operations"
}

// IsAffiliate reports whether the active account is an affiliate account.
func (s Session) IsAffiliate() bool {
	return objField(s.Account, "type") == "affiliate"
}

func (s Session) AccountID() string { return objField(s.Account, "id") }
func (s Session) UserID() string    { return objField(s.User, "id") }

func objField(obj api.Object, key string) string {
	v, _ := obj[key].(string)
	return v
}

// ObjectID returns the stable id of an object, or "" when absent.
func ObjectID(obj api.Object) string { return objField(obj, "id") }
