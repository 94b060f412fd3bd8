// Package apitest provides configurable test doubles for the api package.
package apitest

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/fincon/fincon/pkg/api"
)

// StubClient is a configurable test double for api.Client. Every method
// checks for a non-nil function field first, then falls back to an empty
// successful result.
type StubClient struct {
	ListFunc           func(ctx context.Context, collection string, limit, offset int, filter string) (api.Page, error)
	ListUnpagedFunc    func(ctx context.Context, path string) (api.Page, error)
	GetFunc            func(ctx context.Context, collection, id string) (api.Object, error)
	CreateFunc         func(ctx context.Context, collection string, payload api.Object) (api.Object, error)
	UpdateFunc         func(ctx context.Context, collection, id string, payload api.Object) (api.Object, error)
	DeleteFunc         func(ctx context.Context, collection, id string) error
	ExecuteActionFunc  func(ctx context.Context, collection, method, id, action string, payload api.Object) (api.Object, error)
	GetAllPagedFunc    func(ctx context.Context, collection, filter string) ([]api.Object, error)
	GetEmployeeFunc    func(ctx context.Context, email string) (api.Object, error)
	CreateEmployeeFunc func(ctx context.Context, payload api.Object) (api.Object, error)

	ListCalls, GetCalls, CreateCalls, UpdateCalls, DeleteCalls, ActionCalls atomic.Int32
}

var _ api.Client = (*StubClient)(nil)

func (s *StubClient) List(ctx context.Context, collection string, limit, offset int, filter string) (api.Page, error) {
	s.ListCalls.Add(1)
	if s.ListFunc != nil {
		return s.ListFunc(ctx, collection, limit, offset, filter)
	}
	return api.Page{Limit: limit, Offset: offset}, nil
}

func (s *StubClient) ListUnpaged(ctx context.Context, path string) (api.Page, error) {
	if s.ListUnpagedFunc != nil {
		return s.ListUnpagedFunc(ctx, path)
	}
	return api.Page{}, nil
}

func (s *StubClient) Get(ctx context.Context, collection, id string) (api.Object, error) {
	s.GetCalls.Add(1)
	if s.GetFunc != nil {
		return s.GetFunc(ctx, collection, id)
	}
	return api.Object{"id": id}, nil
}

func (s *StubClient) Create(ctx context.Context, collection string, payload api.Object) (api.Object, error) {
	s.CreateCalls.Add(1)
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, collection, payload)
	}
	return payload, nil
}

func (s *StubClient) Update(ctx context.Context, collection, id string, payload api.Object) (api.Object, error) {
	s.UpdateCalls.Add(1)
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, collection, id, payload)
	}
	return payload, nil
}

func (s *StubClient) Delete(ctx context.Context, collection, id string) error {
	s.DeleteCalls.Add(1)
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, collection, id)
	}
	return nil
}

func (s *StubClient) ExecuteAction(ctx context.Context, collection, method, id, action string, payload api.Object) (api.Object, error) {
	s.ActionCalls.Add(1)
	if s.ExecuteActionFunc != nil {
		return s.ExecuteActionFunc(ctx, collection, method, id, action, payload)
	}
	return nil, nil
}

func (s *StubClient) GetAllPaged(ctx context.Context, collection, filter string) ([]api.Object, error) {
	if s.GetAllPagedFunc != nil {
		return s.GetAllPagedFunc(ctx, collection, filter)
	}
	return nil, nil
}

func (s *StubClient) GetEmployee(ctx context.Context, email string) (api.Object, error) {
	if s.GetEmployeeFunc != nil {
		return s.GetEmployeeFunc(ctx, email)
	}
	return nil, api.ErrNotFound
}

func (s *StubClient) CreateEmployee(ctx context.Context, payload api.Object) (api.Object, error) {
	if s.CreateEmployeeFunc != nil {
		return s.CreateEmployeeFunc(ctx, payload)
	}
	return payload, nil
}

// PageOf builds a page out of literal objects with the given total.
func PageOf(total, limit, offset int, items ...api.Object) api.Page {
	return api.Page{Total: total, Limit: limit, Offset: offset, Items: items}
}

// Objects builds n sequential objects with ids "obj-1".."obj-n".
func Objects(n int) []api.Object {
	items := make([]api.Object, n)
	for i := 0; i < n; i++ {
		items[i] = api.Object{
			"id":     "obj-" + strconv.Itoa(i+1),
			"name":   "Object " + strconv.Itoa(i+1),
			"status": "active",
		}
	}
	return items
}
