package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincon/fincon/pkg/api"
)

// pagedBackend serves a fixed collection of total objects, honoring
// limit/offset, so GetAllPaged can be exercised end to end.
type pagedBackend struct {
	total    int
	inflight atomic.Int64
	peak     atomic.Int64
	delay    func(offset int) time.Duration
	failAt   int // offset whose page returns a 500; -1 disables
}

func newPagedBackend(total int) *pagedBackend {
	return &pagedBackend{total: total, failAt: -1}
}

func (b *pagedBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	cur := b.inflight.Add(1)
	defer b.inflight.Add(-1)
	for {
		peak := b.peak.Load()
		if cur <= peak || b.peak.CompareAndSwap(peak, cur) {
			break
		}
	}

	if b.delay != nil {
		time.Sleep(b.delay(offset))
	}
	if b.failAt >= 0 && offset == b.failAt {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	items := make([]api.Object, 0, limit)
	for i := offset; i < offset+limit && i < b.total; i++ {
		items = append(items, api.Object{"id": fmt.Sprintf("obj-%04d", i)})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(api.Page{
		Total:  b.total,
		Limit:  limit,
		Offset: offset,
		Items:  items,
	})
}

func TestGetAllPagedReturnsOffsetOrder(t *testing.T) {
	backend := newPagedBackend(250)
	// Earlier pages finish last, so arrival order inverts offset order.
	backend.delay = func(offset int) time.Duration {
		return time.Duration(250-offset) * 40 * time.Microsecond
	}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	items, err := client.GetAllPaged(context.Background(), "accounts", "eq(status,active)")
	require.NoError(t, err)
	require.Len(t, items, 250)
	for i, item := range items {
		assert.Equal(t, fmt.Sprintf("obj-%04d", i), item["id"])
	}
}

func TestGetAllPagedBoundsConcurrency(t *testing.T) {
	backend := newPagedBackend(2000) // 20 pages
	backend.delay = func(offset int) time.Duration { return 5 * time.Millisecond }
	srv := httptest.NewServer(backend)
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	items, err := client.GetAllPaged(context.Background(), "accounts", "")
	require.NoError(t, err)
	assert.Len(t, items, 2000)
	// The probe runs alone; the fan-out may not exceed its cap.
	assert.LessOrEqual(t, backend.peak.Load(), int64(5))
}

func TestGetAllPagedFailurePropagates(t *testing.T) {
	backend := newPagedBackend(300)
	backend.failAt = 100
	srv := httptest.NewServer(backend)
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	items, err := client.GetAllPaged(context.Background(), "accounts", "")
	require.Error(t, err)
	assert.Nil(t, items)
}

func TestGetAllPagedEmptyCollection(t *testing.T) {
	srv := httptest.NewServer(newPagedBackend(0))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	items, err := client.GetAllPaged(context.Background(), "accounts", "")
	require.NoError(t, err)
	assert.Empty(t, items)
}
