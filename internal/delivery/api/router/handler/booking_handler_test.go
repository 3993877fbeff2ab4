package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"portal/internal/delivery/api/response"
	"portal/internal/domain/entity"
	"portal/internal/listing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageBody struct {
	Data listing.Page[entity.Booking] `json:"data"`
}

type supersededBody struct {
	Superseded bool `json:"superseded"`
}

func newBookingEcho(bookings *stubBookings, pager *Pager, session *stubSession) *echo.Echo {
	h := NewBookingHandler(BookingHandlerParams{BookingUC: bookings, Pager: pager, Logger: discardLogger()})

	e := newTestEcho()
	g := e.Group("/api/bookings", withSession(session))
	g.GET("", h.ListBookings)
	g.GET("/:id", h.GetBooking)
	g.POST("/:id/approve", h.ApproveBooking)
	g.POST("/:id/assign", h.AssignVendor)

	return e
}

func TestBookingHandler_ListBookings_ParsesQuery(t *testing.T) {
	var got listing.Query
	bookings := &stubBookings{list: func(_ context.Context, q listing.Query) (listing.Page[entity.Booking], error) {
		got = q

		return listing.Paginate([]entity.Booking{{BookingID: 1}}, q.Page, q.PageSize), nil
	}}
	e := newBookingEcho(bookings, newTestPager(time.Millisecond), authenticatedSession("ann"))

	rec := serve(e, httptest.NewRequest(http.MethodGet,
		"/api/bookings?status=pending&from=2026-03-01&to=2026-03-31&page=0&pageSize=500", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 100, got.PageSize)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), got.From)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), got.To)

	var body pageBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	assert.Empty(t, rec.Header().Get(response.HeaderSuperseded))
}

func TestBookingHandler_ListBookings_InvalidQuery(t *testing.T) {
	bookings := &stubBookings{list: func(context.Context, listing.Query) (listing.Page[entity.Booking], error) {
		t.Fatal("list must not be called")

		return listing.Page[entity.Booking]{}, nil
	}}
	e := newBookingEcho(bookings, newTestPager(time.Millisecond), authenticatedSession("ann"))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/bookings?from=yesterday", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_QUERY")
}

func TestBookingHandler_ListBookings_LatestWins(t *testing.T) {
	started := make(chan struct{})
	var calls atomic.Int32
	bookings := &stubBookings{list: func(ctx context.Context, q listing.Query) (listing.Page[entity.Booking], error) {
		if calls.Add(1) == 1 {
			close(started)
			<-ctx.Done()

			return listing.Page[entity.Booking]{}, ctx.Err()
		}

		return listing.Paginate([]entity.Booking{{BookingID: 2}}, q.Page, q.PageSize), nil
	}}
	e := newBookingEcho(bookings, newTestPager(time.Millisecond), authenticatedSession("ann"))

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = serve(e, httptest.NewRequest(http.MethodGet, "/api/bookings?status=pending", nil))
	}()

	<-started
	second := serve(e, httptest.NewRequest(http.MethodGet, "/api/bookings?status=approved", nil))
	wg.Wait()

	require.Equal(t, http.StatusOK, second.Code)
	var body pageBody
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, int64(2), body.Data.Items[0].BookingID)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "true", first.Header().Get(response.HeaderSuperseded))
	var stale supersededBody
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &stale))
	assert.True(t, stale.Superseded)
}

func TestBookingHandler_ListBookings_DebouncedSearch(t *testing.T) {
	var searches []string
	var mu sync.Mutex
	bookings := &stubBookings{list: func(_ context.Context, q listing.Query) (listing.Page[entity.Booking], error) {
		mu.Lock()
		searches = append(searches, q.Search)
		mu.Unlock()

		return listing.Page[entity.Booking]{Items: []entity.Booking{}, Page: 1, TotalPages: 1}, nil
	}}
	e := newBookingEcho(bookings, newTestPager(200*time.Millisecond), authenticatedSession("ann"))

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = serve(e, httptest.NewRequest(http.MethodGet, "/api/bookings?search=cl", nil))
	}()

	time.Sleep(30 * time.Millisecond)
	second := serve(e, httptest.NewRequest(http.MethodGet, "/api/bookings?search=clean", nil))
	wg.Wait()

	assert.Equal(t, "true", first.Header().Get(response.HeaderSuperseded))
	assert.Empty(t, second.Header().Get(response.HeaderSuperseded))
	assert.Equal(t, []string{"clean"}, searches)
}

func TestBookingHandler_SessionsDoNotSupersedeEachOther(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	bookings := &stubBookings{list: func(ctx context.Context, q listing.Query) (listing.Page[entity.Booking], error) {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
			return listing.Page[entity.Booking]{}, ctx.Err()
		}

		return listing.Paginate([]entity.Booking{}, 1, 10), nil
	}}
	pager := newTestPager(time.Millisecond)
	ann := newBookingEcho(bookings, pager, authenticatedSession("ann"))
	bob := newBookingEcho(bookings, pager, authenticatedSession("bob"))

	var wg sync.WaitGroup
	recs := make([]*httptest.ResponseRecorder, 2)
	for i, e := range []*echo.Echo{ann, bob} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs[i] = serve(e, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))
		}()
	}
	<-started
	<-started
	close(release)
	wg.Wait()

	for _, rec := range recs {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get(response.HeaderSuperseded))
	}
}

func TestBookingHandler_GetBooking_InvalidID(t *testing.T) {
	e := newBookingEcho(&stubBookings{}, newTestPager(time.Millisecond), authenticatedSession("ann"))

	for _, id := range []string{"abc", "0", "-3"} {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/bookings/"+id, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
}

func TestBookingHandler_ApproveBooking(t *testing.T) {
	bookings := &stubBookings{}
	e := newBookingEcho(bookings, newTestPager(time.Millisecond), authenticatedSession("ann"))

	rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/bookings/7/approve", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{7}, bookings.approved)
	assert.Contains(t, rec.Body.String(), "Booking approved")
}

func TestBookingHandler_AssignVendor_Validates(t *testing.T) {
	bookings := &stubBookings{}
	e := newBookingEcho(bookings, newTestPager(time.Millisecond), authenticatedSession("ann"))

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/7/assign", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "vendor_id is required")

	req = httptest.NewRequest(http.MethodPost, "/api/bookings/7/assign", strings.NewReader(`{"vendor_id":3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = serve(e, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), bookings.assigned.VendorID)
}
