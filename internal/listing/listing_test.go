package listing

import (
	"testing"
	"time"

	"portal/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) entity.Date {
	return entity.NewDate(time.Date(y, m, d, 10, 0, 0, 0, time.UTC))
}

func sampleBookings() []entity.Booking {
	return []entity.Booking{
		{BookingID: 1, ServiceName: "Deep Cleaning", CustomerName: "Ann", Status: entity.BookingPending, BookingDate: date(2026, 3, 1)},
		{BookingID: 2, ServiceName: "Plumbing", CustomerName: "Bob", Status: entity.BookingApproved, BookingDate: date(2026, 3, 5)},
		{BookingID: 3, ServiceName: "Hair Cut", CustomerName: "Cleo", Status: entity.BookingPending, BookingDate: date(2026, 3, 9)},
		{BookingID: 4, ServiceName: "Cleaning", CustomerName: "Dan", Status: entity.BookingRejected},
	}
}

func ids(items []entity.Booking) []int64 {
	out := make([]int64, 0, len(items))
	for _, b := range items {
		out = append(out, b.BookingID)
	}

	return out
}

func TestFilter_Status(t *testing.T) {
	got := Filter(sampleBookings(), Query{Status: "PENDING"})
	assert.Equal(t, []int64{1, 3}, ids(got))

	assert.Len(t, Filter(sampleBookings(), Query{Status: StatusAll}), 4)
	assert.Len(t, Filter(sampleBookings(), Query{}), 4)
}

func TestFilter_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	assert.Equal(t, []int64{1, 4}, ids(Filter(sampleBookings(), Query{Search: "clean"})))
	assert.Equal(t, []int64{2}, ids(Filter(sampleBookings(), Query{Search: "bob"})))
	assert.Equal(t, []int64{3}, ids(Filter(sampleBookings(), Query{Search: "3"})))
}

func TestFilter_DateRangeInclusive(t *testing.T) {
	q := Query{
		From: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, []int64{2, 3}, ids(Filter(sampleBookings(), q)))
}

func TestFilter_Combined(t *testing.T) {
	q := Query{Status: "pending", Search: "hair"}
	assert.Equal(t, []int64{3}, ids(Filter(sampleBookings(), q)))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, p.Items)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 3, p.TotalPages)

	last := Paginate(items, 9, 2)
	assert.Equal(t, 3, last.Page)
	assert.Equal(t, []int{5}, last.Items)

	empty := Paginate([]int{}, 3, 10)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestQuery_Normalize(t *testing.T) {
	q := Query{Page: -1, PageSize: 1000, Search: "  x "}.Normalize(10, 100)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 100, q.PageSize)
	assert.Equal(t, "x", q.Search)

	assert.Equal(t, 10, Query{}.Normalize(10, 100).PageSize)
}

func TestApply(t *testing.T) {
	p := Apply(sampleBookings(), Query{Status: "pending", Page: 2, PageSize: 1})
	assert.Equal(t, []int64{3}, ids(p.Items))
	assert.Equal(t, 2, p.Total)
}
