package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in         Query
		page, lim  int
		wantOffset int
	}{
		{Query{}, 1, DefaultLimit, 0},
		{Query{Page: 3, Limit: 10}, 3, 10, 20},
		{Query{Page: 2, Limit: 500}, 2, MaxLimit, MaxLimit},
	}
	for _, tc := range cases {
		q := tc.in
		q.Normalize()
		if q.Page != tc.page || q.Limit != tc.lim || q.Offset() != tc.wantOffset {
			t.Errorf("%+v: got %+v offset %d", tc.in, q, q.Offset())
		}
	}
}
