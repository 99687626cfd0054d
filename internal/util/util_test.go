package util

import (
	"reflect"
	"testing"
)

func TestMoveClampsIndices(t *testing.T) {
	list := []string{"a", "b", "c", "d"}

	cases := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "forward", from: 0, to: 2, want: []string{"b", "c", "a", "d"}},
		{name: "backward", from: 3, to: 1, want: []string{"a", "d", "b", "c"}},
		{name: "past end", from: 1, to: 99, want: []string{"a", "c", "d", "b"}},
		{name: "negative", from: 2, to: -4, want: []string{"c", "a", "b", "d"}},
		{name: "same", from: 1, to: 1, want: []string{"a", "b", "c", "d"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Move(list, tc.from, tc.to)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
		})
	}

	if !reflect.DeepEqual(list, []string{"a", "b", "c", "d"}) {
		t.Fatalf("expected input to be untouched, got %v", list)
	}
}

func TestClampIndex(t *testing.T) {
	cases := []struct{ idx, n, want int }{
		{idx: 2, n: 0, want: 0},
		{idx: -1, n: 3, want: 0},
		{idx: 7, n: 3, want: 2},
		{idx: 1, n: 3, want: 1},
	}
	for _, tc := range cases {
		if got := ClampIndex(tc.idx, tc.n); got != tc.want {
			t.Fatalf("ClampIndex(%d, %d) = %d, want %d", tc.idx, tc.n, got, tc.want)
		}
	}
}
