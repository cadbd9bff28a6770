package charset

import "testing"

func TestNewNormalizesAndMerges(t *testing.T) {
	tests := []struct {
		name   string
		ranges []Range
		want   []Range
	}{
		{
			name:   "already disjoint",
			ranges: []Range{{'a', 'c'}, {'x', 'z'}},
			want:   []Range{{'a', 'c'}, {'x', 'z'}},
		},
		{
			name:   "adjacent merge",
			ranges: []Range{{'a', 'c'}, {'d', 'f'}},
			want:   []Range{{'a', 'f'}},
		},
		{
			name:   "overlapping merge",
			ranges: []Range{{'a', 'f'}, {'c', 'z'}},
			want:   []Range{{'a', 'z'}},
		},
		{
			name:   "out of order",
			ranges: []Range{{'x', 'z'}, {'a', 'c'}},
			want:   []Range{{'a', 'c'}, {'x', 'z'}},
		},
		{
			name:   "duplicate",
			ranges: []Range{{'a', 'c'}, {'a', 'c'}},
			want:   []Range{{'a', 'c'}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := New(tt.ranges, false)
			got := cs.Ranges()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("range %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestContains(t *testing.T) {
	cs := New([]Range{{'a', 'z'}, {'0', '9'}}, false)
	for _, b := range []byte("azm5") {
		if !cs.Contains(b) {
			t.Errorf("expected %q to be a member", b)
		}
	}
	for _, b := range []byte("AZ!@ ") {
		if cs.Contains(b) {
			t.Errorf("expected %q to not be a member", b)
		}
	}
}

func TestContainsInverted(t *testing.T) {
	cs := New([]Range{{'b', 'l'}}, true)
	if cs.Contains('b') || cs.Contains('l') || cs.Contains('h') {
		t.Error("inverted set should reject members of the base ranges")
	}
	if !cs.Contains('a') || !cs.Contains('m') {
		t.Error("inverted set should accept bytes outside the base ranges")
	}
}

func TestIsEmpty(t *testing.T) {
	if !New(nil, false).IsEmpty() {
		t.Error("empty non-inverted set should be empty")
	}
	if New(nil, true).IsEmpty() {
		t.Error("empty inverted set matches everything, should not be empty")
	}
	if !New([]Range{{0, 0xFF}}, true).IsEmpty() {
		t.Error("full range inverted should be empty")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	cs := New([]Range{{'a', 'c'}}, false)
	got := cs.Bytes()
	want := []byte{'a', 'b', 'c'}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestEqual(t *testing.T) {
	a := New([]Range{{'a', 'z'}}, false)
	b := New([]Range{{'a', 'm'}, {'n', 'z'}}, false)
	if !a.Equal(b) {
		t.Error("expected merged equivalent ranges to compare equal")
	}
	c := New([]Range{{'a', 'z'}}, true)
	if a.Equal(c) {
		t.Error("invert flag should affect equality")
	}
}
