package grid

import "testing"

func TestIndexRoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		p := FromIndex(i, 4)
		if p.Index(4) != i {
			t.Fatalf("index %d -> %v -> %d", i, p, p.Index(4))
		}
	}
	if p := FromIndex(5, 3); p != (Pos{1, 2}) {
		t.Fatalf("expected {1 2}, got %v", p)
	}
}

func TestIn(t *testing.T) {
	if !(Pos{0, 0}).In(3, 3) || !(Pos{2, 2}).In(3, 3) {
		t.Fatal("corners should be in range")
	}
	for _, p := range []Pos{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if p.In(3, 3) {
			t.Fatalf("%v should be out of range", p)
		}
	}
}

func TestAdjacent(t *testing.T) {
	if !Adjacent(Pos{1, 1}, Pos{0, 1}) || !Adjacent(Pos{1, 1}, Pos{1, 2}) {
		t.Fatal("expected orthogonal neighbours to be adjacent")
	}
	if Adjacent(Pos{1, 1}, Pos{2, 2}) {
		t.Fatal("diagonal neighbours are not adjacent")
	}
	if Adjacent(Pos{1, 1}, Pos{1, 1}) {
		t.Fatal("a cell is not adjacent to itself")
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		a, b Pos
		want []Pos
		ok   bool
	}{
		{Pos{0, 0}, Pos{0, 3}, []Pos{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, true},
		{Pos{3, 1}, Pos{1, 1}, []Pos{{3, 1}, {2, 1}, {1, 1}}, true},
		{Pos{0, 2}, Pos{2, 0}, []Pos{{0, 2}, {1, 1}, {2, 0}}, true},
		{Pos{1, 1}, Pos{1, 1}, []Pos{{1, 1}}, true},
		{Pos{0, 0}, Pos{1, 2}, nil, false},
	}
	for _, tt := range tests {
		got, ok := Line(tt.a, tt.b)
		if ok != tt.ok {
			t.Fatalf("Line(%v, %v) ok = %v, want %v", tt.a, tt.b, ok, tt.ok)
		}
		if ok && !Equal(got, tt.want) {
			t.Fatalf("Line(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestReverse(t *testing.T) {
	path := []Pos{{0, 0}, {0, 1}, {0, 2}}
	rev := Reverse(path)
	if !Equal(rev, []Pos{{0, 2}, {0, 1}, {0, 0}}) {
		t.Fatalf("unexpected reverse %v", rev)
	}
	if path[0] != (Pos{0, 0}) {
		t.Fatal("Reverse modified its input")
	}
}

func TestDirections(t *testing.T) {
	if len(Orthogonal) != 4 || len(All) != 8 {
		t.Fatalf("unexpected direction counts %d %d", len(Orthogonal), len(All))
	}
	for i, d := range Orthogonal {
		if All[i] != d {
			t.Fatalf("All should start with the axis directions")
		}
	}
}
