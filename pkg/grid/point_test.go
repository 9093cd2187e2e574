package grid

import "testing"

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    Point
		wantErr bool
	}{
		{"6,3", Point{Row: 6, Col: 3}, false},
		{"(6,3)", Point{Row: 6, Col: 3}, false},
		{" 0 , 12 ", Point{Row: 0, Col: 12}, false},
		{"-1,2", Point{Row: -1, Col: 2}, false},
		{"6", Point{}, true},
		{"a,3", Point{}, true},
		{"3,b", Point{}, true},
	}
	for _, tt := range tests {
		got, err := ParsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePoint(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPointStringRoundTrip(t *testing.T) {
	p := Point{Row: 9, Col: 7}
	got, err := ParsePoint(p.String())
	if err != nil || got != p {
		t.Errorf("ParsePoint(%q) = %v, %v, want %v", p.String(), got, err, p)
	}
}

func TestPointLess(t *testing.T) {
	if !(Point{Row: 1, Col: 9}).Less(Point{Row: 2, Col: 0}) {
		t.Error("row should dominate column")
	}
	if !(Point{Row: 2, Col: 0}).Less(Point{Row: 2, Col: 1}) {
		t.Error("column should break row ties")
	}
	if (Point{Row: 2, Col: 1}).Less(Point{Row: 2, Col: 1}) {
		t.Error("Less should be strict")
	}
}
