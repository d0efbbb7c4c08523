package data

import "testing"

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name       string
		pageNbr    int
		pageSize   int
		wantLimit  int
		wantOffset int
	}{
		{"first page", 1, 10, 11, 0},
		{"second page", 2, 10, 11, 10},
		{"fifth page of 25", 5, 25, 26, 100},
		{"zero clamps to first", 0, 10, 11, 0},
		{"negative clamps to first", -3, 10, 11, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := PageWindow(tt.pageNbr, tt.pageSize)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Fatalf("expected (%d, %d), got (%d, %d)",
					tt.wantLimit, tt.wantOffset, limit, offset)
			}
		})
	}
}
