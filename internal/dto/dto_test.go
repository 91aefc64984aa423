package dto

import "testing"

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		page       int
		size       int
		total      int64
		totalPages int
		last       bool
	}{
		{"empty collection", 0, 0, 20, 0, 0, true},
		{"single partial page", 3, 0, 20, 3, 1, true},
		{"first of many", 10, 0, 10, 25, 3, false},
		{"middle page", 10, 1, 10, 25, 3, false},
		{"final page", 5, 2, 10, 25, 3, true},
		{"exact multiple", 10, 1, 10, 20, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := make([]int, tt.count)
			p := NewPage(content, tt.page, tt.size, tt.total)

			if p.TotalPages != tt.totalPages {
				t.Errorf("TotalPages = %d, expected %d", p.TotalPages, tt.totalPages)
			}
			if p.Last != tt.last {
				t.Errorf("Last = %v, expected %v", p.Last, tt.last)
			}
			if p.TotalElements != tt.total {
				t.Errorf("TotalElements = %d, expected %d", p.TotalElements, tt.total)
			}
		})
	}
}

func TestNewPage_NilContentBecomesEmpty(t *testing.T) {
	p := NewPage[string](nil, 0, 10, 0)
	if p.Content == nil {
		t.Error("Content should be an empty slice, not nil")
	}
}

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		in       PageRequest
		expected PageRequest
	}{
		{PageRequest{}, PageRequest{Page: 0, Size: DefaultPageSize}},
		{PageRequest{Page: -3, Size: 5}, PageRequest{Page: 0, Size: 5}},
		{PageRequest{Page: 2, Size: 1000}, PageRequest{Page: 2, Size: MaxPageSize}},
	}

	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.expected {
			t.Errorf("Normalize(%+v) = %+v, expected %+v", tt.in, got, tt.expected)
		}
	}
}

func TestUserResponse_FullName(t *testing.T) {
	tests := []struct {
		user     UserResponse
		expected string
	}{
		{UserResponse{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{UserResponse{FirstName: "Ada"}, "Ada"},
		{UserResponse{LastName: "Lovelace"}, "Lovelace"},
		{UserResponse{}, ""},
	}

	for _, tt := range tests {
		if got := tt.user.FullName(); got != tt.expected {
			t.Errorf("FullName() = %q, expected %q", got, tt.expected)
		}
	}
}
