package shared_test

import (
	"testing"

	"carrental/shared"
	"carrental/shared/dto"
)

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{
			name:     "prefix only",
			prefix:   "booking:get",
			parts:    nil,
			expected: "booking:get",
		},
		{
			name:     "single part",
			prefix:   "booking:get",
			parts:    []string{"abc"},
			expected: "booking:get:abc",
		},
		{
			name:     "multiple parts",
			prefix:   "limiter",
			parts:    []string{"10.0.0.1", "curl"},
			expected: "limiter:10.0.0.1:curl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.BuildCacheKey(tt.prefix, tt.parts...)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("some-id", "id", "bookings")

	if len(group.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(group.Filters))
	}

	filter, ok := group.Filters[0].(dto.Filter)
	if !ok {
		t.Fatalf("expected dto.Filter, got %T", group.Filters[0])
	}

	if filter.Field != "id" || filter.Table != "bookings" || filter.Value != "some-id" {
		t.Errorf("unexpected filter contents: %+v", filter)
	}

	where, args := group.GetWhereClause()
	if where != "(bookings.id = :id)" {
		t.Errorf("unexpected where clause: %q", where)
	}

	if args["id"] != "some-id" {
		t.Errorf("unexpected args: %+v", args)
	}
}
