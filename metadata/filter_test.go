package metadata

import "testing"

func TestFilterMatches(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		metadata Document
		want     bool
	}{
		{
			name:     "OpEqual string match",
			filter:   Filter{Key: "category", Operator: OpEqual, Value: String("tech")},
			metadata: Document{"category": String("tech")},
			want:     true,
		},
		{
			name:     "OpEqual string no match",
			filter:   Filter{Key: "category", Operator: OpEqual, Value: String("tech")},
			metadata: Document{"category": String("sports")},
			want:     false,
		},
		{
			name:     "OpEqual int match",
			filter:   Filter{Key: "count", Operator: OpEqual, Value: Int(10)},
			metadata: Document{"count": Int(10)},
			want:     true,
		},
		{
			name:     "OpEqual int vs float cross-type",
			filter:   Filter{Key: "count", Operator: OpEqual, Value: Int(10)},
			metadata: Document{"count": Float(10)},
			want:     true,
		},
		{
			name:     "OpNotEqual",
			filter:   Filter{Key: "status", Operator: OpNotEqual, Value: String("active")},
			metadata: Document{"status": String("inactive")},
			want:     true,
		},
		{
			name:     "OpGreaterThan",
			filter:   Filter{Key: "score", Operator: OpGreaterThan, Value: Int(50)},
			metadata: Document{"score": Int(75)},
			want:     true,
		},
		{
			name:     "OpGreaterThan false",
			filter:   Filter{Key: "score", Operator: OpGreaterThan, Value: Int(50)},
			metadata: Document{"score": Int(25)},
			want:     false,
		},
		{
			name:     "OpGreaterThan type mismatch is non-match",
			filter:   Filter{Key: "score", Operator: OpGreaterThan, Value: Int(50)},
			metadata: Document{"score": String("high")},
			want:     false,
		},
		{
			name:     "OpGreaterEqual equal",
			filter:   Filter{Key: "age", Operator: OpGreaterEqual, Value: Int(18)},
			metadata: Document{"age": Int(18)},
			want:     true,
		},
		{
			name:     "OpLessThan",
			filter:   Filter{Key: "temperature", Operator: OpLessThan, Value: Int(100)},
			metadata: Document{"temperature": Int(75)},
			want:     true,
		},
		{
			name:     "OpLessEqual equal",
			filter:   Filter{Key: "limit", Operator: OpLessEqual, Value: Int(10)},
			metadata: Document{"limit": Int(10)},
			want:     true,
		},
		{
			name:     "OpIn match",
			filter:   Filter{Key: "color", Operator: OpIn, Value: Array([]Value{String("red"), String("blue"), String("green")})},
			metadata: Document{"color": String("blue")},
			want:     true,
		},
		{
			name:     "OpIn not found",
			filter:   Filter{Key: "color", Operator: OpIn, Value: Array([]Value{String("red"), String("blue")})},
			metadata: Document{"color": String("yellow")},
			want:     false,
		},
		{
			name:     "OpNotIn match",
			filter:   Filter{Key: "status", Operator: OpNotIn, Value: Array([]Value{String("deleted"), String("archived")})},
			metadata: Document{"status": String("active")},
			want:     true,
		},
		{
			name:     "OpNotIn excluded",
			filter:   Filter{Key: "status", Operator: OpNotIn, Value: Array([]Value{String("deleted")})},
			metadata: Document{"status": String("deleted")},
			want:     false,
		},
		{
			name:     "OpExists true with key present",
			filter:   Filter{Key: "owner", Operator: OpExists, Value: Bool(true)},
			metadata: Document{"owner": String("alice")},
			want:     true,
		},
		{
			name:     "OpExists true with key absent",
			filter:   Filter{Key: "owner", Operator: OpExists, Value: Bool(true)},
			metadata: Document{},
			want:     false,
		},
		{
			name:     "OpExists false with key absent",
			filter:   Filter{Key: "owner", Operator: OpExists, Value: Bool(false)},
			metadata: Document{},
			want:     true,
		},
		{
			name:     "OpExists false with key present",
			filter:   Filter{Key: "owner", Operator: OpExists, Value: Bool(false)},
			metadata: Document{"owner": String("alice")},
			want:     false,
		},
		{
			name:     "OpContains substring",
			filter:   Filter{Key: "title", Operator: OpContains, Value: String("report")},
			metadata: Document{"title": String("quarterly report 2026")},
			want:     true,
		},
		{
			name:     "OpContains substring miss",
			filter:   Filter{Key: "title", Operator: OpContains, Value: String("invoice")},
			metadata: Document{"title": String("quarterly report 2026")},
			want:     false,
		},
		{
			name:     "OpContains array element",
			filter:   Filter{Key: "tags", Operator: OpContains, Value: String("go")},
			metadata: Document{"tags": Array([]Value{String("go"), String("db")})},
			want:     true,
		},
		{
			name:     "missing key is non-match",
			filter:   Filter{Key: "missing", Operator: OpEqual, Value: String("x")},
			metadata: Document{"present": String("x")},
			want:     false,
		},
		{
			name:     "nil metadata is non-match",
			filter:   Filter{Key: "any", Operator: OpEqual, Value: String("x")},
			metadata: nil,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Matches(tt.metadata)
			if got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterSetMatches(t *testing.T) {
	doc := Document{
		"category": String("tech"),
		"year":     Int(2026),
		"public":   Bool(true),
	}

	t.Run("all conditions must hold", func(t *testing.T) {
		fs := NewFilterSet(
			Eq("category", String("tech")),
			Filter{Key: "year", Operator: OpGreaterEqual, Value: Int(2020)},
		)
		if !fs.Matches(doc) {
			t.Error("expected match")
		}
	})

	t.Run("one failing condition fails the set", func(t *testing.T) {
		fs := NewFilterSet(
			Eq("category", String("tech")),
			Eq("public", Bool(false)),
		)
		if fs.Matches(doc) {
			t.Error("expected no match")
		}
	})

	t.Run("empty set matches everything", func(t *testing.T) {
		fs := NewFilterSet()
		if !fs.Matches(doc) {
			t.Error("expected match")
		}
		if !fs.Matches(nil) {
			t.Error("expected match on nil metadata")
		}
	})
}
