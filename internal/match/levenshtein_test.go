package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"hello", "hello", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"a", "ab", 1},
		{"ab", "a", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"ABC", "abc", 3},
		{"customerid", "customerID", 2},
		{"naïve", "naive", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.expected, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 0.001)
	assert.InDelta(t, 1.0, Similarity("order_id", "OrderID"), 0.001)
	assert.InDelta(t, 1.0-3.0/7.0, Similarity("kitten", "sitting"), 0.001)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 0.001)
}

func TestSuggest(t *testing.T) {
	names := []string{"CustomerID", "CustomerName", "Status", "Items", "Status"}

	tests := []struct {
		name     string
		input    string
		limit    int
		expected []string
	}{
		{"typo", "CustmerID", 3, []string{"CustomerID", "CustomerName"}},
		{"case and separators", "customer_name", 1, []string{"CustomerName"}},
		{"suffix strip", "Customer", 1, []string{"CustomerID"}},
		{"nothing close", "Zebra", 3, nil},
		{"duplicates collapse", "Statos", 5, []string{"Status"}},
		{"zero limit", "Status", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Suggest(tt.input, names, tt.limit))
		})
	}
}

func BenchmarkLevenshtein(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Levenshtein("algorithm", "altruistic")
	}
}
