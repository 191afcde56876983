package category

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAll_HasElevenLabels(t *testing.T) {
	cats := All()
	assert.Len(t, cats, 11)
	assert.Equal(t, Food, cats[0])
	assert.Equal(t, Other, cats[len(cats)-1])

	cats[0] = "MUTATED"
	assert.Equal(t, Food, All()[0], "All returns a copy")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Category
		wantErr bool
	}{
		{name: "uppercase", in: "FOOD", want: Food},
		{name: "lowercase", in: "groceries", want: Groceries},
		{name: "mixed case with spaces", in: "  Entertainment ", want: Entertainment},
		{name: "unknown", in: "GIFTS", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalid))
				assert.Contains(t, err.Error(), "FOOD, RENT, TRANSPORT")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, c := range All() {
		assert.True(t, c.IsValid(), c.String())
	}
	assert.False(t, Category("food").IsValid(), "validation is case sensitive after Parse")
}
