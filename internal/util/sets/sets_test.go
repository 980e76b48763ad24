package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New("a", "b")
	s.Add("c")
	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("c"))
	assert.False(t, s.Has("d"))
	assert.Len(t, s, 3)
}

func TestOrderedKeepsInsertionOrder(t *testing.T) {
	o := NewOrdered("nav-link", "btn", "nav-link")
	assert.Equal(t, []string{"nav-link", "btn"}, o.Values())

	assert.True(t, o.Add("active"))
	assert.False(t, o.Add("active"))
	assert.Equal(t, []string{"nav-link", "btn", "active"}, o.Values())
	assert.Equal(t, 3, o.Len())
	assert.True(t, o.Has("btn"))
}

func TestOrderedValuesIsCopy(t *testing.T) {
	o := NewOrdered(1, 2)
	vals := o.Values()
	vals[0] = 9
	assert.Equal(t, []int{1, 2}, o.Values())
}
