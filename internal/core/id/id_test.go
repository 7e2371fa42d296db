package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList_DropsDuplicates(t *testing.T) {
	a := New()
	b := New()

	got, err := ParseList([]string{a.String(), b.String(), a.String()})
	require.NoError(t, err)
	assert.Equal(t, []ID{a, b}, got)
}

func TestParseList_Invalid(t *testing.T) {
	_, err := ParseList([]string{New().String(), "not-a-uuid"})
	assert.ErrorContains(t, err, "not-a-uuid")
}

func TestNew_IsV7(t *testing.T) {
	v := New()
	assert.False(t, IsNil(v))
	assert.EqualValues(t, 7, v.Version())
}
