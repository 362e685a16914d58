package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlock_NewUnits(t *testing.T) {
	b := &Block{ID: "b1"}
	assert.Equal(t, 0, b.NewUnits(2012))

	b.PermitIncrements = map[int]int{2012: 7}
	assert.Equal(t, 7, b.NewUnits(2012))
	assert.Equal(t, 0, b.NewUnits(2013))
}

func TestAttribution_Clone(t *testing.T) {
	orig := &Attribution{
		Wards:  map[string]string{"b1": "1"},
		Nhoods: map[string]string{"b1": "Downtown"},
	}

	c := orig.Clone()
	c.Wards["b1"] = "2"
	c.Wards["b2"] = "3"
	c.Nhoods["b1"] = "Eastside"

	assert.Equal(t, "1", orig.Wards["b1"])
	assert.Len(t, orig.Wards, 1)
	assert.Equal(t, "Downtown", orig.Nhoods["b1"])
}

func TestAttribution_CloneWithoutNhoods(t *testing.T) {
	orig := &Attribution{Wards: map[string]string{"b1": "1"}}
	c := orig.Clone()
	assert.Nil(t, c.Nhoods)
}
