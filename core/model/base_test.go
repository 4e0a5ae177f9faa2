package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseEstimator(t *testing.T) {
	var e BaseEstimator
	assert.False(t, e.IsFitted())

	e.SetFitted(5, 100)
	assert.True(t, e.IsFitted())
	nf, ns := e.Dims()
	assert.Equal(t, 5, nf)
	assert.Equal(t, 100, ns)

	e.Reset()
	assert.False(t, e.IsFitted())
	nf, ns = e.Dims()
	assert.Zero(t, nf)
	assert.Zero(t, ns)
}
