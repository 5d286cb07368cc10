package userservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordSetAndCompare(t *testing.T) {
	var p Password

	err := p.set("sekret")
	assert.NoError(t, err)
	assert.NotEmpty(t, p.hash)

	ok, err := p.compare("sekret")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.compare("wrong")
	assert.NoError(t, err)
	assert.False(t, ok)
}
