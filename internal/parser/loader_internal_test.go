package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoader_Pattern(t *testing.T) {
	l := &Loader{}
	assert.Equal(t, ".", l.pattern("/m", "/m"))
	assert.Equal(t, "./a/b", l.pattern("/m", "/m/a/b"))
	assert.Equal(t, "/elsewhere", l.pattern("/m", "/elsewhere"))
}
