package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "11988776655", DigitsOnly("(11) 98877-6655"))
	assert.Equal(t, "", DigitsOnly("sem número"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "***6655", MaskPhone("(11) 98877-6655"))
	assert.Equal(t, "***", MaskPhone("1234"))
	assert.Equal(t, "***", MaskPhone(""))
}
