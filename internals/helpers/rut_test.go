package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRUT(t *testing.T) {
	assert.Equal(t, "12345678-K", NormalizeRUT(" 12.345.678-k "))
	assert.Equal(t, "12345678-5", NormalizeRUT("12.345.678-5"))
	assert.Equal(t, "12345678-5", NormalizeRUT("12345678-5"))
}

func TestValidateRUT(t *testing.T) {
	valid := []string{
		"12345678-5",
		"12.345.678-5",
		"11111111-1",
		"11111112-K",
		"11111112-k",
	}
	for _, rut := range valid {
		assert.True(t, ValidateRUT(rut), rut)
	}

	invalid := []string{
		"",
		"12345678",
		"12345678-4",
		"11111112-1",
		"1234567a-5",
		"12345678-55",
		"123-5",
	}
	for _, rut := range invalid {
		assert.False(t, ValidateRUT(rut), rut)
	}
}
