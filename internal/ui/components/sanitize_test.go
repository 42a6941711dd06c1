package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOneLineStripsOscAndNewlines(t *testing.T) {
	input := "\x1b]8;;https://evil\x07click\x1b]8;;\x07\nline\tmore"
	out := SanitizeOneLine(input)

	assert.NotContains(t, out, "\x1b")
	assert.NotContains(t, out, "\n")
	assert.NotContains(t, out, "\t")
	assert.Equal(t, "click line more", out)
}

func TestSanitizeTextRemovesBidiControls(t *testing.T) {
	out := SanitizeText("Payroll\u202exe.txt")
	assert.NotContains(t, out, "\u202e")
}

func TestSanitizeTextKeepsNewlinesAndStripsCSI(t *testing.T) {
	out := SanitizeText("Corporate\x1b[31m Finance\nPayroll")
	assert.Equal(t, "Corporate Finance\nPayroll", out)
}

func TestSanitizeTextEmpty(t *testing.T) {
	assert.Equal(t, "", SanitizeText(""))
	assert.Equal(t, "", SanitizeOneLine(""))
}
