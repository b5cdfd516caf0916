package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "12,50 €", FormatPrice(12.5))
	assert.Equal(t, "0,00 €", FormatPrice(0))
	assert.Equal(t, "1.234,56 €", FormatPrice(1234.56))
	assert.Equal(t, "1.000.000,00 €", FormatPrice(1000000))
	assert.Equal(t, "-3,10 €", FormatPrice(-3.1))
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "15:00", FormatCountdown(900))
	assert.Equal(t, "01:05", FormatCountdown(65))
	assert.Equal(t, "00:00", FormatCountdown(-4))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 12, 24, 17, 30, 5, 0, time.UTC)
	assert.Equal(t, "24.12.2024, 18:30:05", FormatDate(ts))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "MM", Initials("max", "Mustermann"))
	assert.Equal(t, "Ä", Initials("Änne", ""))
	assert.Equal(t, "", Initials(" ", ""))
}
