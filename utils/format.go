package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
	_ "time/tzdata"
)

var berlin = loadBerlin()

func loadBerlin() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.FixedZone("CET", 3600)
	}
	return loc
}

// FormatDate renders t the way the German storefront shows dates: 02.01.2006, 15:04:05.
func FormatDate(t time.Time) string {
	return t.In(berlin).Format("02.01.2006, 15:04:05")
}

// FormatPrice renders an euro amount with a decimal comma: 1234.5 -> "1.234,50 €".
func FormatPrice(amount float64) string {
	cents := int64(math.Round(amount * 100))
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := fmt.Sprintf("%d", cents/100)

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s%s,%02d €", sign, b.String(), cents%100)
}

// FormatCountdown renders seconds as mm:ss.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Initials returns the upper-case first letters of first and last name.
func Initials(firstName, lastName string) string {
	var b strings.Builder
	for _, name := range []string{firstName, lastName} {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		b.WriteString(strings.ToUpper(string([]rune(name)[0:1])))
	}
	return b.String()
}
