package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a money value the backend sends either as a JSON number or as a
// decimal string ("3.00").
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	str := strings.TrimSpace(string(data))
	if str == `null` || str == `""` {
		*a = 0
		return nil
	}
	str = strings.Trim(str, `"`)
	f, err := strconv.ParseFloat(strings.Replace(str, ",", ".", 1), 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %s", str)
	}
	*a = Amount(f)
	return nil
}

func (a Amount) Float() float64 {
	return float64(a)
}
