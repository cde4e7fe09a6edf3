package money

import "fmt"

// Balances are carried as int64 sen end to end; these helpers only exist at
// the display boundary.

// SenToRinggitString formats sen as a plain decimal string without floats.
func SenToRinggitString(sen int64) string {
	sign := ""
	if sen < 0 {
		sign = "-"
		sen = -sen
	}
	return fmt.Sprintf("%s%d.%02d", sign, sen/100, sen%100)
}

// FormatWithCommas renders sen as a grouped ringgit amount for reports,
// e.g. 123456789 -> "1,234,567.89".
func FormatWithCommas(sen int64) string {
	sign := ""
	if sen < 0 {
		sign = "-"
		sen = -sen
	}
	whole := sen / 100
	cents := sen % 100

	digits := fmt.Sprintf("%d", whole)
	var grouped []byte
	l := len(digits)
	for i := 0; i < l; i++ {
		grouped = append(grouped, digits[i])
		rem := l - i - 1
		if rem > 0 && rem%3 == 0 {
			grouped = append(grouped, ',')
		}
	}
	return fmt.Sprintf("%s%s.%02d", sign, grouped, cents)
}
