package pricing

import "fmt"

// Money is a monetary amount in minor units of the configured currency.
// Integer cents keep the aggregator exact; formatting happens at the edge.
type Money = int64

// FormatAmount renders a minor-unit amount in major units, e.g. 378200 -> "3782.00".
func FormatAmount(m Money) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d.%02d", sign, m/100, m%100)
}
