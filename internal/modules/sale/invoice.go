package sale

import "fmt"

// FormatInvoiceNumber builds the human-facing invoice number: the YYYYMMDD
// day prefix followed by the zero-padded sequence. The pad width is four;
// past 9999 sales in one day the suffix simply grows a digit rather than
// truncating or failing.
func FormatInvoiceNumber(day string, seq int) string {
	return fmt.Sprintf("%s%04d", day, seq)
}
