package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"billdesk/internal/domain"
)

// billColumns is the header row of the bill sheet.
var billColumns = []string{
	"Bill Number",
	"Bill Date",
	"Location",
	"Payment Status",
	"Total Billed Amount",
	"Supplier",
	"Supplier GSTIN",
	"Party",
	"Party GSTIN",
	"Item Count",
	"Created At",
}

// itemColumns is the header row of the item sheet.
var itemColumns = []string{
	"Bill Number",
	"Bill Date",
	"Line",
	"Name",
	"HSN",
	"Quantity",
	"Rate",
	"Amount",
}

const dateLayout = "2006-01-02"

func billRow(b *domain.Bill) []string {
	row := make([]string, len(billColumns))
	row[0] = b.BillNumber
	row[1] = b.BillDate.Format(dateLayout)
	row[2] = b.Location
	row[3] = string(b.PaymentStatus)
	row[4] = b.TotalBilledAmount.StringFixed(2)
	if b.Supplier != nil {
		row[5] = b.Supplier.Name
		row[6] = b.Supplier.GSTIN
	}
	if b.Party != nil {
		row[7] = b.Party.Name
		row[8] = b.Party.GSTIN
	}
	row[9] = fmt.Sprintf("%d", len(b.Items))
	row[10] = b.CreatedAt.Format(time.RFC3339)
	return row
}

func itemRows(b *domain.Bill) [][]string {
	rows := make([][]string, 0, len(b.Items))
	for i, it := range b.Items {
		rows = append(rows, []string{
			b.BillNumber,
			b.BillDate.Format(dateLayout),
			fmt.Sprintf("%d", i+1),
			it.Name,
			it.HSN,
			it.Quantity.String(),
			it.Rate.StringFixed(2),
			it.Amount.StringFixed(2),
		})
	}
	return rows
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces non-alphanumeric chars (except - _) with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a Content-Disposition filename of the form
// {sanitized_name}_{YYYY-MM-DD}.{ext}.
func BuildFilename(name, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format(dateLayout), ext)
}
