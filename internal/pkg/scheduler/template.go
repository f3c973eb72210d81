package scheduler

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReminderData carries the receivable/client fields substituted into a
// reminder message template.
type ReminderData struct {
	ClientName  string
	Amount      decimal.Decimal
	DueDate     time.Time
	Description string
	DaysOverdue int
}

// RenderTemplate substitutes the supported placeholders into tmpl:
// {cliente}, {valor}, {vencimento}, {descricao}, {dias_atraso}.
// Money is rendered pt-BR style (1.234,56), dates as DD/MM/YYYY.
func RenderTemplate(tmpl string, data ReminderData) string {
	replacer := strings.NewReplacer(
		"{cliente}", data.ClientName,
		"{valor}", FormatMoney(data.Amount),
		"{vencimento}", FormatDate(data.DueDate),
		"{descricao}", data.Description,
		"{dias_atraso}", strconv.Itoa(data.DaysOverdue),
	)
	return replacer.Replace(tmpl)
}

// FormatMoney renders a decimal amount with comma decimal separator and dot
// thousand separators, e.g. 1234.5 -> "1.234,50".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// FormatDate renders a date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
