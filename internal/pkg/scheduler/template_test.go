package scheduler

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0,00"},
		{in: "9.9", want: "9,90"},
		{in: "100", want: "100,00"},
		{in: "1234.5", want: "1.234,50"},
		{in: "1234567.89", want: "1.234.567,89"},
		{in: "-1234.5", want: "-1.234,50"},
	}

	for _, tt := range tests {
		d := decimal.RequireFromString(tt.in)
		if got := FormatMoney(d); got != tt.want {
			t.Fatalf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 6, 10, 15, 4, 5, 0, time.UTC)
	if got := FormatDate(d); got != "10/06/2024" {
		t.Fatalf("FormatDate = %q, want 10/06/2024", got)
	}
}

func TestRenderTemplate(t *testing.T) {
	data := ReminderData{
		ClientName:  "Maria",
		Amount:      decimal.RequireFromString("150.00"),
		DueDate:     time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Description: "Mensalidade",
		DaysOverdue: 3,
	}

	tmpl := "Olá {cliente}, a cobrança {descricao} de R$ {valor} venceu em {vencimento} há {dias_atraso} dias."
	want := "Olá Maria, a cobrança Mensalidade de R$ 150,00 venceu em 10/06/2024 há 3 dias."
	if got := RenderTemplate(tmpl, data); got != want {
		t.Fatalf("RenderTemplate = %q, want %q", got, want)
	}
}

func TestRenderTemplateUnknownPlaceholderLeftAlone(t *testing.T) {
	got := RenderTemplate("Oi {cliente}, veja {link}", ReminderData{ClientName: "Ana"})
	if got != "Oi Ana, veja {link}" {
		t.Fatalf("RenderTemplate = %q, want unknown placeholder untouched", got)
	}
}
