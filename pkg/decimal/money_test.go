package decimal

import (
    "testing"

    stddec "github.com/shopspring/decimal"
)

func TestConstructors(t *testing.T) {
    m := NewMoney(12.345)
    if m.String() != "12.3" { // rounded for display
        t.Fatalf("NewMoney display mismatch: got %s", m.String())
    }

    d := stddec.NewFromFloat(10.125)
    m2 := NewMoneyFromDecimal(d)
    if !m2.Decimal.Equal(d) {
        t.Fatalf("NewMoneyFromDecimal mismatch: got %s want %s", m2.Decimal, d)
    }

    m3, err := NewMoneyFromString("123.45")
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if !m3.Decimal.Equal(stddec.NewFromFloat(123.45)) {
        t.Fatalf("NewMoneyFromString mismatch: got %s", m3.Decimal)
    }

    if _, err := NewMoneyFromString("not-a-number"); err == nil {
        t.Fatalf("expected error for invalid string")
    }
}

func TestParseDecimalComma(t *testing.T) {
    cases := []struct{ in string; out string }{
        {"16,5", "16.5"},
        {" 21.00 ", "21"},
        {"7", "7"},
    }
    for _, c := range cases {
        got, err := ParseDecimal(c.in)
        if err != nil {
            t.Fatalf("ParseDecimal(%q) error: %v", c.in, err)
        }
        if !got.Equal(stddec.RequireFromString(c.out)) {
            t.Fatalf("ParseDecimal(%q) got %s want %s", c.in, got, c.out)
        }
    }
    if _, err := ParseDecimal("1,2,3"); err == nil {
        t.Fatalf("expected error for malformed number")
    }
}

func TestRounding(t *testing.T) {
    cases := []struct{ in string; out string }{
        {"2.34", "2.3"},
        {"2.35", "2.4"},
        {"-1.25", "-1.3"},
        {"9.96", "10.0"},
    }
    for _, c := range cases {
        m, _ := NewMoneyFromString(c.in)
        got := m.Round().String()
        if got != c.out {
            t.Fatalf("round(%s) got %s want %s", c.in, got, c.out)
        }
    }
}

func TestArithmetic(t *testing.T) {
    a := NewMoney(10.1)
    b := NewMoney(5.05)
    if got := a.Add(b).String(); got != "15.2" {
        t.Fatalf("Add got %s", got)
    }
    if got := a.Sub(b).String(); got != "5.1" {
        t.Fatalf("Sub got %s", got)
    }
    if !Zero().IsZero() {
        t.Fatalf("Zero should be zero")
    }
}

func TestStringAndFormat(t *testing.T) {
    m := NewMoney(1234.5)
    if got := m.String(); got != "1234.5" {
        t.Fatalf("String got %s", got)
    }
    if got := m.Format(); got != "1234.5 M" {
        t.Fatalf("Format got %s", got)
    }
}

func TestFormatMillions(t *testing.T) {
    if got := FormatMillions(nil); got != Placeholder {
        t.Fatalf("nil should render placeholder, got %s", got)
    }
    v := stddec.NewFromFloat(33.77475)
    if got := FormatMillions(&v); got != "33.8" {
        t.Fatalf("FormatMillions got %s", got)
    }
    if got := FormatPercent(stddec.NewFromFloat(16.5)); got != "16.5%" {
        t.Fatalf("FormatPercent got %s", got)
    }
}
