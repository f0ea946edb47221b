package core

import "testing"

func TestRowText(t *testing.T) {
	row := Row{"  Germany ", 276, 12.5, nil, `="00123"`}

	tests := []struct {
		idx  int
		want string
	}{
		{0, "Germany"},
		{1, "276"},
		{2, "12.5"},
		{3, ""},
		{4, "00123"},
		{9, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		if got := row.Text(tt.idx); got != tt.want {
			t.Errorf("Text(%d) = %q, want %q", tt.idx, got, tt.want)
		}
	}
}

func TestRowInt(t *testing.T) {
	row := Row{"8,500", 1999, 2004.0, "12.5", "abc", "", -3, 1.5}

	tests := []struct {
		idx  int
		want *int
	}{
		{0, intPtr(8500)},
		{1, intPtr(1999)},
		{2, intPtr(2004)},
		{3, nil},
		{4, nil},
		{5, nil},
		{6, intPtr(-3)},
		{7, nil},
		{8, nil},
	}

	for _, tt := range tests {
		got := row.Int(tt.idx)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("Int(%d) = %v, want %v", tt.idx, deref(got), deref(tt.want))
		}
	}
}

func TestRowDecimal(t *testing.T) {
	row := Row{"21.5", 13.75, 40, "n/a", "  "}

	tests := []struct {
		idx  int
		want *float64
	}{
		{0, floatPtr(21.5)},
		{1, floatPtr(13.75)},
		{2, floatPtr(40)},
		{3, nil},
		{4, nil},
	}

	for _, tt := range tests {
		got := row.Decimal(tt.idx)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("Decimal(%d) = %v, want %v", tt.idx, deref(got), deref(tt.want))
		}
	}
}

func TestRowBlank(t *testing.T) {
	if !(Row{"", "  ", nil}).Blank() {
		t.Error("Blank() = false for empty cells")
	}
	if (Row{"", "DE"}).Blank() {
		t.Error("Blank() = true for a row with a value")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"123.45", 123.45, true},
		{"$1,234.56", 1234.56, true},
		{"(100.00)", -100, true},
		{"€50", 50, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{`="12345"`, "12345"},
		{"=12345", "12345"},
		{`"quoted"`, "quoted"},
		{"Côte d'Ivoire", "Côte d'Ivoire"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMergeHelpers(t *testing.T) {
	name := "Germany"
	MergeText(&name, "")
	if name != "Germany" {
		t.Errorf("MergeText with blank = %q, want unchanged", name)
	}
	MergeText(&name, "Deutschland")
	if name != "Deutschland" {
		t.Errorf("MergeText = %q, want %q", name, "Deutschland")
	}

	teus := intPtr(8500)
	MergeValue(&teus, nil)
	if teus == nil || *teus != 8500 {
		t.Errorf("MergeValue with nil = %v, want 8500", deref(teus))
	}
	MergeValue(&teus, intPtr(9000))
	if *teus != 9000 {
		t.Errorf("MergeValue = %d, want 9000", *teus)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatInt(nil); got != "" {
		t.Errorf("FormatInt(nil) = %q, want empty", got)
	}
	if got := FormatInt(intPtr(2004)); got != "2004" {
		t.Errorf("FormatInt = %q, want 2004", got)
	}
	if got := FormatDecimal(floatPtr(21.5)); got != "21.5" {
		t.Errorf("FormatDecimal = %q, want 21.5", got)
	}
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
