package core

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFCountry Name,Country Code\nGermany,DE\n  France , FR \nMonaco\n"

	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}
	if rows[0].Text(0) != "Country Name" {
		t.Errorf("BOM not stripped: %q", rows[0].Text(0))
	}
	if rows[2].Text(0) != "France" || rows[2].Text(1) != "FR" {
		t.Errorf("rows[2] = %v, want trimmed France/FR", rows[2])
	}
	if rows[3].Text(1) != "" {
		t.Errorf("ragged row cell = %q, want blank", rows[3].Text(1))
	}
}

func TestReadCSV_Empty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}

func TestDropHeader(t *testing.T) {
	columns := []string{"Port Code", "Full Name", "Country Code", "Region Code"}

	tests := []struct {
		name  string
		first string
		want  int
	}{
		{"exact header", "Port Code", 1},
		{"lowercase header", "port code", 1},
		{"underscored header", "PORT_CODE", 1},
		{"data row", "DEHAM", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []Row{{tt.first, "Hamburg"}, {"NLRTM", "Rotterdam"}}
			if got := DropHeader(rows, columns); len(got) != tt.want {
				t.Errorf("len(DropHeader()) = %d, want %d", len(got), tt.want)
			}
		})
	}

	if got := DropHeader(nil, columns); len(got) != 0 {
		t.Errorf("DropHeader(nil) = %v, want empty", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"Region Name", "Region Code"}, [][]string{{"North Europe", "NEU"}, {"Asia, East", "ASE"}})
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "Region Name,Region Code\nNorth Europe,NEU\n\"Asia, East\",ASE\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
	}
}
