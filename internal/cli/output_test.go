package cli

import (
	"bytes"
	"strings"
	"testing"
)

func testOutput(buf *bytes.Buffer, color bool) *Output {
	return &Output{writer: buf, colorEnabled: color}
}

func TestColoredStringPlain(t *testing.T) {
	var buf bytes.Buffer
	o := testOutput(&buf, false)

	if got := o.Green("profit"); got != "profit" {
		t.Errorf("plain output should carry no codes, got %q", got)
	}
}

func TestColoredStringWithColor(t *testing.T) {
	var buf bytes.Buffer
	o := testOutput(&buf, true)

	got := o.Red("loss")
	if !strings.HasPrefix(got, ColorRed) || !strings.HasSuffix(got, ColorReset) {
		t.Errorf("colored output = %q", got)
	}
}

func TestPnLColor(t *testing.T) {
	var buf bytes.Buffer
	o := testOutput(&buf, true)

	if o.PnLColor(10) != ColorGreen {
		t.Error("positive P&L should be green")
	}
	if o.PnLColor(-10) != ColorRed {
		t.Error("negative P&L should be red")
	}
	if o.PnLColor(0) != ColorWhite {
		t.Error("flat P&L should be white")
	}
}

func TestFormatPercentSign(t *testing.T) {
	var buf bytes.Buffer
	o := testOutput(&buf, false)

	if got := o.FormatPercent(3.5); got != "+3.50%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := o.FormatPercent(-1.25); got != "-1.25%" {
		t.Errorf("FormatPercent = %q", got)
	}
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	o := testOutput(&buf, false)

	table := NewTable(o, "Symbol", "Price")
	table.AddRow("BTCUSDT", "65,000.00")
	table.AddRow("ETH", "3,200.00")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header, separator and two rows", len(lines))
	}
	if !strings.Contains(lines[0], "Symbol") || !strings.Contains(lines[0], "Price") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "─") {
		t.Errorf("separator = %q", lines[1])
	}
	// Columns align: the Price column starts at the same offset everywhere.
	if strings.Index(lines[2], "65,000.00") != strings.Index(lines[3], "3,200.00") {
		t.Errorf("columns misaligned:\n%q\n%q", lines[2], lines[3])
	}
}

func TestTableWidthIgnoresANSI(t *testing.T) {
	var buf bytes.Buffer
	o := testOutput(&buf, false)

	table := NewTable(o, "Dir", "Entry")
	table.AddRow(ColorGreen+"LONG"+ColorReset, "100")
	table.AddRow("SHORT", "200")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	// Widths come from visible characters, so the second column lines up
	// even when the first cell carries color codes.
	if strings.Index(stripANSI(lines[2]), "100") != strings.Index(lines[3], "200") {
		t.Errorf("columns misaligned:\n%q\n%q", lines[2], lines[3])
	}
}

func TestStripANSI(t *testing.T) {
	in := ColorBold + "header" + ColorReset + ColorGreen + "+5%" + ColorReset
	if got := stripANSI(in); got != "header+5%" {
		t.Errorf("stripANSI = %q", got)
	}
}
