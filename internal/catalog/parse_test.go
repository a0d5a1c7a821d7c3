package catalog

import (
	"strings"
	"testing"
)

const fixtureHeader = "id,proper,ra,dec,dist,mag,absmag,spect,var,x,y,z"

func TestParseCSVPromotesValidRows(t *testing.T) {
	data := fixtureHeader + "\n" +
		"1,Vega,18.6156,38.7836,7.68,0.03,0.58,A0Va,,0.1,0.2,0.3\n" +
		"2,,6.7525,-16.7161,2.64,-1.44,1.45,A1V,V,1.0,2.0,3.0\n"
	records, malformed, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if malformed != 0 {
		t.Fatalf("expected 0 malformed rows, got %d", malformed)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	vega := records[0]
	if vega.ID != 1 || vega.ProperName != "Vega" || vega.RA != 18.6156 || vega.Dec != 38.7836 {
		t.Fatalf("vega fields wrong: %+v", vega)
	}
	if vega.Distance != 7.68 || vega.Magnitude != 0.03 || vega.AbsMag != 0.58 || vega.Spectral != "A0Va" {
		t.Fatalf("vega fields wrong: %+v", vega)
	}
	if vega.IsVariable {
		t.Fatalf("vega should not be variable")
	}
	if vega.X != 0.1 || vega.Y != 0.2 || vega.Z != 0.3 {
		t.Fatalf("vega cartesian wrong: %+v", vega)
	}

	anon := records[1]
	if anon.HasName() {
		t.Fatalf("row 2 should be unnamed")
	}
	if !anon.IsVariable {
		t.Fatalf("row 2 should be variable")
	}
}

func TestParseCSVSkipsMalformedRows(t *testing.T) {
	data := fixtureHeader + "\n" +
		"1,Vega,18.6156,38.7836,7.68,0.03,0.58,A0Va,,0,0,0\n" +
		"2,Bad RA,notanumber,10,1,1,1,,,0,0,0\n" +
		",Missing ID,1.0,10,1,1,1,,,0,0,0\n" +
		"4,Out Of Range,25.0,10,1,1,1,,,0,0,0\n" +
		"5,Bad Dec,1.0,95,1,1,1,,,0,0,0\n" +
		"6,Negative Dist,1.0,10,-5,1,1,,,0,0,0\n"
	records, malformed, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 valid record, got %d", len(records))
	}
	if malformed != 5 {
		t.Fatalf("expected 5 malformed rows, got %d", malformed)
	}
	if records[0].ProperName != "Vega" {
		t.Fatalf("surviving record should be Vega, got %q", records[0].ProperName)
	}
}

func TestParseCSVToleratesReorderedColumns(t *testing.T) {
	data := "proper,mag,id,dec,ra\nVega,0.03,1,38.7836,18.6156\n"
	records, _, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].ID != 1 || records[0].RA != 18.6156 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestParseCSVRejectsHeaderMissingRequiredColumns(t *testing.T) {
	if _, _, err := ParseCSV(strings.NewReader("proper,ra,dec\nVega,1,1\n")); err == nil {
		t.Fatalf("expected error for header missing mag/id")
	}
}
