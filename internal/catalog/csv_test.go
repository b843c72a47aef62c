package catalog

import (
	"testing"

	"github.com/spf13/afero"
)

func writeTestFile(t *testing.T, fsys afero.Fs, path, body string) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCSVSourceParse(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, "/titles.csv",
		"Title_ID,Title_Name,Version\n"+
			"CUSA00012,DC Universe Online,0126\n"+
			"Game Pack (CUSA11111) [US],Messy Field Game,\n"+
			"no id here,Dropped Row,0100\n"+
			"CUSA22222,,0100\n"+
			"CUSA33333,Trim Me , 0205 \n")

	src, err := Get("csv")
	if err != nil {
		t.Fatal(err)
	}
	records, err := src.Parse(fsys, "/titles.csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Record{
		{TitleID: "CUSA00012", Name: "DC Universe Online", Version: "0126", Source: "titles.csv"},
		{TitleID: "CUSA11111", Name: "Messy Field Game", Version: "1.00", Source: "titles.csv"},
		{TitleID: "CUSA33333", Name: "Trim Me", Version: "0205", Source: "titles.csv"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(records), len(want), records)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("records[%d] = %+v, want %+v", i, records[i], want[i])
		}
	}
}

func TestCSVSourceNoVersionColumn(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, "/t.csv", "Title_ID,Title_Name\nCUSA00012,Some Game\n")

	src, _ := Get("csv")
	records, err := src.Parse(fsys, "/t.csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 || records[0].Version != "1.00" {
		t.Errorf("missing Version column should default to 1.00, got %+v", records)
	}
}

func TestCSVSourceMissingColumns(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, "/bad.csv", "ID,Name\nCUSA00012,Game\n")

	src, _ := Get("csv")
	if _, err := src.Parse(fsys, "/bad.csv"); err == nil {
		t.Error("expected error for missing Title_ID column")
	}
}

func TestCSVSourceMatches(t *testing.T) {
	src, _ := Get("csv")
	if !src.Matches("titles.csv") || !src.Matches("TITLES.CSV") {
		t.Error("csv extension not claimed")
	}
	if src.Matches("titles.json") || src.Matches("titles.csv.bak") {
		t.Error("foreign extension claimed")
	}
}
