package catalog

import (
	"testing"

	"github.com/spf13/afero"
)

func TestJSONSourceParse(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, "/updates.json", `{
	  "results": [
	    {"status": "found", "title_id": "CUSA00012", "title_name": "DC Universe Online",
	     "latest_version": "0126", "updates": {"v": 1}},
	    {"status": "found", "title_id": "CUSA11111", "title_name": "",
	     "sony_game_name": "Fallback Name", "latest_version": "", "updates": [{"version": "01.00"}]},
	    {"status": "found", "title_id": "CUSA22222", "title_name": "No Updates Key"},
	    {"status": "found", "title_id": "CUSA44444", "title_name": "Empty Updates", "updates": {}},
	    {"status": "found", "title_id": "CUSA55555", "title_name": "Null Updates", "updates": null},
	    {"status": "not_found", "title_id": "CUSA33333", "title_name": "Missing Game",
	     "updates": {"v": 1}},
	    {"status": "found", "title_id": "garbage", "title_name": "Bad ID", "updates": {"v": 1}}
	  ]
	}`)

	src, err := Get("json")
	if err != nil {
		t.Fatal(err)
	}
	records, err := src.Parse(fsys, "/updates.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Record{
		{TitleID: "CUSA00012", Name: "DC Universe Online", Version: "0126", Source: "updates.json"},
		{TitleID: "CUSA11111", Name: "Fallback Name", Version: "1.00", Source: "updates.json"},
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

func TestJSONSourceNoResults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, "/empty.json", `{"something_else": true}`)

	src, _ := Get("json")
	records, err := src.Parse(fsys, "/empty.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %+v", records)
	}
}

func TestJSONSourceMalformed(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, "/bad.json", "{not valid")

	src, _ := Get("json")
	if _, err := src.Parse(fsys, "/bad.json"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestSourceOrder(t *testing.T) {
	list := List()
	if len(list) < 2 {
		t.Fatalf("expected csv and json sources registered, got %d", len(list))
	}
	if list[0].Name() != "csv" || list[1].Name() != "json" {
		t.Errorf("ingestion order = [%s %s], want [csv json]", list[0].Name(), list[1].Name())
	}
}
