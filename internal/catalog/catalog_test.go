package catalog

import (
	"testing"

	"github.com/spf13/afero"
)

func TestExtractTitleID(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"CUSA00012", "CUSA00012", true},
		{"Game Name (CUSA11111) [US]", "CUSA11111", true},
		{"prefix PCSE01234 suffix", "PCSE01234", true},
		{"CUSA00012 and CUSA99999", "CUSA00012", true},
		{"cusa00012", "", false},
		{"CUS00012", "", false},
		{"CUSA", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ExtractTitleID(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ExtractTitleID(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestStoreLastWriteWins(t *testing.T) {
	store := NewStore()

	n := store.Ingest([]Record{
		{TitleID: "CUSA00012", Name: "Old Name", Version: "0100", Source: "a.csv"},
		{TitleID: "CUSA00013", Name: "Other Game", Version: "0200", Source: "a.csv"},
	})
	if n != 2 {
		t.Fatalf("first Ingest = %d, want 2", n)
	}

	n = store.Ingest([]Record{
		{TitleID: "CUSA00012", Name: "New Name", Version: "0126", Source: "b.json"},
	})
	if n != 1 {
		t.Fatalf("second Ingest = %d, want 1", n)
	}

	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2 distinct titles", store.Len())
	}

	rec, ok := store.Lookup("CUSA00012")
	if !ok {
		t.Fatal("Lookup(CUSA00012) missed")
	}
	if rec.Name != "New Name" || rec.Version != "0126" || rec.Source != "b.json" {
		t.Errorf("overwrite not applied, got %+v", rec)
	}

	ows := store.Overwrites()
	if len(ows) != 1 {
		t.Fatalf("Overwrites = %+v, want one entry", ows)
	}
	if ows[0] != (Overwrite{TitleID: "CUSA00012", OldSource: "a.csv", NewSource: "b.json"}) {
		t.Errorf("Overwrites[0] = %+v", ows[0])
	}

	if _, ok := store.Lookup("CUSA99999"); ok {
		t.Error("Lookup of unknown ID reported a hit")
	}
}

func TestStoreRecordsSorted(t *testing.T) {
	store := NewStore()
	store.Ingest([]Record{
		{TitleID: "CUSA00300", Name: "C"},
		{TitleID: "CUSA00100", Name: "A"},
		{TitleID: "CUSA00200", Name: "B"},
	})

	recs := store.Records()
	if len(recs) != 3 {
		t.Fatalf("Records len = %d, want 3", len(recs))
	}
	for i, want := range []string{"CUSA00100", "CUSA00200", "CUSA00300"} {
		if recs[i].TitleID != want {
			t.Errorf("Records[%d].TitleID = %s, want %s", i, recs[i].TitleID, want)
		}
	}
}

func TestLoadDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	write := func(name, body string) {
		if err := afero.WriteFile(fsys, "/catalogs/"+name, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("b.csv", "Title_ID,Title_Name,Version\nCUSA00012,CSV Name,0100\nCUSA00020,Only In CSV,0200\n")
	write("a.csv", "Title_ID,Title_Name\nCUSA00030,Early Game\n")
	write("updates.json", `{"results":[
		{"status":"found","title_id":"CUSA00012","title_name":"JSON Name","latest_version":"0126","updates":{"v":1}}
	]}`)
	write("broken.json", "{not json")
	write("notes.txt", "ignored")

	store := NewStore()
	results, err := LoadDir(fsys, "/catalogs", store)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	// CSV files first (sorted), then JSON files (sorted).
	wantOrder := []string{"/catalogs/a.csv", "/catalogs/b.csv", "/catalogs/broken.json", "/catalogs/updates.json"}
	if len(results) != len(wantOrder) {
		t.Fatalf("got %d results, want %d", len(results), len(wantOrder))
	}
	for i, want := range wantOrder {
		if results[i].File != want {
			t.Errorf("results[%d].File = %s, want %s", i, results[i].File, want)
		}
	}

	for _, res := range results {
		switch res.File {
		case "/catalogs/broken.json":
			if res.Err == nil {
				t.Error("broken.json loaded without error")
			}
			if res.Records != 0 {
				t.Errorf("broken.json contributed %d records", res.Records)
			}
		default:
			if res.Err != nil {
				t.Errorf("%s: unexpected error %v", res.File, res.Err)
			}
		}
	}

	if store.Len() != 3 {
		t.Errorf("store Len = %d, want 3", store.Len())
	}

	// JSON loads after CSV, so it wins the shared identifier.
	rec, ok := store.Lookup("CUSA00012")
	if !ok || rec.Name != "JSON Name" || rec.Version != "0126" {
		t.Errorf("JSON precedence not applied, got %+v (ok=%v)", rec, ok)
	}
}

func TestDiscoverFilesMissingDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if _, err := DiscoverFiles(fsys, "/nope"); err == nil {
		t.Error("expected error for missing catalog dir")
	}
}
