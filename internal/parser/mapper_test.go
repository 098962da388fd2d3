package parser

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"voteinfo/internal/models"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

// mutate decodes a fixture into generic maps, applies fn and re-encodes it.
func mutate(t *testing.T, name string, fn func(doc map[string]any)) []byte {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal(readFixture(t, name), &doc); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	fn(doc)
	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return out
}

func obj(v any, keys ...any) map[string]any {
	for _, k := range keys {
		switch k := k.(type) {
		case string:
			v = v.(map[string]any)[k]
		case int:
			v = v.([]any)[k]
		}
	}
	return v.(map[string]any)
}

func requireParseError(t *testing.T, err error, sentinel error) *ParseError {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %v, got %v", sentinel, err)
	}
	return perr
}

func TestParseNational_Fixture(t *testing.T) {
	data, err := ParseNational(readFixture(t, "national.json"))
	if err != nil {
		t.Fatalf("ParseNational: %v", err)
	}

	if data.VotingDay != "20240922" || data.Country.LevelName != "Schweiz" || data.Country.LevelNumber != 0 {
		t.Errorf("unexpected header: %+v", data)
	}
	if len(data.Country.Issues) != 2 {
		t.Fatalf("want 2 issues, got %d", len(data.Country.Issues))
	}

	bio := data.Country.Issues[0]
	if bio.ID != 6720 || !bio.DoubleMajority || !bio.Accepted || bio.Provisional {
		t.Errorf("unexpected issue flags: %+v", bio)
	}
	if bio.ReserveInfoText != nil {
		t.Errorf("reserveInfoText null should be absent, got %q", *bio.ReserveInfoText)
	}
	wantTally := models.CantonsTally{YesFull: 3, FullCount: 20, HalfCount: 6}
	if diff := cmp.Diff(wantTally, bio.CantonsTally); diff != "" {
		t.Errorf("cantons tally (-want +got):\n%s", diff)
	}
	wantOutcome := models.Outcome{CountCompleted: true, YesVotes: 144000, NoVotes: 128000, CastBallotPapers: 275700, EligibleVoters: 535000}
	if bio.Outcome != wantOutcome {
		t.Errorf("outcome: want %+v, got %+v", wantOutcome, bio.Outcome)
	}
	if _, ok := bio.Title(models.LangRM); ok {
		t.Error("blank rm title should be absent")
	}
	if title, ok := bio.Title(models.LangFR); !ok || !strings.Contains(title, "Initiative biodiversité") {
		t.Errorf("fr title: %q", title)
	}

	zh, ok := bio.Canton("1")
	if !ok {
		t.Fatal("Zürich missing")
	}
	districts, ok := zh.Subdivisions.Districts()
	if !ok || len(districts) != 2 || districts[1].LevelName != "Bezirk Zürich" {
		t.Errorf("Zürich districts: %+v", districts)
	}

	be, _ := bio.Canton("2")
	communes, ok := be.Subdivisions.Communes()
	if !ok || len(communes) != 2 || communes[0].ParentLevelNumber != "2" {
		t.Errorf("Bern communes: %+v", communes)
	}

	bs, _ := bio.Canton("12")
	if bs.Subdivisions.Kind() != models.NoSubdivisions {
		t.Errorf("Basel-Stadt should report no subdivisions, got %s", bs.Subdivisions.Kind())
	}

	bvg := data.Country.Issues[1]
	if bvg.ReserveInfoText == nil || *bvg.ReserveInfoText != "Hochrechnung" {
		t.Errorf("reserveInfoText: %v", bvg.ReserveInfoText)
	}
	zhBVG, _ := bvg.Canton("1")
	kreise, ok := zhBVG.Subdivisions.Constituencies()
	if !ok || len(kreise) != 2 || kreise[0].LevelNumber != "261001" {
		t.Errorf("Zürich constituencies: %+v", kreise)
	}
}

func TestParseCantonal_Fixture(t *testing.T) {
	data, err := ParseCantonal(readFixture(t, "cantonal.json"))
	if err != nil {
		t.Fatalf("ParseCantonal: %v", err)
	}
	if len(data.Cantons) != 3 {
		t.Fatalf("want 3 cantons, got %d", len(data.Cantons))
	}

	zh, ok := data.Canton(1)
	if !ok || len(zh.Issues) != 1 {
		t.Fatalf("Zürich: %+v", zh)
	}
	housing := zh.Issues[0]
	if housing.ParentID != nil {
		t.Errorf("null hauptvorlagenId should be absent, got %d", *housing.ParentID)
	}
	if housing.Subdivisions.Kind() != models.DistrictLevel {
		t.Errorf("empty gemeinden next to bezirke should not conflict, got %s", housing.Subdivisions.Kind())
	}

	// geoLevelnummer published as a string
	bs, ok := data.Canton(12)
	if !ok || len(bs.Issues) != 2 {
		t.Fatalf("Basel-Stadt: %+v", bs)
	}
	communes, ok := bs.Issues[0].Subdivisions.Communes()
	if !ok || communes[0].LevelNumber != "2701" || communes[0].ParentLevelNumber != "12" {
		t.Errorf("numeric commune numbers should be read as text: %+v", communes)
	}
	counter, _ := bs.Issue(6752)
	if counter.ParentID == nil || *counter.ParentID != 6751 {
		t.Errorf("counter proposal parent: %v", counter.ParentID)
	}

	ge, _ := data.Canton(25)
	if !ge.NoInformationYet || len(ge.Issues) != 0 || ge.Issues == nil {
		t.Errorf("Genève: %+v", ge)
	}
}

func TestNational_RoundTrip(t *testing.T) {
	original, err := ParseNational(readFixture(t, "national.json"))
	if err != nil {
		t.Fatalf("ParseNational: %v", err)
	}
	encoded, err := EncodeNational(original)
	if err != nil {
		t.Fatalf("EncodeNational: %v", err)
	}
	again, err := ParseNational(encoded)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, encoded)
	}
	if diff := cmp.Diff(original, again); diff != "" {
		t.Errorf("round trip mismatch (-original +reparsed):\n%s", diff)
	}
}

func TestCantonal_RoundTrip(t *testing.T) {
	original, err := ParseCantonal(readFixture(t, "cantonal.json"))
	if err != nil {
		t.Fatalf("ParseCantonal: %v", err)
	}
	encoded, err := EncodeCantonal(original)
	if err != nil {
		t.Fatalf("EncodeCantonal: %v", err)
	}
	again, err := ParseCantonal(encoded)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, encoded)
	}
	if diff := cmp.Diff(original, again); diff != "" {
		t.Errorf("round trip mismatch (-original +reparsed):\n%s", diff)
	}
}

func TestEncodeNational_PublishedKeys(t *testing.T) {
	data, err := ParseNational(readFixture(t, "national.json"))
	if err != nil {
		t.Fatal(err)
	}
	out, err := EncodeNational(data)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{
		`"schweiz":{"geoLevelnummer":0,`,
		`"geoLevelnummer":"1"`,
		`"gebietAusgezaehlt":true`,
		`"jaStimmenAbsolut":144000`,
		`"eingelegteStimmzettel":275700`,
		`"zaehlkreise":[`,
		`"langKey":"de"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded output lacks %s", want)
		}
	}
	if strings.Contains(s, "jaStimmenInProzent") {
		t.Error("unknown keys should not be re-emitted")
	}
}

func TestParseNational_MissingField(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(doc map[string]any)
		wantPath string
	}{
		{
			name: "yes votes of a canton",
			mutate: func(doc map[string]any) {
				delete(obj(doc, "schweiz", "vorlagen", 0, "kantone", 1, "resultat"), "jaStimmenAbsolut")
			},
			wantPath: "schweiz.vorlagen[0].kantone[1].resultat.jaStimmenAbsolut",
		},
		{
			name: "commune parent",
			mutate: func(doc map[string]any) {
				delete(obj(doc, "schweiz", "vorlagen", 0, "kantone", 1, "gemeinden", 1), "geoLevelParentnummer")
			},
			wantPath: "schweiz.vorlagen[0].kantone[1].gemeinden[1].geoLevelParentnummer",
		},
		{
			name: "cantons tally",
			mutate: func(doc map[string]any) {
				delete(obj(doc, "schweiz", "vorlagen", 1), "staende")
			},
			wantPath: "schweiz.vorlagen[1].staende",
		},
		{
			name: "parent issue of a federal issue",
			mutate: func(doc map[string]any) {
				obj(doc, "schweiz", "vorlagen", 0)["hauptvorlagenId"] = nil
			},
			wantPath: "schweiz.vorlagen[0].hauptvorlagenId",
		},
		{
			name: "country",
			mutate: func(doc map[string]any) {
				delete(doc, "schweiz")
			},
			wantPath: "schweiz",
		},
		{
			name: "voting day",
			mutate: func(doc map[string]any) {
				delete(doc, "abstimmtag")
			},
			wantPath: "abstimmtag",
		},
		{
			name: "issues list",
			mutate: func(doc map[string]any) {
				delete(obj(doc, "schweiz"), "vorlagen")
			},
			wantPath: "schweiz.vorlagen",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNational(mutate(t, "national.json", tt.mutate))
			perr := requireParseError(t, err, ErrMissingField)
			if perr.Path != tt.wantPath {
				t.Errorf("path: want %q, got %q", tt.wantPath, perr.Path)
			}
		})
	}
}

func TestParseNational_InvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(doc map[string]any)
		wantPath string
	}{
		{
			name: "unknown language",
			mutate: func(doc map[string]any) {
				obj(doc, "schweiz", "vorlagen", 1, "vorlagenTitel", 0)["langKey"] = "xx"
			},
			wantPath: "schweiz.vorlagen[1].vorlagenTitel[0].langKey",
		},
		{
			name: "boolean level number",
			mutate: func(doc map[string]any) {
				obj(doc, "schweiz", "vorlagen", 0, "kantone", 0, "bezirke", 0)["geoLevelnummer"] = true
			},
			wantPath: "schweiz.vorlagen[0].kantone[0].bezirke[0].geoLevelnummer",
		},
		{
			name: "country level number out of range",
			mutate: func(doc map[string]any) {
				obj(doc, "schweiz")["geoLevelnummer"] = 300
			},
			wantPath: "schweiz.geoLevelnummer",
		},
		{
			name: "fractional level number",
			mutate: func(doc map[string]any) {
				obj(doc, "schweiz", "vorlagen", 0, "kantone", 2)["geoLevelnummer"] = 1.5
			},
			wantPath: "schweiz.vorlagen[0].kantone[2].geoLevelnummer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNational(mutate(t, "national.json", tt.mutate))
			perr := requireParseError(t, err, ErrInvalidValue)
			if perr.Path != tt.wantPath {
				t.Errorf("path: want %q, got %q", tt.wantPath, perr.Path)
			}
		})
	}
}

func TestParseNational_ScalarTypeMismatch(t *testing.T) {
	const yesVotes = "schweiz.vorlagen[0].kantone[1].resultat.jaStimmenAbsolut"
	tests := []struct {
		name     string
		key      string
		value    any
		wantPath string
	}{
		{name: "negative count", key: "jaStimmenAbsolut", value: -1, wantPath: yesVotes},
		{name: "text count", key: "jaStimmenAbsolut", value: "abc", wantPath: yesVotes},
		{name: "count overflow", key: "jaStimmenAbsolut", value: 5000000000, wantPath: yesVotes},
		{name: "fractional count", key: "jaStimmenAbsolut", value: 1.5, wantPath: yesVotes},
		{
			name:     "text completion flag",
			key:      "gebietAusgezaehlt",
			value:    "yes",
			wantPath: "schweiz.vorlagen[0].kantone[1].resultat.gebietAusgezaehlt",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := mutate(t, "national.json", func(doc map[string]any) {
				obj(doc, "schweiz", "vorlagen", 0, "kantone", 1, "resultat")[tt.key] = tt.value
			})
			_, err := ParseNational(text)
			perr := requireParseError(t, err, ErrInvalidValue)
			if perr.Path != tt.wantPath {
				t.Errorf("path: want %q, got %q", tt.wantPath, perr.Path)
			}
		})
	}
}

func TestParseNational_IssueScalarTypeMismatch(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(doc map[string]any)
		wantPath string
	}{
		{
			name: "cantons tally above 255",
			mutate: func(doc map[string]any) {
				obj(doc, "schweiz", "vorlagen", 0, "staende")["jaStaendeGanz"] = 256
			},
			wantPath: "schweiz.vorlagen[0].staende.jaStaendeGanz",
		},
		{
			name: "text issue id",
			mutate: func(doc map[string]any) {
				obj(doc, "schweiz", "vorlagen", 1)["vorlagenId"] = "6730"
			},
			wantPath: "schweiz.vorlagen[1].vorlagenId",
		},
		{
			name: "numeric reserve text",
			mutate: func(doc map[string]any) {
				obj(doc, "schweiz", "vorlagen", 1)["reserveInfoText"] = 7
			},
			wantPath: "schweiz.vorlagen[1].reserveInfoText",
		},
		{
			name: "numeric voting day",
			mutate: func(doc map[string]any) {
				doc["abstimmtag"] = 20240922
			},
			wantPath: "abstimmtag",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNational(mutate(t, "national.json", tt.mutate))
			perr := requireParseError(t, err, ErrInvalidValue)
			if perr.Path != tt.wantPath {
				t.Errorf("path: want %q, got %q", tt.wantPath, perr.Path)
			}
		})
	}
}

func TestParseNational_TextLevelNumberIsDecimal(t *testing.T) {
	tests := []struct {
		value   string
		want    uint8
		wantErr bool
	}{
		{value: "0", want: 0},
		{value: "010", want: 10},
		{value: "09", want: 9},
		{value: " 7 ", want: 7},
		{value: "0x1A", wantErr: true},
		{value: "1_0", wantErr: true},
		{value: "-1", wantErr: true},
		{value: "256", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			text := mutate(t, "national.json", func(doc map[string]any) {
				obj(doc, "schweiz")["geoLevelnummer"] = tt.value
			})
			data, err := ParseNational(text)
			if tt.wantErr {
				perr := requireParseError(t, err, ErrInvalidValue)
				if perr.Path != "schweiz.geoLevelnummer" {
					t.Errorf("path: got %q", perr.Path)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNational: %v", err)
			}
			if data.Country.LevelNumber != tt.want {
				t.Errorf("level number: want %d, got %d", tt.want, data.Country.LevelNumber)
			}
		})
	}
}

func TestParseNational_Malformed(t *testing.T) {
	for _, text := range []string{`{"abstimmtag": `, ``, `not json`} {
		_, err := ParseNational([]byte(text))
		perr := requireParseError(t, err, ErrMalformedJSON)
		if perr.Path != RootPath {
			t.Errorf("%q: path: want %q, got %q", text, RootPath, perr.Path)
		}
	}
}

func TestParseNational_ConflictingSubdivisions(t *testing.T) {
	text := mutate(t, "national.json", func(doc map[string]any) {
		zh := obj(doc, "schweiz", "vorlagen", 0, "kantone", 0)
		be := obj(doc, "schweiz", "vorlagen", 0, "kantone", 1)
		zh["gemeinden"] = be["gemeinden"]
	})
	_, err := ParseNational(text)
	perr := requireParseError(t, err, ErrConflictingSubdivisions)
	if perr.Path != "schweiz.vorlagen[0].kantone[0]" {
		t.Errorf("path: got %q", perr.Path)
	}
	if !strings.Contains(perr.Error(), "bezirke, gemeinden") {
		t.Errorf("error should name the conflicting levels: %v", perr)
	}
}

func TestParseNational_AbsentSubdivisionForms(t *testing.T) {
	text := mutate(t, "national.json", func(doc map[string]any) {
		bs := obj(doc, "schweiz", "vorlagen", 0, "kantone", 2)
		bs["bezirke"] = []any{}
		bs["gemeinden"] = nil
		bs["geoLevelnummer"] = 12
	})
	data, err := ParseNational(text)
	if err != nil {
		t.Fatalf("ParseNational: %v", err)
	}
	bs, ok := data.Country.Issues[0].Canton("12")
	if !ok {
		t.Fatal("numeric canton number should be read as text")
	}
	if bs.Subdivisions.Kind() != models.NoSubdivisions {
		t.Errorf("want none, got %s", bs.Subdivisions.Kind())
	}
}

func TestParseCantonal_MissingField(t *testing.T) {
	text := mutate(t, "cantonal.json", func(doc map[string]any) {
		delete(obj(doc, "kantone", 1), "vorlagen")
	})
	_, err := ParseCantonal(text)
	perr := requireParseError(t, err, ErrMissingField)
	if perr.Path != "kantone[1].vorlagen" {
		t.Errorf("path: got %q", perr.Path)
	}

	text = mutate(t, "cantonal.json", func(doc map[string]any) {
		delete(obj(doc, "kantone", 1, "vorlagen", 0, "gemeinden", 1, "resultat"), "anzahlStimmberechtigte")
	})
	_, err = ParseCantonal(text)
	perr = requireParseError(t, err, ErrMissingField)
	if perr.Path != "kantone[1].vorlagen[0].gemeinden[1].resultat.anzahlStimmberechtigte" {
		t.Errorf("path: got %q", perr.Path)
	}
}

func TestParseCantonal_NationalDocumentIsRejected(t *testing.T) {
	_, err := ParseCantonal(readFixture(t, "national.json"))
	perr := requireParseError(t, err, ErrMissingField)
	if perr.Path != "kantone" {
		t.Errorf("path: got %q", perr.Path)
	}
}

func TestParseNational_Concurrent(t *testing.T) {
	text := readFixture(t, "national.json")
	want, err := ParseNational(text)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]models.NationalData, 8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = ParseNational(text)
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("parse %d: %v", i, errs[i])
		}
		if !cmp.Equal(want, results[i]) {
			t.Errorf("parse %d differs", i)
		}
	}
}

func TestParseError_Message(t *testing.T) {
	err := NewParseError("", ErrMissingField)
	if err.Path != RootPath {
		t.Errorf("empty path should become %q, got %q", RootPath, err.Path)
	}
	err = &ParseError{Path: "schweiz", Offset: 17, Err: ErrInvalidValue}
	if got := err.Error(); got != "parse error at schweiz (offset 17): invalid value" {
		t.Errorf("Error(): %q", got)
	}
}
