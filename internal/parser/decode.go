package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"voteinfo/internal/models"
)

// path is a field path built from published keys.
type path string

func (p path) key(k string) path {
	if p == "" {
		return path(k)
	}
	return p + "." + path(k)
}

func (p path) index(i int) path {
	return p + path("["+strconv.Itoa(i)+"]")
}

// decodeJSON unmarshals text and translates decoder failures into a
// *ParseError.
func decodeJSON(text []byte, v any) error {
	if err := json.Unmarshal(text, v); err != nil {
		return translateDecodeError(err)
	}
	return nil
}

func translateDecodeError(err error) *ParseError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		p := strings.TrimPrefix(typeErr.Field, ".")
		return &ParseError{
			Path:   orRoot(p),
			Offset: typeErr.Offset,
			Err:    fmt.Errorf("%w: cannot use %s as %v", ErrInvalidValue, typeErr.Value, typeErr.Type),
		}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{
			Path:   RootPath,
			Offset: syntaxErr.Offset,
			Err:    fmt.Errorf("%w: %v", ErrMalformedJSON, err),
		}
	}
	return &ParseError{Path: RootPath, Err: fmt.Errorf("%w: %v", ErrMalformedJSON, err)}
}

func orRoot(p string) string {
	if p == "" {
		return RootPath
	}
	return p
}

// reader converts wire shapes into models, keeping the first failure.
type reader struct {
	err error
}

func (r *reader) fail(p path, err error) {
	if r.err == nil {
		r.err = NewParseError(string(p), err)
	}
}

func list[T any](r *reader, p path, v *[]T) []T {
	if v == nil {
		r.fail(p, ErrMissingField)
		return nil
	}
	return *v
}

// scalar decodes a raw level number into a string or float64.
func (r *reader) scalar(p path, raw json.RawMessage) (any, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		r.fail(p, ErrMissingField)
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		r.fail(p, fmt.Errorf("%w: %v", ErrInvalidValue, err))
		return nil, false
	}
	switch n := v.(type) {
	case string:
		return strings.TrimSpace(n), true
	case float64:
		if n < 0 || n != math.Trunc(n) {
			r.fail(p, fmt.Errorf("%w: level number %s", ErrInvalidValue, raw))
			return nil, false
		}
		return n, true
	default:
		r.fail(p, fmt.Errorf("%w: level number %s", ErrInvalidValue, raw))
		return nil, false
	}
}

// levelID reads an identifier-like level number as text.
func (r *reader) levelID(p path, raw json.RawMessage) string {
	v, ok := r.scalar(p, raw)
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		r.fail(p, fmt.Errorf("%w: level number %s", ErrInvalidValue, raw))
		return ""
	}
	return s
}

// levelNumber reads a small numeric level number. Text forms are read as
// plain decimal.
func (r *reader) levelNumber(p path, raw json.RawMessage) uint8 {
	v, ok := r.scalar(p, raw)
	if !ok {
		return 0
	}
	var (
		n   uint64
		err error
	)
	switch v := v.(type) {
	case string:
		n, err = strconv.ParseUint(v, 10, 8)
	default:
		n, err = cast.ToUint64E(v)
	}
	if err != nil || n > math.MaxUint8 {
		r.fail(p, fmt.Errorf("%w: level number %s", ErrInvalidValue, raw))
		return 0
	}
	return uint8(n)
}

func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func (r *reader) required(p path, raw json.RawMessage) bool {
	if absent(raw) {
		r.fail(p, ErrMissingField)
		return false
	}
	return true
}

func invalid(raw json.RawMessage, want string) error {
	s := string(raw)
	if len(s) > 32 {
		s = s[:32] + "..."
	}
	return fmt.Errorf("%w: %s is not %s", ErrInvalidValue, s, want)
}

func (r *reader) text(p path, raw json.RawMessage) string {
	if !r.required(p, raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		r.fail(p, invalid(raw, "a string"))
		return ""
	}
	return s
}

func (r *reader) optionalText(p path, raw json.RawMessage) *string {
	if absent(raw) {
		return nil
	}
	s := r.text(p, raw)
	return &s
}

func (r *reader) flag(p path, raw json.RawMessage) bool {
	if !r.required(p, raw) {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		r.fail(p, invalid(raw, "a boolean"))
		return false
	}
	return b
}

// count reads a decimal integer in [0, limit].
func (r *reader) count(p path, raw json.RawMessage, limit uint64) uint64 {
	if !r.required(p, raw) {
		return 0
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil || n > limit {
		r.fail(p, invalid(raw, "an integer between 0 and "+strconv.FormatUint(limit, 10)))
		return 0
	}
	return n
}

func (r *reader) integer32(p path, raw json.RawMessage) uint32 {
	return uint32(r.count(p, raw, math.MaxUint32))
}

func (r *reader) optionalInteger32(p path, raw json.RawMessage) *uint32 {
	if absent(raw) {
		return nil
	}
	n := r.integer32(p, raw)
	return &n
}

func (r *reader) integer8(p path, raw json.RawMessage) uint8 {
	return uint8(r.count(p, raw, math.MaxUint8))
}

func (r *reader) outcome(p path, w *wireOutcome) models.Outcome {
	if w == nil {
		r.fail(p, ErrMissingField)
		return models.Outcome{}
	}
	return models.Outcome{
		CountCompleted:   r.flag(p.key("gebietAusgezaehlt"), w.GebietAusgezaehlt),
		YesVotes:         r.integer32(p.key("jaStimmenAbsolut"), w.JaStimmenAbsolut),
		NoVotes:          r.integer32(p.key("neinStimmenAbsolut"), w.NeinStimmenAbsolut),
		CastBallotPapers: r.integer32(p.key("eingelegteStimmzettel"), w.EingelegteStimmzettel),
		EligibleVoters:   r.integer32(p.key("anzahlStimmberechtigte"), w.AnzahlStimmberechtigte),
	}
}

func (r *reader) titles(p path, w *[]wireTitle) models.Titles {
	in := list(r, p, w)
	out := make(models.Titles, 0, len(in))
	for i, t := range in {
		tp := p.index(i)
		key := r.text(tp.key("langKey"), t.LangKey)
		text := r.text(tp.key("text"), t.Text)
		if r.err != nil {
			return out
		}
		lang, err := models.ParseLang(key)
		if err != nil {
			r.fail(tp.key("langKey"), fmt.Errorf("%w: %v", ErrInvalidValue, err))
			return out
		}
		out = append(out, models.IssueTitle{Lang: lang, Text: text})
	}
	return out
}

func (r *reader) districts(p path, in []wireDistrict) []models.District {
	out := make([]models.District, 0, len(in))
	for i, d := range in {
		dp := p.index(i)
		out = append(out, models.District{
			LevelNumber: r.levelID(dp.key("geoLevelnummer"), d.GeoLevelnummer),
			LevelName:   r.text(dp.key("geoLevelname"), d.GeoLevelname),
			Outcome:     r.outcome(dp.key("resultat"), d.Resultat),
		})
	}
	return out
}

func (r *reader) communes(p path, in []wireCommune) []models.Commune {
	out := make([]models.Commune, 0, len(in))
	for i, c := range in {
		cp := p.index(i)
		out = append(out, models.Commune{
			LevelNumber:       r.levelID(cp.key("geoLevelnummer"), c.GeoLevelnummer),
			LevelName:         r.text(cp.key("geoLevelname"), c.GeoLevelname),
			ParentLevelNumber: r.levelID(cp.key("geoLevelParentnummer"), c.GeoLevelParentnummer),
			Outcome:           r.outcome(cp.key("resultat"), c.Resultat),
		})
	}
	return out
}

// subdivisions enforces that at most one granularity is populated.
func (r *reader) subdivisions(p path, w wireSubdivisions) models.Subdivisions {
	var populated []string
	if len(w.Bezirke) > 0 {
		populated = append(populated, "bezirke")
	}
	if len(w.Gemeinden) > 0 {
		populated = append(populated, "gemeinden")
	}
	if len(w.Zaehlkreise) > 0 {
		populated = append(populated, "zaehlkreise")
	}
	if len(populated) > 1 {
		r.fail(p, fmt.Errorf("%w: %s", ErrConflictingSubdivisions, strings.Join(populated, ", ")))
		return models.Subdivisions{}
	}

	switch {
	case len(w.Bezirke) > 0:
		return models.DistrictSubdivisions(r.districts(p.key("bezirke"), w.Bezirke))
	case len(w.Gemeinden) > 0:
		return models.CommuneSubdivisions(r.communes(p.key("gemeinden"), w.Gemeinden))
	case len(w.Zaehlkreise) > 0:
		communes := r.communes(p.key("zaehlkreise"), w.Zaehlkreise)
		constituencies := make([]models.Constituency, len(communes))
		for i, c := range communes {
			constituencies[i] = models.Constituency(c)
		}
		return models.ConstituencySubdivisions(constituencies)
	}
	return models.Subdivisions{}
}

func (r *reader) cantonsTally(p path, w *wireCantonsTally) models.CantonsTally {
	if w == nil {
		r.fail(p, ErrMissingField)
		return models.CantonsTally{}
	}
	return models.CantonsTally{
		YesFull:   r.integer8(p.key("jaStaendeGanz"), w.JaStaendeGanz),
		NoFull:    r.integer8(p.key("neinStaendeGanz"), w.NeinStaendeGanz),
		FullCount: r.integer8(p.key("anzahlStaendeGanz"), w.AnzahlStaendeGanz),
		YesHalf:   r.integer8(p.key("jaStaendeHalb"), w.JaStaendeHalb),
		NoHalf:    r.integer8(p.key("neinStaendeHalb"), w.NeinStaendeHalb),
		HalfCount: r.integer8(p.key("anzahlStaendeHalb"), w.AnzahlStaendeHalb),
	}
}

func (r *reader) nationalData(w *wireNationalData) models.NationalData {
	d := models.NationalData{
		VotingDay: r.text("abstimmtag", w.Abstimmtag),
		Timestamp: r.text("timestamp", w.Timestamp),
	}
	if w.Schweiz == nil {
		r.fail("schweiz", ErrMissingField)
		return d
	}
	d.Country = r.country("schweiz", w.Schweiz)
	return d
}

func (r *reader) country(p path, w *wireCountry) models.Country {
	c := models.Country{
		LevelNumber:      r.levelNumber(p.key("geoLevelnummer"), w.GeoLevelnummer),
		LevelName:        r.text(p.key("geoLevelname"), w.GeoLevelname),
		NoInformationYet: r.flag(p.key("nochKeineInformation"), w.NochKeineInformation),
	}
	ip := p.key("vorlagen")
	issues := list(r, ip, w.Vorlagen)
	c.Issues = make([]models.NationalIssue, 0, len(issues))
	for i := range issues {
		c.Issues = append(c.Issues, r.nationalIssue(ip.index(i), &issues[i]))
		if r.err != nil {
			break
		}
	}
	return c
}

func (r *reader) nationalIssue(p path, w *wireNationalIssue) models.NationalIssue {
	issue := models.NationalIssue{
		ID:              r.integer32(p.key("vorlagenId"), w.VorlagenID),
		DisplayOrder:    r.integer32(p.key("reihenfolgeAnzeige"), w.ReihenfolgeAnzeige),
		Titles:          r.titles(p.key("vorlagenTitel"), w.VorlagenTitel),
		Completed:       r.flag(p.key("vorlageBeendet"), w.VorlageBeendet),
		Provisional:     r.flag(p.key("provisorisch"), w.Provisorisch),
		Accepted:        r.flag(p.key("vorlageAngenommen"), w.VorlageAngenommen),
		TypeID:          r.integer32(p.key("vorlagenArtId"), w.VorlagenArtID),
		ParentID:        r.integer32(p.key("hauptvorlagenId"), w.HauptvorlagenID),
		ReserveInfoText: r.optionalText(p.key("reserveInfoText"), w.ReserveInfoText),
		DoubleMajority:  r.flag(p.key("doppeltesMehr"), w.DoppeltesMehr),
		CantonsTally:    r.cantonsTally(p.key("staende"), w.Staende),
		Outcome:         r.outcome(p.key("resultat"), w.Resultat),
	}
	kp := p.key("kantone")
	cantons := list(r, kp, w.Kantone)
	issue.Cantons = make([]models.CantonResult, 0, len(cantons))
	for i, c := range cantons {
		cp := kp.index(i)
		issue.Cantons = append(issue.Cantons, models.CantonResult{
			LevelNumber:  r.levelID(cp.key("geoLevelnummer"), c.GeoLevelnummer),
			LevelName:    r.text(cp.key("geoLevelname"), c.GeoLevelname),
			Outcome:      r.outcome(cp.key("resultat"), c.Resultat),
			Subdivisions: r.subdivisions(cp, c.wireSubdivisions),
		})
		if r.err != nil {
			break
		}
	}
	return issue
}

func (r *reader) cantonalData(w *wireCantonalData) models.CantonalData {
	d := models.CantonalData{
		VotingDay: r.text("abstimmtag", w.Abstimmtag),
		Timestamp: r.text("timestamp", w.Timestamp),
	}
	kp := path("kantone")
	cantons := list(r, kp, w.Kantone)
	d.Cantons = make([]models.CantonIssues, 0, len(cantons))
	for i := range cantons {
		d.Cantons = append(d.Cantons, r.canton(kp.index(i), &cantons[i]))
		if r.err != nil {
			break
		}
	}
	return d
}

func (r *reader) canton(p path, w *wireCanton) models.CantonIssues {
	c := models.CantonIssues{
		LevelNumber:      r.levelNumber(p.key("geoLevelnummer"), w.GeoLevelnummer),
		LevelName:        r.text(p.key("geoLevelname"), w.GeoLevelname),
		NoInformationYet: r.flag(p.key("nochKeineInformation"), w.NochKeineInformation),
	}
	ip := p.key("vorlagen")
	issues := list(r, ip, w.Vorlagen)
	c.Issues = make([]models.CantonalIssue, 0, len(issues))
	for i, issue := range issues {
		vp := ip.index(i)
		c.Issues = append(c.Issues, models.CantonalIssue{
			ID:           r.integer32(vp.key("vorlagenId"), issue.VorlagenID),
			DisplayOrder: r.integer32(vp.key("reihenfolgeAnzeige"), issue.ReihenfolgeAnzeige),
			Titles:       r.titles(vp.key("vorlagenTitel"), issue.VorlagenTitel),
			Completed:    r.flag(vp.key("vorlageBeendet"), issue.VorlageBeendet),
			Accepted:     r.flag(vp.key("vorlageAngenommen"), issue.VorlageAngenommen),
			TypeID:       r.integer32(vp.key("vorlagenArtId"), issue.VorlagenArtID),
			ParentID:     r.optionalInteger32(vp.key("hauptvorlagenId"), issue.HauptvorlagenID),
			Outcome:      r.outcome(vp.key("resultat"), issue.Resultat),
			Subdivisions: r.subdivisions(vp, issue.wireSubdivisions),
		})
		if r.err != nil {
			break
		}
	}
	return c
}
