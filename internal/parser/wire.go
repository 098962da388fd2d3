package parser

import "github.com/goccy/go-json"

// Wire shapes of the published documents. Scalars are kept raw and converted
// by reader, so a missing key is told apart from a zero value and a value of
// the wrong type is reported at its own path. geoLevelnummer in particular is
// published both as a string and as a number.

type wireOutcome struct {
	GebietAusgezaehlt      json.RawMessage `json:"gebietAusgezaehlt"`
	JaStimmenAbsolut       json.RawMessage `json:"jaStimmenAbsolut"`
	NeinStimmenAbsolut     json.RawMessage `json:"neinStimmenAbsolut"`
	EingelegteStimmzettel  json.RawMessage `json:"eingelegteStimmzettel"`
	AnzahlStimmberechtigte json.RawMessage `json:"anzahlStimmberechtigte"`
}

type wireDistrict struct {
	GeoLevelnummer json.RawMessage `json:"geoLevelnummer"`
	GeoLevelname   json.RawMessage `json:"geoLevelname"`
	Resultat       *wireOutcome    `json:"resultat"`
}

type wireCommune struct {
	GeoLevelnummer       json.RawMessage `json:"geoLevelnummer"`
	GeoLevelname         json.RawMessage `json:"geoLevelname"`
	GeoLevelParentnummer json.RawMessage `json:"geoLevelParentnummer"`
	Resultat             *wireOutcome    `json:"resultat"`
}

type wireSubdivisions struct {
	Bezirke     []wireDistrict `json:"bezirke,omitempty"`
	Gemeinden   []wireCommune  `json:"gemeinden,omitempty"`
	Zaehlkreise []wireCommune  `json:"zaehlkreise,omitempty"`
}

type wireTitle struct {
	LangKey json.RawMessage `json:"langKey"`
	Text    json.RawMessage `json:"text"`
}

type wireCantonsTally struct {
	JaStaendeGanz     json.RawMessage `json:"jaStaendeGanz"`
	NeinStaendeGanz   json.RawMessage `json:"neinStaendeGanz"`
	AnzahlStaendeGanz json.RawMessage `json:"anzahlStaendeGanz"`
	JaStaendeHalb     json.RawMessage `json:"jaStaendeHalb"`
	NeinStaendeHalb   json.RawMessage `json:"neinStaendeHalb"`
	AnzahlStaendeHalb json.RawMessage `json:"anzahlStaendeHalb"`
}

// national dataset

type wireNationalCanton struct {
	GeoLevelnummer json.RawMessage `json:"geoLevelnummer"`
	GeoLevelname   json.RawMessage `json:"geoLevelname"`
	Resultat       *wireOutcome    `json:"resultat"`
	wireSubdivisions
}

type wireNationalIssue struct {
	VorlagenID         json.RawMessage       `json:"vorlagenId"`
	ReihenfolgeAnzeige json.RawMessage       `json:"reihenfolgeAnzeige"`
	VorlagenTitel      *[]wireTitle          `json:"vorlagenTitel"`
	VorlageBeendet     json.RawMessage       `json:"vorlageBeendet"`
	Provisorisch       json.RawMessage       `json:"provisorisch"`
	VorlageAngenommen  json.RawMessage       `json:"vorlageAngenommen"`
	VorlagenArtID      json.RawMessage       `json:"vorlagenArtId"`
	HauptvorlagenID    json.RawMessage       `json:"hauptvorlagenId"`
	ReserveInfoText    json.RawMessage       `json:"reserveInfoText,omitempty"`
	DoppeltesMehr      json.RawMessage       `json:"doppeltesMehr"`
	Staende            *wireCantonsTally     `json:"staende"`
	Resultat           *wireOutcome          `json:"resultat"`
	Kantone            *[]wireNationalCanton `json:"kantone"`
}

type wireCountry struct {
	GeoLevelnummer       json.RawMessage      `json:"geoLevelnummer"`
	GeoLevelname         json.RawMessage      `json:"geoLevelname"`
	NochKeineInformation json.RawMessage      `json:"nochKeineInformation"`
	Vorlagen             *[]wireNationalIssue `json:"vorlagen"`
}

type wireNationalData struct {
	Abstimmtag json.RawMessage `json:"abstimmtag"`
	Timestamp  json.RawMessage `json:"timestamp"`
	Schweiz    *wireCountry    `json:"schweiz"`
}

// cantonal dataset

type wireCantonalIssue struct {
	VorlagenID         json.RawMessage `json:"vorlagenId"`
	ReihenfolgeAnzeige json.RawMessage `json:"reihenfolgeAnzeige"`
	VorlagenTitel      *[]wireTitle    `json:"vorlagenTitel"`
	VorlageBeendet     json.RawMessage `json:"vorlageBeendet"`
	VorlageAngenommen  json.RawMessage `json:"vorlageAngenommen"`
	VorlagenArtID      json.RawMessage `json:"vorlagenArtId"`
	HauptvorlagenID    json.RawMessage `json:"hauptvorlagenId,omitempty"`
	Resultat           *wireOutcome    `json:"resultat"`
	wireSubdivisions
}

type wireCanton struct {
	GeoLevelnummer       json.RawMessage      `json:"geoLevelnummer"`
	GeoLevelname         json.RawMessage      `json:"geoLevelname"`
	NochKeineInformation json.RawMessage      `json:"nochKeineInformation"`
	Vorlagen             *[]wireCantonalIssue `json:"vorlagen"`
}

type wireCantonalData struct {
	Abstimmtag json.RawMessage `json:"abstimmtag"`
	Timestamp  json.RawMessage `json:"timestamp"`
	Kantone    *[]wireCanton   `json:"kantone"`
}
