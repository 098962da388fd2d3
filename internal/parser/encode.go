package parser

import (
	"strconv"

	"github.com/goccy/go-json"

	"voteinfo/internal/models"
)

func rawString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func rawNumber[T uint8 | uint32](n T) json.RawMessage {
	return json.RawMessage(strconv.FormatUint(uint64(n), 10))
}

func rawBool(b bool) json.RawMessage {
	return json.RawMessage(strconv.FormatBool(b))
}

func rawOptional[T any](v *T, raw func(T) json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	return raw(*v)
}

func wireOutcomeOf(o models.Outcome) *wireOutcome {
	return &wireOutcome{
		GebietAusgezaehlt:      rawBool(o.CountCompleted),
		JaStimmenAbsolut:       rawNumber(o.YesVotes),
		NeinStimmenAbsolut:     rawNumber(o.NoVotes),
		EingelegteStimmzettel:  rawNumber(o.CastBallotPapers),
		AnzahlStimmberechtigte: rawNumber(o.EligibleVoters),
	}
}

func wireTitlesOf(titles models.Titles) *[]wireTitle {
	out := make([]wireTitle, 0, len(titles))
	for _, t := range titles {
		out = append(out, wireTitle{LangKey: rawString(string(t.Lang)), Text: rawString(t.Text)})
	}
	return &out
}

func wireCommuneOf(c models.Commune) wireCommune {
	return wireCommune{
		GeoLevelnummer:       rawString(c.LevelNumber),
		GeoLevelname:         rawString(c.LevelName),
		GeoLevelParentnummer: rawString(c.ParentLevelNumber),
		Resultat:             wireOutcomeOf(c.Outcome),
	}
}

func wireSubdivisionsOf(s models.Subdivisions) wireSubdivisions {
	var w wireSubdivisions
	if districts, ok := s.Districts(); ok {
		for _, d := range districts {
			w.Bezirke = append(w.Bezirke, wireDistrict{
				GeoLevelnummer: rawString(d.LevelNumber),
				GeoLevelname:   rawString(d.LevelName),
				Resultat:       wireOutcomeOf(d.Outcome),
			})
		}
	}
	if communes, ok := s.Communes(); ok {
		for _, c := range communes {
			w.Gemeinden = append(w.Gemeinden, wireCommuneOf(c))
		}
	}
	if constituencies, ok := s.Constituencies(); ok {
		for _, c := range constituencies {
			w.Zaehlkreise = append(w.Zaehlkreise, wireCommuneOf(models.Commune(c)))
		}
	}
	return w
}

func wireNationalDataOf(d models.NationalData) *wireNationalData {
	issues := make([]wireNationalIssue, 0, len(d.Country.Issues))
	for _, issue := range d.Country.Issues {
		cantons := make([]wireNationalCanton, 0, len(issue.Cantons))
		for _, c := range issue.Cantons {
			cantons = append(cantons, wireNationalCanton{
				GeoLevelnummer:   rawString(c.LevelNumber),
				GeoLevelname:     rawString(c.LevelName),
				Resultat:         wireOutcomeOf(c.Outcome),
				wireSubdivisions: wireSubdivisionsOf(c.Subdivisions),
			})
		}
		t := issue.CantonsTally
		issues = append(issues, wireNationalIssue{
			VorlagenID:         rawNumber(issue.ID),
			ReihenfolgeAnzeige: rawNumber(issue.DisplayOrder),
			VorlagenTitel:      wireTitlesOf(issue.Titles),
			VorlageBeendet:     rawBool(issue.Completed),
			Provisorisch:       rawBool(issue.Provisional),
			VorlageAngenommen:  rawBool(issue.Accepted),
			VorlagenArtID:      rawNumber(issue.TypeID),
			HauptvorlagenID:    rawNumber(issue.ParentID),
			ReserveInfoText:    rawOptional(issue.ReserveInfoText, rawString),
			DoppeltesMehr:      rawBool(issue.DoubleMajority),
			Staende: &wireCantonsTally{
				JaStaendeGanz:     rawNumber(t.YesFull),
				NeinStaendeGanz:   rawNumber(t.NoFull),
				AnzahlStaendeGanz: rawNumber(t.FullCount),
				JaStaendeHalb:     rawNumber(t.YesHalf),
				NeinStaendeHalb:   rawNumber(t.NoHalf),
				AnzahlStaendeHalb: rawNumber(t.HalfCount),
			},
			Resultat: wireOutcomeOf(issue.Outcome),
			Kantone:  &cantons,
		})
	}
	return &wireNationalData{
		Abstimmtag: rawString(d.VotingDay),
		Timestamp:  rawString(d.Timestamp),
		Schweiz: &wireCountry{
			GeoLevelnummer:       rawNumber(d.Country.LevelNumber),
			GeoLevelname:         rawString(d.Country.LevelName),
			NochKeineInformation: rawBool(d.Country.NoInformationYet),
			Vorlagen:             &issues,
		},
	}
}

func wireCantonalDataOf(d models.CantonalData) *wireCantonalData {
	cantons := make([]wireCanton, 0, len(d.Cantons))
	for _, c := range d.Cantons {
		issues := make([]wireCantonalIssue, 0, len(c.Issues))
		for _, issue := range c.Issues {
			issues = append(issues, wireCantonalIssue{
				VorlagenID:         rawNumber(issue.ID),
				ReihenfolgeAnzeige: rawNumber(issue.DisplayOrder),
				VorlagenTitel:      wireTitlesOf(issue.Titles),
				VorlageBeendet:     rawBool(issue.Completed),
				VorlageAngenommen:  rawBool(issue.Accepted),
				VorlagenArtID:      rawNumber(issue.TypeID),
				HauptvorlagenID:    rawOptional(issue.ParentID, rawNumber[uint32]),
				Resultat:           wireOutcomeOf(issue.Outcome),
				wireSubdivisions:   wireSubdivisionsOf(issue.Subdivisions),
			})
		}
		cantons = append(cantons, wireCanton{
			GeoLevelnummer:       rawNumber(c.LevelNumber),
			GeoLevelname:         rawString(c.LevelName),
			NochKeineInformation: rawBool(c.NoInformationYet),
			Vorlagen:             &issues,
		})
	}
	return &wireCantonalData{
		Abstimmtag: rawString(d.VotingDay),
		Timestamp:  rawString(d.Timestamp),
		Kantone:    &cantons,
	}
}
