package models

import (
	"testing"
	"time"
)

func TestValidateDatasetKind(t *testing.T) {
	for _, k := range DatasetKinds {
		if err := ValidateDatasetKind(k); err != nil {
			t.Errorf("%s: %v", k, err)
		}
	}
	if err := ValidateDatasetKind("communal"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestDatasetSource_Validate(t *testing.T) {
	s := DatasetSource{Kind: KindNational}
	if err := s.Validate(); err == nil {
		t.Error("expected error for missing url")
	}
	s.URL = "https://ogd-static.voteinfo-app.ch/v1/ogd/sd-t-17-02-20240922-eidgAbstimmung.json"
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNationalData_Dates(t *testing.T) {
	d := NationalData{VotingDay: "20240922", Timestamp: "2024-09-22T17:45:03+02:00"}

	day, err := d.Day()
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if !day.Equal(time.Date(2024, 9, 22, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Day: got %v", day)
	}
	published, err := d.PublishedAt()
	if err != nil {
		t.Fatalf("PublishedAt: %v", err)
	}
	if published.Hour() != 17 || published.Minute() != 45 {
		t.Errorf("PublishedAt: got %v", published)
	}
}

func TestCantonalData_TimestampWithoutZone(t *testing.T) {
	d := CantonalData{Timestamp: "2024-09-22T17:45:03"}
	if _, err := d.PublishedAt(); err != nil {
		t.Errorf("PublishedAt: %v", err)
	}
	d.Timestamp = "yesterday"
	if _, err := d.PublishedAt(); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}
