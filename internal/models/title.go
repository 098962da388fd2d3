package models

import (
	"fmt"
	"strings"
)

// Lang is a language tag of an issue title, in its published lowercase form.
type Lang string

const (
	LangDE Lang = "de"
	LangFR Lang = "fr"
	LangIT Lang = "it"
	LangRM Lang = "rm"
	LangEN Lang = "en"
)

// DefaultLangs is the fallback order used when no language is requested.
var DefaultLangs = []Lang{LangDE, LangFR, LangIT, LangRM, LangEN}

// ParseLang accepts a language tag in any letter case.
func ParseLang(s string) (Lang, error) {
	l := Lang(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LangDE, LangFR, LangIT, LangRM, LangEN:
		return l, nil
	default:
		return "", fmt.Errorf("unknown language %q", s)
	}
}

// IssueTitle is the title of an issue in one language. Text may be blank
// when the translation has not been published yet.
type IssueTitle struct {
	Lang Lang   `json:"lang"`
	Text string `json:"text"`
}

// Titles is the ordered list of an issue's titles.
type Titles []IssueTitle

// Get returns the first title in lang whose text is not blank.
func (t Titles) Get(lang Lang) (string, bool) {
	for _, title := range t {
		if title.Lang == lang && strings.TrimSpace(title.Text) != "" {
			return title.Text, true
		}
	}
	return "", false
}

// Preferred returns the first available title following langs in order.
func (t Titles) Preferred(langs ...Lang) (string, Lang, bool) {
	for _, lang := range langs {
		if text, ok := t.Get(lang); ok {
			return text, lang, true
		}
	}
	return "", "", false
}
