// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/pdiddy/pubmed-client/pkg/types"
)

// efetch XML structures. Only the elements the parser reads are mapped;
// the decoder ignores everything else.
type pubmedArticleSet struct {
	Articles []pubmedArticleXML `xml:"PubmedArticle"`
}

type pubmedArticleXML struct {
	Citation medlineCitationXML `xml:"MedlineCitation"`
	Data     pubmedDataXML      `xml:"PubmedData"`
}

type medlineCitationXML struct {
	PMID         string           `xml:"PMID"`
	Article      articleXML       `xml:"Article"`
	MeshHeadings []meshHeadingXML `xml:"MeshHeadingList>MeshHeading"`
	KeywordLists []keywordListXML `xml:"KeywordList"`
}

type articleXML struct {
	Title        string           `xml:"ArticleTitle"`
	Journal      journalXML       `xml:"Journal"`
	AbstractText []string         `xml:"Abstract>AbstractText"`
	Authors      []authorXML      `xml:"AuthorList>Author"`
	ArticleDates []dateElementXML `xml:"ArticleDate"`
}

type journalXML struct {
	Title   string         `xml:"Title"`
	PubDate dateElementXML `xml:"JournalIssue>PubDate"`
}

type dateElementXML struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`
}

type authorXML struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

type meshHeadingXML struct {
	Descriptor string `xml:"DescriptorName"`
}

type keywordListXML struct {
	Keywords []string `xml:"Keyword"`
}

type pubmedDataXML struct {
	ArticleIDs []articleIDXML `xml:"ArticleIdList>ArticleId"`
}

type articleIDXML struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

// parseArticles decodes an efetch response body into articles. A document
// that does not decode is a ParseError; individual missing fields are not.
func parseArticles(data []byte) ([]types.Article, error) {
	var set pubmedArticleSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, &ParseError{Message: "decoding efetch response", Err: err}
	}

	articles := make([]types.Article, 0, len(set.Articles))
	for _, raw := range set.Articles {
		articles = append(articles, buildArticle(raw))
	}
	return articles, nil
}

// buildArticle extracts the fields of one record. Every field is optional:
// whatever is present is used, whatever is absent stays at its zero value.
func buildArticle(raw pubmedArticleXML) types.Article {
	elem := raw.Citation.Article

	a := types.Article{
		PMID:     strings.TrimSpace(raw.Citation.PMID),
		Title:    strings.TrimSpace(elem.Title),
		Journal:  strings.TrimSpace(elem.Journal.Title),
		Abstract: joinSegments(elem.AbstractText),
	}

	for _, author := range elem.Authors {
		last := strings.TrimSpace(author.LastName)
		if last == "" {
			// Collective names and incomplete entries are skipped.
			continue
		}
		a.Authors = append(a.Authors, strings.TrimSpace(strings.TrimSpace(author.ForeName)+" "+last))
	}

	for _, mh := range raw.Citation.MeshHeadings {
		if term := strings.TrimSpace(mh.Descriptor); term != "" {
			a.MeshTerms = append(a.MeshTerms, term)
		}
	}

	for _, list := range raw.Citation.KeywordLists {
		for _, kw := range list.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				a.Keywords = append(a.Keywords, kw)
			}
		}
	}

	for _, id := range raw.Data.ArticleIDs {
		if id.IDType == "doi" {
			a.DOI = strings.TrimSpace(id.Value)
			break
		}
	}

	if len(elem.ArticleDates) > 0 {
		a.PublicationDate = parseDateElement(elem.ArticleDates[0])
	}
	a.JournalDate = parseDateElement(elem.Journal.PubDate)

	return a
}

// joinSegments joins abstract segments with single spaces, dropping empties.
func joinSegments(segments []string) string {
	var parts []string
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// parseDateElement builds a date from raw element text. A date with no
// parseable year is absent; unrecognized months and missing days fall
// back to 1.
func parseDateElement(d dateElementXML) *types.Date {
	year, err := strconv.Atoi(strings.TrimSpace(d.Year))
	if err != nil {
		return nil
	}
	return types.NewDate(year, monthNumber(d.Month), dayNumber(d.Day))
}

var monthAbbrevs = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// monthNumber converts a numeric or English-abbreviated month to 1-12.
// Anything unrecognized or out of range falls back to 1.
func monthNumber(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return n
		}
		return 1
	}
	if len(s) >= 3 {
		if n, ok := monthAbbrevs[strings.ToLower(s[:3])]; ok {
			return n
		}
	}
	return 1
}

// dayNumber converts a day string, defaulting to 1 when absent or invalid.
func dayNumber(s string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 1 {
		return n
	}
	return 1
}
