package pubmed

import (
	"errors"
	"strings"
	"testing"
)

const sampleEfetchXML = `<?xml version="1.0" ?>
<!DOCTYPE PubmedArticleSet PUBLIC "-//NLM//DTD PubMedArticle, 1st January 2024//EN" "https://dtd.nlm.nih.gov/ncbi/pubmed/out/pubmed_240101.dtd">
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation Status="MEDLINE" Owner="NLM">
      <PMID Version="1">33283989</PMID>
      <Article PubModel="Print-Electronic">
        <Journal>
          <Title>The New England journal of medicine</Title>
          <JournalIssue CitedMedium="Internet">
            <Volume>384</Volume>
            <Issue>3</Issue>
            <PubDate>
              <Year>2021</Year>
              <Month>01</Month>
              <Day>21</Day>
            </PubDate>
          </JournalIssue>
        </Journal>
        <ArticleTitle>CRISPR-Cas9 Gene Editing for Sickle Cell Disease and β-Thalassemia.</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Transfusion-dependent β-thalassemia and sickle cell disease are severe monogenic diseases.</AbstractText>
          <AbstractText Label="METHODS">We performed electroporation of CD34+ cells with CRISPR-Cas9 targeting BCL11A.</AbstractText>
        </Abstract>
        <AuthorList CompleteYN="Y">
          <Author ValidYN="Y">
            <LastName>Frangoul</LastName>
            <ForeName>Haydar</ForeName>
            <Initials>H</Initials>
          </Author>
          <Author ValidYN="Y">
            <LastName>Altshuler</LastName>
            <ForeName>David</ForeName>
            <Initials>D</Initials>
          </Author>
          <Author ValidYN="Y">
            <CollectiveName>CTX001 Study Group</CollectiveName>
          </Author>
        </AuthorList>
        <ArticleDate DateType="Electronic">
          <Year>2020</Year>
          <Month>12</Month>
          <Day>05</Day>
        </ArticleDate>
      </Article>
      <MeshHeadingList>
        <MeshHeading>
          <DescriptorName UI="D000741" MajorTopicYN="N">Anemia, Sickle Cell</DescriptorName>
        </MeshHeading>
        <MeshHeading>
          <DescriptorName UI="D064112" MajorTopicYN="Y">Gene Editing</DescriptorName>
        </MeshHeading>
      </MeshHeadingList>
      <KeywordList Owner="NOTNLM">
        <Keyword MajorTopicYN="N">CRISPR</Keyword>
        <Keyword MajorTopicYN="N">gene therapy</Keyword>
      </KeywordList>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="pubmed">33283989</ArticleId>
        <ArticleId IdType="doi">10.1056/NEJMoa2031054</ArticleId>
        <ArticleId IdType="pii">NEJMoa2031054</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
</PubmedArticleSet>`

func TestParseArticles(t *testing.T) {
	articles, err := parseArticles([]byte(sampleEfetchXML))
	if err != nil {
		t.Fatalf("parseArticles: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}

	a := articles[0]
	if a.PMID != "33283989" {
		t.Errorf("PMID = %q", a.PMID)
	}
	if a.Title != "CRISPR-Cas9 Gene Editing for Sickle Cell Disease and β-Thalassemia." {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Journal != "The New England journal of medicine" {
		t.Errorf("Journal = %q", a.Journal)
	}
	if !strings.Contains(a.Abstract, "monogenic diseases") || !strings.Contains(a.Abstract, "electroporation") {
		t.Errorf("Abstract should contain both segments: %q", a.Abstract)
	}
	if strings.Contains(a.Abstract, "  ") {
		t.Errorf("segments should be joined with single spaces: %q", a.Abstract)
	}
	// The collective-name entry is skipped.
	if len(a.Authors) != 2 {
		t.Fatalf("len(Authors) = %d, want 2", len(a.Authors))
	}
	if a.Authors[0] != "Haydar Frangoul" {
		t.Errorf("Authors[0] = %q", a.Authors[0])
	}
	if a.Authors[1] != "David Altshuler" {
		t.Errorf("Authors[1] = %q", a.Authors[1])
	}
	if len(a.MeshTerms) != 2 || a.MeshTerms[0] != "Anemia, Sickle Cell" {
		t.Errorf("MeshTerms = %v", a.MeshTerms)
	}
	if len(a.Keywords) != 2 || a.Keywords[1] != "gene therapy" {
		t.Errorf("Keywords = %v", a.Keywords)
	}
	if a.DOI != "10.1056/NEJMoa2031054" {
		t.Errorf("DOI = %q", a.DOI)
	}
	if a.PublicationDate == nil || a.PublicationDate.String() != "2020-12-05" {
		t.Errorf("PublicationDate = %v, want 2020-12-05", a.PublicationDate)
	}
	if a.JournalDate == nil || a.JournalDate.String() != "2021-01-21" {
		t.Errorf("JournalDate = %v, want 2021-01-21", a.JournalDate)
	}
	if a.URL() != "https://pubmed.ncbi.nlm.nih.gov/33283989/" {
		t.Errorf("URL() = %q", a.URL())
	}
}

func TestParseArticlesMinimal(t *testing.T) {
	xml := `<PubmedArticleSet><PubmedArticle><MedlineCitation><PMID>12345</PMID><Article><ArticleTitle>Minimal Record</ArticleTitle></Article></MedlineCitation></PubmedArticle></PubmedArticleSet>`

	articles, err := parseArticles([]byte(xml))
	if err != nil {
		t.Fatalf("parseArticles: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}

	a := articles[0]
	if a.PMID != "12345" || a.Title != "Minimal Record" {
		t.Errorf("got PMID=%q Title=%q", a.PMID, a.Title)
	}
	if a.Abstract != "" || a.Journal != "" || a.DOI != "" {
		t.Errorf("optional strings should be empty: %+v", a)
	}
	if len(a.Authors) != 0 || len(a.MeshTerms) != 0 || len(a.Keywords) != 0 {
		t.Errorf("optional lists should be empty: %+v", a)
	}
	if a.PublicationDate != nil || a.JournalDate != nil {
		t.Errorf("dates should be absent, got %v / %v", a.PublicationDate, a.JournalDate)
	}
}

func TestParseArticlesEmptySet(t *testing.T) {
	articles, err := parseArticles([]byte(`<PubmedArticleSet></PubmedArticleSet>`))
	if err != nil {
		t.Fatalf("parseArticles: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("len(articles) = %d, want 0", len(articles))
	}
}

func TestParseArticlesMalformed(t *testing.T) {
	_, err := parseArticles([]byte(`<PubmedArticleSet><broken`))
	if err == nil {
		t.Fatal("expected error for malformed XML")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("err = %T, want *ParseError", err)
	}
}

func TestParseArticlesAuthorNames(t *testing.T) {
	xml := `<PubmedArticleSet><PubmedArticle><MedlineCitation><PMID>1</PMID><Article>
<AuthorList>
<Author><LastName>Smith</LastName><ForeName>Jane</ForeName></Author>
<Author><LastName>Lee</LastName></Author>
<Author><ForeName>Orphan</ForeName></Author>
</AuthorList>
</Article></MedlineCitation></PubmedArticle></PubmedArticleSet>`

	articles, err := parseArticles([]byte(xml))
	if err != nil {
		t.Fatalf("parseArticles: %v", err)
	}

	authors := articles[0].Authors
	if len(authors) != 2 {
		t.Fatalf("Authors = %v, want 2 entries", authors)
	}
	if authors[0] != "Jane Smith" {
		t.Errorf("Authors[0] = %q, want %q", authors[0], "Jane Smith")
	}
	// A last name alone is kept without a leading space.
	if authors[1] != "Lee" {
		t.Errorf("Authors[1] = %q, want %q", authors[1], "Lee")
	}
}

func TestParseArticlesNoDOI(t *testing.T) {
	xml := `<PubmedArticleSet><PubmedArticle>
<MedlineCitation><PMID>2</PMID><Article><ArticleTitle>No DOI</ArticleTitle></Article></MedlineCitation>
<PubmedData><ArticleIdList>
<ArticleId IdType="pubmed">2</ArticleId>
<ArticleId IdType="pii">S0000-0000(00)00000-0</ArticleId>
</ArticleIdList></PubmedData>
</PubmedArticle></PubmedArticleSet>`

	articles, err := parseArticles([]byte(xml))
	if err != nil {
		t.Fatalf("parseArticles: %v", err)
	}
	if articles[0].DOI != "" {
		t.Errorf("DOI = %q, want empty", articles[0].DOI)
	}
}

func TestParseDateElement(t *testing.T) {
	tests := []struct {
		name string
		in   dateElementXML
		want string // empty means no date
	}{
		{"full numeric", dateElementXML{Year: "2021", Month: "01", Day: "21"}, "2021-01-21"},
		{"month name", dateElementXML{Year: "2020", Month: "Dec", Day: "5"}, "2020-12-05"},
		{"year only", dateElementXML{Year: "2019"}, "2019-01-01"},
		{"no year", dateElementXML{Month: "06", Day: "15"}, ""},
		{"junk year", dateElementXML{Year: "n/a", Month: "06"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDateElement(tt.in)
			if tt.want == "" {
				if got != nil {
					t.Errorf("parseDateElement = %v, want nil", got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("parseDateElement = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestMonthNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"1", 1},
		{"01", 1},
		{"12", 12},
		{"Jun", 6},
		{"JUN", 6},
		{"June", 6},
		{"dec", 12},
		{"0", 1},
		{"13", 1},
		{"", 1},
		{"Winter", 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := monthNumber(tt.input); got != tt.want {
				t.Errorf("monthNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDayNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"5", 5},
		{"05", 5},
		{"31", 31},
		{"", 1},
		{"0", 1},
		{"xx", 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := dayNumber(tt.input); got != tt.want {
				t.Errorf("dayNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
