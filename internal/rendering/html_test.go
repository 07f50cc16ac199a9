package rendering

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/persona-studio/internal/types"
)

func samplePersona() types.Persona {
	h3 := "Third <b>headline</b>"
	return types.Persona{
		ID:                  "persona-1",
		Name:                "Anna <Innovator>",
		Age:                 34,
		Occupation:          "Product Manager",
		Demographics:        "Berlin",
		Goals:               []string{"Ship faster"},
		Challenges:          []string{},
		DetailedDescription: "Leads a team.",
		GoogleAds:           []types.GoogleAd{{Headline1: "H1", Headline2: "H2", Headline3: &h3, Description1: "D1"}},
		StoryboardImages: []string{
			"data:image/jpeg;base64,AAAA",
			"https://picsum.photos/500/500?grayscale&blur=2",
			"javascript:alert(1)",
		},
		SocialMediaAd: types.SocialMediaAd{Image: "data:image/jpeg;base64,BBBB", Text: "Buy now"},
	}
}

func parse(t *testing.T, doc Document) *goquery.Document {
	t.Helper()
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	require.NoError(t, err)
	return parsed
}

func TestCardID(t *testing.T) {
	assert.Equal(t, "persona-card-persona-1", CardID("persona-1"))
	assert.Equal(t, "persona-card-a-b-c", CardID("a b#c"))
}

func TestRenderCard(t *testing.T) {
	doc, err := RenderCard(samplePersona())
	require.NoError(t, err)
	page := parse(t, doc)

	card := page.Find("#persona-card-persona-1")
	require.Equal(t, 1, card.Length())
	assert.Equal(t, "Anna <Innovator>", card.Find("h2").Text())
	assert.Contains(t, card.Find(".ad strong").Text(), "Third <b>headline</b>")
	assert.Contains(t, doc.HTML, CardBackground)

	imgs := card.Find(".storyboard img")
	require.Equal(t, 3, imgs.Length())
	src0, _ := imgs.Eq(0).Attr("src")
	assert.Equal(t, "data:image/jpeg;base64,AAAA", src0)
	src1, _ := imgs.Eq(1).Attr("src")
	assert.Equal(t, "https://picsum.photos/500/500?grayscale&blur=2", src1)
	src2, _ := imgs.Eq(2).Attr("src")
	assert.Equal(t, "about:blank", src2)

	social, _ := card.Find(".social img").Attr("src")
	assert.Equal(t, "data:image/jpeg;base64,BBBB", social)
	assert.Equal(t, "None listed.", card.Find("p.meta").Last().Text())
}

func TestRenderResults(t *testing.T) {
	second := samplePersona()
	second.ID = "persona-2"
	sub := &types.Submission{
		Input:    types.CompanyInput{Name: "Acme"},
		Personas: []types.Persona{samplePersona(), second},
	}

	doc, err := RenderResults(sub, "/submissions/abc/personas")
	require.NoError(t, err)
	assert.Equal(t, "Personas for Acme", doc.Title)

	page := parse(t, doc)
	assert.Equal(t, 2, page.Find(".persona-card").Length())
	href, _ := page.Find("a").Last().Attr("href")
	assert.Equal(t, "/submissions/abc/personas/persona-2/export", href)
	assert.Equal(t, 0, page.Find(".advisory").Length())
}

func TestRenderResults_Advisory(t *testing.T) {
	sub := &types.Submission{Input: types.CompanyInput{Name: "Acme"}, Personas: []types.Persona{}, Advisory: "no personas produced"}
	doc, err := RenderResults(sub, "")
	require.NoError(t, err)
	assert.Equal(t, "no personas produced", parse(t, doc).Find(".advisory").Text())

	_, err = RenderResults(nil, "")
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestRenderForm(t *testing.T) {
	doc, err := RenderForm(FormData{
		Action:        "/personas",
		Input:         types.CompanyInput{Name: "Acme"},
		Error:         "Company description is required",
		MaxFiles:      5,
		MaxFileSizeMB: 50,
		Accept:        ".txt,.md,.pdf,.docx",
	})
	require.NoError(t, err)
	page := parse(t, doc)

	value, _ := page.Find("input[name=companyName]").Attr("value")
	assert.Equal(t, "Acme", value)
	assert.Equal(t, "Company description is required", page.Find(".error").Text())
	action, _ := page.Find("form").Attr("action")
	assert.Equal(t, "/personas", action)
}

func TestFindRegion(t *testing.T) {
	doc, err := RenderCard(samplePersona())
	require.NoError(t, err)

	sel, ok, err := FindRegion(doc, "persona-card-persona-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "section", goquery.NodeName(sel))

	_, ok, err = FindRegion(doc, "persona-card-missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
