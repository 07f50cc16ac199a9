package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlaceholder = "https://placeholder.example/img.png"

func sampleScaffold() PersonaScaffold {
	h3 := "Try it free"
	return PersonaScaffold{
		ID:                    "persona-ewa",
		Name:                  "Ewa Manager",
		Age:                   38,
		Occupation:            "Marketing Manager",
		Demographics:          "City, married",
		Goals:                 []string{"Raise ROI"},
		Challenges:            []string{"Small budget"},
		Motivations:           []string{"Results"},
		CommunicationChannels: []string{"LinkedIn"},
		DetailedDescription:   "Ewa is ambitious.",
		GoogleAds:             []GoogleAd{{Headline1: "A", Headline2: "B", Headline3: &h3, Description1: "C"}},
		SocialMediaAdText:     "Break the routine!",
		ImagePrompts: ImagePrompts{
			Storyboard:    []string{"one", "two", "three"},
			SocialMediaAd: "square",
		},
	}
}

func TestNewPersona_MergesScaffold(t *testing.T) {
	s := sampleScaffold()
	p := NewPersona(s, []string{"img1", "img2", "img3"}, "social", testPlaceholder)

	assert.Equal(t, s.ID, p.ID)
	assert.Equal(t, s.Name, p.Name)
	assert.Equal(t, 38, p.Age)
	assert.Equal(t, []string{"img1", "img2", "img3"}, p.StoryboardImages)
	assert.Equal(t, SocialMediaAd{Image: "social", Text: "Break the routine!"}, p.SocialMediaAd)
	require.Len(t, p.GoogleAds, 1)
	assert.Equal(t, "Try it free", *p.GoogleAds[0].Headline3)
}

func TestNewPersona_AlwaysThreeStoryboardImages(t *testing.T) {
	tests := []struct {
		name       string
		storyboard []string
		want       []string
	}{
		{name: "nil", storyboard: nil, want: []string{testPlaceholder, testPlaceholder, testPlaceholder}},
		{name: "short", storyboard: []string{"a"}, want: []string{"a", testPlaceholder, testPlaceholder}},
		{name: "empty entry", storyboard: []string{"a", "", "c"}, want: []string{"a", testPlaceholder, "c"}},
		{name: "long", storyboard: []string{"a", "b", "c", "d"}, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPersona(sampleScaffold(), tt.storyboard, "", testPlaceholder)
			assert.Len(t, p.StoryboardImages, StoryboardFrames)
			assert.Equal(t, tt.want, p.StoryboardImages)
			assert.Equal(t, testPlaceholder, p.SocialMediaAd.Image)
		})
	}
}

func TestNewPersona_DoesNotAliasScaffold(t *testing.T) {
	s := sampleScaffold()
	p := NewPersona(s, nil, "", testPlaceholder)

	s.Goals[0] = "changed"
	assert.Equal(t, "Raise ROI", p.Goals[0])
}

func TestSubmission_FindPersona(t *testing.T) {
	sub := Submission{
		ID: uuid.New(),
		Personas: []Persona{
			{ID: "p1", Name: "One"},
			{ID: "p2", Name: "Two"},
		},
	}

	found := sub.FindPersona("p2")
	require.NotNil(t, found)
	assert.Equal(t, "Two", found.Name)
	assert.Nil(t, sub.FindPersona("missing"))
}
