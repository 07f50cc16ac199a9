// Package types provides type definitions for structured data used throughout the persona-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// StoryboardFrames is the number of storyboard images generated per persona.
const StoryboardFrames = 3

// GoogleAd is one search-ad variant written for a persona.
type GoogleAd struct {
	Headline1    string  `json:"headline1"`
	Headline2    string  `json:"headline2"`
	Headline3    *string `json:"headline3,omitempty"`
	Description1 string  `json:"description1"`
	Description2 *string `json:"description2,omitempty"`
}

// ImagePrompts holds the prompts used to illustrate a persona.
type ImagePrompts struct {
	Storyboard    []string `json:"storyboard"`
	SocialMediaAd string   `json:"socialMediaAd"`
}

// PersonaScaffold is a persona as produced by the text model, before its images are resolved.
type PersonaScaffold struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	Age                   int          `json:"age"`
	Occupation            string       `json:"occupation"`
	Demographics          string       `json:"demographics"`
	Goals                 []string     `json:"goals"`
	Challenges            []string     `json:"challenges"`
	Motivations           []string     `json:"motivations"`
	CommunicationChannels []string     `json:"communicationChannels"`
	DetailedDescription   string       `json:"detailedDescription"`
	GoogleAds             []GoogleAd   `json:"googleAds"`
	SocialMediaAdText     string       `json:"socialMediaAdText"`
	ImagePrompts          ImagePrompts `json:"imagePrompts"`
}

// SocialMediaAd is the square ad image together with its copy.
type SocialMediaAd struct {
	Image string `json:"image"`
	Text  string `json:"text"`
}

// Persona is the display-ready persona with resolved images.
type Persona struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	Age                   int           `json:"age"`
	Occupation            string        `json:"occupation"`
	Demographics          string        `json:"demographics"`
	Goals                 []string      `json:"goals"`
	Challenges            []string      `json:"challenges"`
	Motivations           []string      `json:"motivations"`
	CommunicationChannels []string      `json:"communicationChannels"`
	DetailedDescription   string        `json:"detailedDescription"`
	GoogleAds             []GoogleAd    `json:"googleAds"`
	StoryboardImages      []string      `json:"storyboardImages"`
	SocialMediaAd         SocialMediaAd `json:"socialMediaAd"`
}

// NewPersona merges a scaffold with its resolved images.
// storyboard must hold exactly StoryboardFrames entries; missing entries are filled with placeholder.
func NewPersona(s PersonaScaffold, storyboard []string, socialImage, placeholder string) Persona {
	images := make([]string, StoryboardFrames)
	for i := range images {
		if i < len(storyboard) && storyboard[i] != "" {
			images[i] = storyboard[i]
		} else {
			images[i] = placeholder
		}
	}
	if socialImage == "" {
		socialImage = placeholder
	}

	return Persona{
		ID:                    s.ID,
		Name:                  s.Name,
		Age:                   s.Age,
		Occupation:            s.Occupation,
		Demographics:          s.Demographics,
		Goals:                 cloneStrings(s.Goals),
		Challenges:            cloneStrings(s.Challenges),
		Motivations:           cloneStrings(s.Motivations),
		CommunicationChannels: cloneStrings(s.CommunicationChannels),
		DetailedDescription:   s.DetailedDescription,
		GoogleAds:             append([]GoogleAd{}, s.GoogleAds...),
		StoryboardImages:      images,
		SocialMediaAd: SocialMediaAd{
			Image: socialImage,
			Text:  s.SocialMediaAdText,
		},
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
