package parsing

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonathan/persona-studio/internal/llm"
	"github.com/jonathan/persona-studio/internal/prompts"
	"github.com/jonathan/persona-studio/internal/types"
)

// Defaults substituted for missing or mistyped persona fields.
const (
	DefaultName                = "Unknown Persona"
	DefaultOccupation          = "Unknown occupation"
	DefaultDemographics        = "No demographic data."
	DefaultDetailedDescription = "No detailed description."
	DefaultSocialMediaAdText   = "Sample social media ad text."
	DefaultHeadline1           = "Sample Headline 1"
	DefaultHeadline2           = "Sample Headline 2"
	DefaultAdDescription       = "Sample Google Ads description."

	fallbackSubject = "persona"
)

// now is replaced in tests to make generated IDs deterministic.
var now = time.Now

// NormalizePersonas turns a raw model response into persona scaffolds.
// The response may be wrapped in a markdown code fence. A top-level array yields one scaffold per
// element, an object with a "personas" array yields one per entry, and any other value is treated
// as a single persona. Every field that is missing or has the wrong type is replaced by its default
// and reported as a FieldWarning. A response that is not valid JSON, or is null, is an error.
func NormalizePersonas(raw string) ([]types.PersonaScaffold, []FieldWarning, error) {
	var decoded any
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &decoded); err != nil {
		return nil, nil, &ParseError{Message: MalformedResponseMessage, Cause: err}
	}
	if decoded == nil {
		return nil, nil, &ParseError{Message: MalformedResponseMessage, Cause: errNullResponse}
	}

	elements := topLevelElements(decoded)
	scaffolds := make([]types.PersonaScaffold, 0, len(elements))
	var warnings []FieldWarning
	for i, element := range elements {
		d := &fieldDecoder{index: i}
		scaffolds = append(scaffolds, d.scaffold(element))
		warnings = append(warnings, d.warnings...)
	}
	return scaffolds, warnings, nil
}

func topLevelElements(decoded any) []any {
	switch v := decoded.(type) {
	case []any:
		return v
	case map[string]any:
		if list, ok := v["personas"].([]any); ok {
			return list
		}
		return []any{v}
	default:
		return []any{v}
	}
}

// fieldDecoder extracts typed fields from one decoded persona object, collecting warnings.
type fieldDecoder struct {
	index    int
	warnings []FieldWarning
}

func (d *fieldDecoder) warn(field, format string, args ...any) {
	d.warnings = append(d.warnings, FieldWarning{Index: d.index, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (d *fieldDecoder) scaffold(element any) types.PersonaScaffold {
	obj, ok := element.(map[string]any)
	if !ok {
		d.warn("", "expected object, got %s; using defaults", jsonType(element))
		obj = map[string]any{}
	}

	id := d.str(obj, "id", "")
	if id == "" {
		id = fmt.Sprintf("persona-%d-%d", now().UnixMilli(), d.index)
	}

	rawName, _ := obj["name"].(string)
	subject := rawName
	if subject == "" {
		subject = fallbackSubject
	}

	return types.PersonaScaffold{
		ID:                    id,
		Name:                  d.str(obj, "name", DefaultName),
		Age:                   d.age(obj),
		Occupation:            d.str(obj, "occupation", DefaultOccupation),
		Demographics:          d.str(obj, "demographics", DefaultDemographics),
		Goals:                 d.strings(obj, "goals"),
		Challenges:            d.strings(obj, "challenges"),
		Motivations:           d.strings(obj, "motivations"),
		CommunicationChannels: d.strings(obj, "communicationChannels"),
		DetailedDescription:   d.str(obj, "detailedDescription", DefaultDetailedDescription),
		GoogleAds:             d.googleAds(obj),
		SocialMediaAdText:     d.str(obj, "socialMediaAdText", DefaultSocialMediaAdText),
		ImagePrompts:          d.imagePrompts(obj, subject),
	}
}

// str returns a non-empty string field, or def.
func (d *fieldDecoder) str(obj map[string]any, field, def string) string {
	return d.strAt(obj, field, field, def)
}

func (d *fieldDecoder) strAt(obj map[string]any, key, path, def string) string {
	value, present := obj[key]
	if !present || value == nil {
		if def != "" {
			d.warn(path, "missing; using default")
		}
		return def
	}
	s, ok := value.(string)
	if !ok {
		d.warn(path, "expected string, got %s; using default", jsonType(value))
		return def
	}
	if s == "" {
		if def != "" {
			d.warn(path, "empty; using default")
		}
		return def
	}
	return s
}

func (d *fieldDecoder) age(obj map[string]any) int {
	value, present := obj["age"]
	if !present || value == nil {
		d.warn("age", "missing; using 0")
		return 0
	}
	n, ok := value.(float64)
	if !ok {
		d.warn("age", "expected number, got %s; using 0", jsonType(value))
		return 0
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		d.warn("age", "out of range; using 0")
		return 0
	}
	return int(n)
}

// strings keeps the string elements of an array field. Anything else yields an empty slice.
func (d *fieldDecoder) strings(obj map[string]any, field string) []string {
	out := []string{}
	value, present := obj[field]
	if !present || value == nil {
		d.warn(field, "missing; using empty list")
		return out
	}
	list, ok := value.([]any)
	if !ok {
		d.warn(field, "expected array, got %s; using empty list", jsonType(value))
		return out
	}
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			d.warn(fmt.Sprintf("%s[%d]", field, i), "expected string, got %s; dropped", jsonType(item))
			continue
		}
		out = append(out, s)
	}
	return out
}

func (d *fieldDecoder) googleAds(obj map[string]any) []types.GoogleAd {
	ads := []types.GoogleAd{}
	value, present := obj["googleAds"]
	if !present || value == nil {
		d.warn("googleAds", "missing; using empty list")
		return ads
	}
	list, ok := value.([]any)
	if !ok {
		d.warn("googleAds", "expected array, got %s; using empty list", jsonType(value))
		return ads
	}

	for i, item := range list {
		path := fmt.Sprintf("googleAds[%d]", i)
		adObj, ok := item.(map[string]any)
		if !ok {
			d.warn(path, "expected object, got %s; using defaults", jsonType(item))
			adObj = map[string]any{}
		}
		ads = append(ads, types.GoogleAd{
			Headline1:    d.strAt(adObj, "headline1", path+".headline1", DefaultHeadline1),
			Headline2:    d.strAt(adObj, "headline2", path+".headline2", DefaultHeadline2),
			Headline3:    optionalString(adObj, "headline3"),
			Description1: d.strAt(adObj, "description1", path+".description1", DefaultAdDescription),
			Description2: optionalString(adObj, "description2"),
		})
	}
	return ads
}

func optionalString(obj map[string]any, key string) *string {
	s, ok := obj[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func (d *fieldDecoder) imagePrompts(obj map[string]any, subject string) types.ImagePrompts {
	promptsObj, ok := obj["imagePrompts"].(map[string]any)
	if !ok {
		d.warn("imagePrompts", "missing or not an object; using fallback prompts")
		return types.ImagePrompts{
			Storyboard:    StoryboardFallback(subject),
			SocialMediaAd: SocialAdFallback(subject),
		}
	}

	storyboard, ok := exactStrings(promptsObj["storyboard"], types.StoryboardFrames)
	if !ok {
		d.warn("imagePrompts.storyboard", "expected exactly %d strings; using fallback prompts", types.StoryboardFrames)
		storyboard = StoryboardFallback(subject)
	}

	social, ok := promptsObj["socialMediaAd"].(string)
	if !ok || social == "" {
		d.warn("imagePrompts.socialMediaAd", "missing or not a string; using fallback prompt")
		social = SocialAdFallback(subject)
	}

	return types.ImagePrompts{Storyboard: storyboard, SocialMediaAd: social}
}

func exactStrings(value any, n int) ([]string, bool) {
	list, ok := value.([]any)
	if !ok || len(list) != n {
		return nil, false
	}
	out := make([]string, 0, n)
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// StoryboardFallback returns the storyboard prompts used when the model supplied none.
func StoryboardFallback(subject string) []string {
	lines := strings.Split(prompts.MustGet("persona.json", "storyboard-fallback"), "\n")
	data := map[string]string{"Name": subject}
	for i, line := range lines {
		lines[i] = prompts.Format(line, data)
	}
	return lines
}

// SocialAdFallback returns the social ad prompt used when the model supplied none.
func SocialAdFallback(subject string) string {
	return prompts.Format(prompts.MustGet("persona.json", "social-ad-fallback"), map[string]string{"Name": subject})
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
