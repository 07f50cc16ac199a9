// Package pipeline orchestrates persona generation: one structured text call, normalization,
// then image generation for each persona.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/persona-studio/internal/llm"
	"github.com/jonathan/persona-studio/internal/parsing"
	"github.com/jonathan/persona-studio/internal/schemas"
	"github.com/jonathan/persona-studio/internal/types"
)

// PlaceholderImageURL is shown in place of any image that could not be generated.
const PlaceholderImageURL = "https://picsum.photos/500/500?grayscale&blur=2"

// AdvisoryNoPersonas is reported when the model returned no personas.
const AdvisoryNoPersonas = "no personas produced"

// Progress steps
const (
	StepTextGenerated    = "text_generated"
	StepPersonaAssembled = "persona_assembled"
	StepCompleted        = "completed"

	CategoryGeneration = "generation"
)

// ProgressEvent represents a progress update during generation
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when generation progress occurs
type ProgressCallback func(event ProgressEvent)

// Options configures a Generator.
type Options struct {
	APIKey              string
	Tier                llm.ModelTier
	PlaceholderImageURL string
	Store               Store
	Tracker             *Tracker
	Logger              *zap.Logger
}

// Request is one generation request.
type Request struct {
	Input      types.CompanyInput
	SessionKey string
	OnProgress ProgressCallback
}

// Result is the outcome of one generation.
type Result struct {
	SubmissionID uuid.UUID              `json:"submission_id"`
	Generation   uint64                 `json:"generation"`
	Personas     []types.Persona        `json:"personas"`
	Advisory     string                 `json:"advisory,omitempty"`
	Warnings     []parsing.FieldWarning `json:"warnings,omitempty"`
	Stale        bool                   `json:"stale,omitempty"`
}

// Generator produces personas from company input.
type Generator struct {
	text        llm.Client
	images      llm.ImageClient
	apiKey      string
	tier        llm.ModelTier
	placeholder string
	store       Store
	tracker     *Tracker
	logger      *zap.Logger
}

// NewGenerator creates a Generator. It fails with *llm.ConfigError when the API key is unusable.
// images may be nil, in which case every image is the placeholder.
func NewGenerator(text llm.Client, images llm.ImageClient, opts Options) (*Generator, error) {
	if err := llm.CheckAPIKey(opts.APIKey); err != nil {
		return nil, err
	}
	if text == nil {
		return nil, errors.New("text client is required")
	}

	g := &Generator{
		text:        text,
		images:      images,
		apiKey:      opts.APIKey,
		tier:        opts.Tier,
		placeholder: opts.PlaceholderImageURL,
		store:       opts.Store,
		tracker:     opts.Tracker,
		logger:      opts.Logger,
	}
	if g.tier == "" {
		g.tier = llm.TierStandard
	}
	if g.placeholder == "" {
		g.placeholder = PlaceholderImageURL
	}
	if g.tracker == nil {
		g.tracker = NewTracker()
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g, nil
}

// Generate runs one submission. Text generation completes before any image is requested;
// the four images of a persona are requested concurrently, and personas are illustrated one
// after another. Image failures are replaced by the placeholder and never fail the run.
// A run superseded by a newer one from the same session returns a Result with Stale set.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := llm.CheckAPIKey(g.apiKey); err != nil {
		return nil, err
	}

	input := req.Input.Trimmed()
	if err := input.Validate(); err != nil {
		return nil, &InputError{Cause: err}
	}

	token, ctx := g.tracker.Begin(ctx, req.SessionKey)
	defer g.tracker.Finish(token)

	sub := &types.Submission{
		ID:         uuid.New(),
		SessionKey: req.SessionKey,
		Generation: token.Number,
		Input:      input,
		Personas:   []types.Persona{},
		Status:     types.StatusRunning,
		CreatedAt:  time.Now().UTC(),
	}
	result := &Result{SubmissionID: sub.ID, Generation: token.Number, Personas: sub.Personas}
	log := g.logger.With(zap.String("submission_id", sub.ID.String()), zap.Uint64("generation", token.Number))
	emit := func(step, message string, content any) {
		if req.OnProgress != nil {
			req.OnProgress(ProgressEvent{Step: step, Category: CategoryGeneration, Message: message, RunID: sub.ID.String(), Content: content})
		}
	}

	g.save(ctx, log, sub)

	log.Info("generating persona text", zap.String("model", g.text.GetModel(g.tier)), zap.String("tier", string(g.tier)))
	raw, err := g.text.GenerateStructured(ctx, BuildPrompt(input), llm.PersonaScaffoldSchema(), g.tier)
	if err != nil {
		if !g.tracker.IsCurrent(token) {
			return g.finishStale(log, sub, result), nil
		}
		g.fail(log, sub)
		return nil, &parsing.APICallError{Message: "persona text generation", Cause: err}
	}
	emit(StepTextGenerated, "Generated persona text", nil)

	scaffolds, warnings, err := parsing.NormalizePersonas(raw)
	if err != nil {
		g.fail(log, sub)
		return nil, err
	}
	result.Warnings = warnings
	for _, w := range warnings {
		log.Debug("persona field defaulted", zap.Int("index", w.Index), zap.String("field", w.Field), zap.String("reason", w.Message))
	}
	if err := schemas.ValidatePersonaScaffolds(scaffolds); err != nil {
		log.Warn("normalized personas do not match schema", zap.Error(err))
	}

	if len(scaffolds) == 0 {
		log.Info("model returned no personas")
		result.Advisory = AdvisoryNoPersonas
		sub.Advisory = AdvisoryNoPersonas
	}

	personas := make([]types.Persona, 0, len(scaffolds))
	for i, scaffold := range scaffolds {
		if ctx.Err() != nil {
			break
		}
		persona := g.illustrate(ctx, log, scaffold)
		personas = append(personas, persona)
		emit(StepPersonaAssembled, fmt.Sprintf("Assembled persona %d of %d: %s", i+1, len(scaffolds), persona.Name), persona)
	}

	if !g.tracker.IsCurrent(token) {
		return g.finishStale(log, sub, result), nil
	}
	if err := ctx.Err(); err != nil {
		g.fail(log, sub)
		return nil, fmt.Errorf("generation cancelled: %w", err)
	}

	result.Personas = personas
	sub.Personas = personas
	sub.Status = types.StatusCompleted
	if len(personas) == 0 {
		sub.Status = types.StatusEmpty
	}
	g.complete(log, sub)
	emit(StepCompleted, fmt.Sprintf("Generated %d personas", len(personas)), nil)
	return result, nil
}

// illustrate requests the three storyboard frames and the social ad image concurrently and
// merges them into the persona once all four have finished.
func (g *Generator) illustrate(ctx context.Context, log *zap.Logger, s types.PersonaScaffold) types.Persona {
	storyboard := make([]string, types.StoryboardFrames)
	var social string

	group, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < types.StoryboardFrames && i < len(s.ImagePrompts.Storyboard); i++ {
		prompt := s.ImagePrompts.Storyboard[i]
		group.Go(func() error {
			storyboard[i] = g.image(gCtx, log, s.ID, prompt, llm.AspectWide)
			return nil
		})
	}
	group.Go(func() error {
		social = g.image(gCtx, log, s.ID, s.ImagePrompts.SocialMediaAd, llm.AspectSquare)
		return nil
	})
	_ = group.Wait()

	return types.NewPersona(s, storyboard, social, g.placeholder)
}

func (g *Generator) image(ctx context.Context, log *zap.Logger, personaID, prompt string, aspect llm.AspectRatio) string {
	if g.images == nil {
		return g.placeholder
	}
	url, err := g.images.GenerateImage(ctx, prompt, aspect)
	if err != nil {
		log.Warn("image generation failed; using placeholder",
			zap.String("persona_id", personaID),
			zap.String("aspect", string(aspect)),
			zap.Error(err))
		return g.placeholder
	}
	return url
}

func (g *Generator) finishStale(log *zap.Logger, sub *types.Submission, result *Result) *Result {
	log.Info("submission superseded by a newer generation")
	sub.Status = types.StatusStale
	g.complete(log, sub)
	result.Stale = true
	result.Personas = []types.Persona{}
	result.Advisory = ""
	return result
}

func (g *Generator) fail(log *zap.Logger, sub *types.Submission) {
	sub.Status = types.StatusFailed
	g.complete(log, sub)
}

func (g *Generator) complete(log *zap.Logger, sub *types.Submission) {
	now := time.Now().UTC()
	sub.CompletedAt = &now
	// The run context may already be cancelled; the final state is still recorded.
	g.save(context.Background(), log, sub)
}

func (g *Generator) save(ctx context.Context, log *zap.Logger, sub *types.Submission) {
	if g.store == nil {
		return
	}
	if err := g.store.SaveSubmission(ctx, sub); err != nil {
		log.Warn("failed to save submission", zap.Error(err))
	}
}
