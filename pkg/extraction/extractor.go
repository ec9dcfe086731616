package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

const DefaultModel = "gemini-2.0-flash"

// ContentGenerator is the part of the genai client the extractor calls.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Extractor asks a Gemini model for structured program data.
type Extractor struct {
	generator ContentGenerator
	model     string
}

// NewGeminiExtractor connects to the Gemini API.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*Extractor, error) {
	if apiKey == "" {
		return nil, apperrors.New(apperrors.CodeValidationError, "gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExtractionFailed, "failed to create genai client")
	}
	return NewExtractor(client.Models, model), nil
}

func NewExtractor(generator ContentGenerator, model string) *Extractor {
	if model == "" {
		model = DefaultModel
	}
	return &Extractor{generator: generator, model: model}
}

// ExtractWeek returns the program for one week together with the raw JSON
// the model produced.
func (x *Extractor) ExtractWeek(ctx context.Context, document string, week int) (*workout.WorkoutProgram, []byte, error) {
	text, err := x.generate(ctx, WeekPrompt(week), document, programSchema())
	if err != nil {
		return nil, nil, err
	}

	raw := []byte(text)
	var program workout.WorkoutProgram
	if err := json.Unmarshal(raw, &program); err != nil {
		return nil, raw, apperrors.ErrExtractionFailed.WithCause(err).
			WithMessage("model returned invalid program JSON").
			WithMetadata("week", strconv.Itoa(week))
	}
	return &program, raw, nil
}

// Duration asks the model how many weeks the program spans.
func (x *Extractor) Duration(ctx context.Context, document string) (int, error) {
	text, err := x.generate(ctx, DurationPrompt, document, &genai.Schema{Type: genai.TypeInteger})
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, apperrors.ErrExtractionFailed.WithCause(err).WithMessage("model returned a non-integer duration")
	}
	if n < 1 {
		return 0, apperrors.ErrExtractionFailed.WithMessage(fmt.Sprintf("model returned duration %d", n))
	}
	return n, nil
}

func (x *Extractor) generate(ctx context.Context, prompt, document string, schema *genai.Schema) (string, error) {
	logger := slog.With("component", "extraction", "model", x.model)
	start := time.Now()

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromText(document),
		},
	}}
	resp, err := x.generator.GenerateContent(ctx, x.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", apperrors.ErrExtractionFailed.WithCause(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.ErrExtractionFailed.WithMessage("model returned no content")
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonMaxTokens {
		var total int32
		if resp.UsageMetadata != nil {
			total = resp.UsageMetadata.TotalTokenCount
		}
		logger.Warn("Model output truncated at token limit", "total_tokens", total)
	}

	var b strings.Builder
	for _, p := range cand.Content.Parts {
		b.WriteString(p.Text)
	}

	logger.Info("Model call completed", "duration_ms", time.Since(start).Milliseconds(), "response_bytes", b.Len())
	return b.String(), nil
}

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

func valueUnit() *genai.Schema {
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: map[string]*genai.Schema{"value": str(), "unit": str()},
		Required:   []string{"value", "unit"},
	}
}

// programSchema describes workout.WorkoutProgram for structured output.
func programSchema() *genai.Schema {
	set := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"Set Number": {Type: genai.TypeInteger},
			"Reps": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"isRange": {Type: genai.TypeBoolean},
					"value":   str(),
					"min":     str(),
					"max":     str(),
				},
				Required: []string{"isRange", "value", "min", "max"},
			},
			"Weight":    valueUnit(),
			"Rest Time": valueUnit(),
		},
		Required: []string{"Set Number", "Reps", "Weight", "Rest Time"},
	}
	exercise := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"Exercise Name": {Type: genai.TypeString, Description: "Name of the exercise"},
			"Sets":          {Type: genai.TypeArray, Items: set},
			"Notes":         {Type: genai.TypeString, Description: "Additional notes for the exercise"},
		},
		Required: []string{"Exercise Name", "Sets"},
	}
	day := &genai.Schema{
		Type:        genai.TypeObject,
		Description: "Exercises for a single workout day",
		Properties: map[string]*genai.Schema{
			"day":       {Type: genai.TypeString, Description: "Name of the day, e.g. 'Monday' or 'Day 1'"},
			"exercises": {Type: genai.TypeArray, Items: exercise},
		},
		Required: []string{"day", "exercises"},
	}
	week := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"week": {Type: genai.TypeString, Description: "Name of the week, e.g. 'Week 1'"},
			"days": {Type: genai.TypeArray, Items: day},
		},
		Required: []string{"week", "days"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"weeks": {Type: genai.TypeArray, Items: week, Description: "Weekly workouts for the program"},
		},
		Required: []string{"weeks"},
	}
}
