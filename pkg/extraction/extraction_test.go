package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"google.golang.org/genai"

	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

func TestRenderDocument_Workbook(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "Exercise")
	_ = f.SetCellValue("Sheet1", "B1", "Sets")
	_ = f.SetCellValue("Sheet1", "C1", "Reps")
	_ = f.SetCellValue("Sheet1", "A2", "Bench | Press")
	_ = f.SetCellValue("Sheet1", "B2", 3)
	_ = f.SetCellValue("Sheet1", "C2", "8-12")
	_ = f.SetCellValue("Sheet1", "A4", "Squat")
	if _, err := f.NewSheet("Week 2"); err != nil {
		t.Fatal(err)
	}
	_ = f.SetCellValue("Week 2", "A1", "Day")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	got, err := RenderDocument(bytes.NewReader(buf.Bytes()), "program.xlsx")
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}

	want := "Sheet: Sheet1\n" +
		"| Exercise | Sets | Reps |\n" +
		"| --- | --- | --- |\n" +
		"| Bench \\| Press | 3 | 8-12 |\n" +
		"| Squat |  |  |\n\n" +
		"Sheet: Week 2\n" +
		"| Day |\n" +
		"| --- |\n\n"
	if got != want {
		t.Errorf("rendered workbook:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderDocument_CSVAndText(t *testing.T) {
	got, err := RenderDocument(strings.NewReader("day,exercise\nDay 1,Row\n"), "plan.CSV")
	if err != nil {
		t.Fatal(err)
	}
	if got != "| day | exercise |\n| --- | --- |\n| Day 1 | Row |\n" {
		t.Errorf("csv = %q", got)
	}

	got, err = RenderDocument(strings.NewReader("Week 1: squat 5x5"), "plan.md")
	if err != nil || got != "Week 1: squat 5x5" {
		t.Errorf("text = %q, %v", got, err)
	}
}

func TestRenderDocument_Unsupported(t *testing.T) {
	for _, name := range []string{"plan.pdf", "legacy.xls"} {
		_, err := RenderDocument(strings.NewReader(""), name)
		if apperrors.GetCode(err) != apperrors.CodeDocumentUnsupported {
			t.Errorf("%s: got %v", name, err)
		}
	}
	if _, err := RenderDocument(strings.NewReader("not a zip"), "broken.xlsx"); apperrors.GetCode(err) != apperrors.CodeDocumentRead {
		t.Errorf("corrupt workbook: got %v", err)
	}
}

type mockGenerator struct {
	GenerateContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return m.GenerateContentFunc(ctx, model, contents, config)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
	}}}
}

func TestExtractWeek(t *testing.T) {
	var gotModel string
	var gotConfig *genai.GenerateContentConfig
	var gotContents []*genai.Content
	gen := &mockGenerator{GenerateContentFunc: func(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel, gotContents, gotConfig = model, contents, cfg
		return textResponse(`{"weeks":[{"week":"Week 2","days":[{"day":"Day 1","exercises":""}]}]}`), nil
	}}

	x := NewExtractor(gen, "")
	prog, raw, err := x.ExtractWeek(context.Background(), "| table |", 2)
	if err != nil {
		t.Fatalf("ExtractWeek: %v", err)
	}
	if gotModel != DefaultModel {
		t.Errorf("model = %q", gotModel)
	}
	if gotConfig.ResponseMIMEType != "application/json" || gotConfig.ResponseSchema == nil || gotConfig.ResponseSchema.Type != genai.TypeObject {
		t.Errorf("config = %+v", gotConfig)
	}
	parts := gotContents[0].Parts
	if len(parts) != 2 || !strings.Contains(parts[0].Text, "Week 2") || parts[1].Text != "| table |" {
		t.Errorf("contents = %+v", parts)
	}
	if len(prog.Weeks) != 1 || !prog.Weeks[0].Days[0].Skip {
		t.Errorf("program = %+v", prog)
	}
	if len(raw) == 0 {
		t.Error("raw JSON should be returned")
	}
}

func TestExtractWeek_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
	}{
		{"api error", nil, fmt.Errorf("quota exceeded")},
		{"no candidates", &genai.GenerateContentResponse{}, nil},
		{"invalid json", textResponse(`{"weeks": [`), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{GenerateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return tt.resp, tt.err
			}}
			_, _, err := NewExtractor(gen, "m").ExtractWeek(context.Background(), "doc", 1)
			if apperrors.GetCode(err) != apperrors.CodeExtractionFailed {
				t.Errorf("expected EXTRACTION_FAILED, got %v", err)
			}
			if !apperrors.IsRetryable(err) {
				t.Error("extraction failures should be retryable")
			}
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		text    string
		want    int
		wantErr bool
	}{
		{"12", 12, false},
		{" 4\n", 4, false},
		{"0", 0, true},
		{"four", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			gen := &mockGenerator{GenerateContentFunc: func(_ context.Context, _ string, _ []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				if cfg.ResponseSchema.Type != genai.TypeInteger {
					t.Errorf("duration call should request an integer schema")
				}
				return textResponse(tt.text), nil
			}}
			got, err := NewExtractor(gen, "m").Duration(context.Background(), "doc")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Duration = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeekPrompt(t *testing.T) {
	if !strings.Contains(WeekPrompt(3), "exercises for Week 3") {
		t.Error("prompt should name the week")
	}
}
