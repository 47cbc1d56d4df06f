package compose

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

// scriptedService returns canned responses in order, recording the prompts
// it was called with.
type scriptedService struct {
	responses []string
	prompts   []string
}

func (s *scriptedService) Complete(_ context.Context, _, userPrompt string) (string, error) {
	s.prompts = append(s.prompts, userPrompt)
	idx := len(s.prompts) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func TestGenerate_ConvergesWithinAttempts(t *testing.T) {
	service := &scriptedService{responses: []string{
		"bad #hashtag text",
		"still bad #tag",
		"finally a clean post about balconies",
	}}

	gen := NewGenerator(service, NewPipeline(testRules(), nil), false, testLog())

	text, ok, err := gen.Generate(context.Background(), "sys", "write it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a result")
	}
	if strings.Contains(text, "#") {
		t.Errorf("accepted text contains a hashtag: %q", text)
	}
	if len(service.prompts) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(service.prompts))
	}
}

func TestGenerate_EscalatesInstructions(t *testing.T) {
	service := &scriptedService{responses: []string{
		"bad #one",
		"bad #two",
		"clean and friendly",
	}}

	gen := NewGenerator(service, NewPipeline(testRules(), nil), false, testLog())
	if _, _, err := gen.Generate(context.Background(), "sys", "write it"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(service.prompts[0], "rejected") {
		t.Error("first attempt should carry no corrective instruction")
	}
	if !strings.Contains(service.prompts[1], "drop the jargon") {
		t.Errorf("second attempt missing corrective instruction: %q", service.prompts[1])
	}
	if !strings.Contains(service.prompts[2], "two sentences") {
		t.Errorf("third attempt missing final instruction: %q", service.prompts[2])
	}
}

func TestGenerate_StealthAbandonsOnPersistentViolation(t *testing.T) {
	service := &scriptedService{responses: []string{
		"a note from our clients desk",
	}}

	gen := NewGenerator(service, NewPipeline(testRules(), []string{}), true, testLog())

	text, ok, err := gen.Generate(context.Background(), "sys", "write it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected stealth abandon, got text %q", text)
	}
	if len(service.prompts) != 3 {
		t.Errorf("expected all 3 attempts before abandoning, got %d", len(service.prompts))
	}
}

func TestGenerate_NonStealthTruncatesOnExhaustion(t *testing.T) {
	long := strings.Repeat("endless talk about nothing much at all ", 20)
	service := &scriptedService{responses: []string{long}}

	gen := NewGenerator(service, NewPipeline(testRules(), nil), false, testLog())

	text, ok, err := gen.Generate(context.Background(), "sys", "write it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("non-stealth exhaustion must still deliver")
	}
	if n := len([]rune(text)); n > MaxPostChars {
		t.Errorf("expected truncation to %d runes, got %d", MaxPostChars, n)
	}
}
