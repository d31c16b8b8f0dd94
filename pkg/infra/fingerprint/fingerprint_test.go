package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID_NormalizesTextAndClassifierOrder(t *testing.T) {
	a := Fingerprint{
		Content:     "Hello   World",
		ContentType: "chat",
		Classifiers: []string{"heuristic", "openai_moderation"},
	}
	b := Fingerprint{
		Content:     "hello world",
		ContentType: "chat",
		Classifiers: []string{"openai_moderation", "heuristic"},
	}

	assert.Equal(t, a.ID(), b.ID())
}

func TestID_DistinguishesContent(t *testing.T) {
	base := Fingerprint{Content: "hello", ContentType: "chat", Classifiers: []string{"heuristic"}}

	byContent := base
	byContent.Content = "goodbye"
	assert.NotEqual(t, base.ID(), byContent.ID())

	byType := base
	byType.ContentType = "comment"
	assert.NotEqual(t, base.ID(), byType.ID())

	byClassifiers := base
	byClassifiers.Classifiers = []string{"heuristic", "webhook"}
	assert.NotEqual(t, base.ID(), byClassifiers.ID())
}

func TestID_DoesNotMutateClassifierSlice(t *testing.T) {
	names := []string{"webhook", "heuristic"}
	f := Fingerprint{Content: "x", ContentType: "chat", Classifiers: names}

	_ = f.ID()

	assert.Equal(t, []string{"webhook", "heuristic"}, names)
}

func TestID_StableHexDigest(t *testing.T) {
	f := Fingerprint{Content: "x", ContentType: "chat", Classifiers: []string{"heuristic"}}

	first := f.ID()
	assert.Len(t, first, 64)
	assert.Equal(t, first, f.ID())
}
