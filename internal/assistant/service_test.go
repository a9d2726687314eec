package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	replies map[string]string // substring of prompt -> reply
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	for needle, reply := range f.replies {
		if strings.Contains(prompt, needle) {
			return reply, nil
		}
	}
	return f.reply, nil
}

type fakeFinder struct {
	videos  []Video
	err     error
	queries []string
}

func (f *fakeFinder) Search(_ context.Context, query string) ([]Video, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.videos, nil
}

func TestChat(t *testing.T) {
	llm := &fakeLLM{reply: "Drink plenty of water."}
	svc := NewService(llm, nil, 0, nil)

	reply, err := svc.Chat(context.Background(), "How do I stay hydrated?")
	require.NoError(t, err)
	assert.Equal(t, "Drink plenty of water.", reply)
	require.Len(t, llm.prompts, 1)
	assert.Equal(t, "How do I stay hydrated?", llm.prompts[0])
}

func TestNutritionPlanPrompt(t *testing.T) {
	llm := &fakeLLM{reply: "Breakfast: oats with fruit."}
	svc := NewService(llm, nil, 0, nil)

	_, err := svc.NutritionPlan(context.Background(), NutritionRequest{
		Age: 30, Height: 170, Weight: 70, Gender: "female", Disease: "None",
	})
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "30-year-old female")
	assert.Contains(t, llm.prompts[0], "170 cm")
	assert.Contains(t, llm.prompts[0], "70 kg")
	assert.Contains(t, llm.prompts[0], "with no specific health conditions")

	_, err = svc.NutritionPlan(context.Background(), NutritionRequest{
		Age: 55, Height: 165, Weight: 80, Gender: "male", Disease: "diabetes",
	})
	require.NoError(t, err)
	assert.Contains(t, llm.prompts[1], "suffering from diabetes")
}

func TestNutritionPlanCleansOutput(t *testing.T) {
	llm := &fakeLLM{reply: "* Breakfast: oats\n\n\n• Lunch: dal and rice\nDinner: soup\nNote: consult your doctor first."}
	svc := NewService(llm, nil, 0, nil)

	plan, err := svc.NutritionPlan(context.Background(), NutritionRequest{
		Age: 30, Height: 170, Weight: 70, Gender: "female",
	})
	require.NoError(t, err)
	assert.NotContains(t, plan, "*")
	assert.NotContains(t, plan, "•")
	assert.NotContains(t, plan, "Note:")
	assert.NotContains(t, plan, "\n\n")
	assert.Contains(t, plan, "Lunch: dal and rice")
}

func TestRecommendVideos(t *testing.T) {
	llm := &fakeLLM{reply: "knee pain physiotherapy exercises"}
	finder := &fakeFinder{videos: []Video{
		{Title: "Knee Exercises", URL: "https://www.youtube.com/embed/abc123"},
	}}
	svc := NewService(llm, finder, 0, nil)

	videos, err := svc.RecommendVideos(context.Background(), "knee pain")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Knee Exercises", videos[0].Title)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "knee pain")
	require.Len(t, finder.queries, 1)
	assert.Equal(t, "knee pain physiotherapy exercises", finder.queries[0])
}

func TestRecommendVideosPropagatesErrors(t *testing.T) {
	svc := NewService(&fakeLLM{err: errors.New("llm down")}, &fakeFinder{}, 0, nil)
	_, err := svc.RecommendVideos(context.Background(), "knee pain")
	assert.Error(t, err)

	svc = NewService(&fakeLLM{reply: "keywords"}, &fakeFinder{err: ErrNoVideos}, 0, nil)
	_, err = svc.RecommendVideos(context.Background(), "knee pain")
	assert.ErrorIs(t, err, ErrNoVideos)
}

func TestRecommendVideosWithoutFinder(t *testing.T) {
	svc := NewService(&fakeLLM{reply: "keywords"}, nil, 0, nil)
	_, err := svc.RecommendVideos(context.Background(), "knee pain")
	assert.ErrorIs(t, err, ErrNoVideos)
}

func TestFallbackClient(t *testing.T) {
	primary := &fakeLLM{err: errors.New("primary down")}
	fallback := &fakeLLM{reply: "from fallback"}

	client := NewFallbackClient(primary, fallback, nil)
	text, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "from fallback", text)

	// No fallback configured: primary error surfaces.
	client = NewFallbackClient(primary, nil, nil)
	_, err = client.Complete(context.Background(), "hello")
	assert.Error(t, err)
}
