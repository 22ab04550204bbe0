package generate

import (
	"strings"
	"testing"

	"repurposer/internal/domain/contentModel"
)

func TestParseOutputLinkedIn(t *testing.T) {
	raw := `{"title": "Launch day", "content": "We shipped.", "hashtags": ["#launch"], "call_to_action": "Try it"}`

	payload := ParseOutput(contentModel.LinkedInPostType, raw)
	if payload.IsRaw() {
		t.Fatal("valid JSON must not fall back to raw")
	}
	if payload.LinkedInPost == nil || payload.LinkedInPost.Title != "Launch day" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestParseOutputStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"hashtags\": [\"#go\", \"#backend\"], \"categories\": [\"tech\"]}\n```"

	payload := ParseOutput(contentModel.HashtagsType, raw)
	if payload.IsRaw() {
		t.Fatal("fenced JSON must still parse")
	}
	if len(payload.Hashtags.Hashtags) != 2 {
		t.Errorf("hashtags = %v", payload.Hashtags.Hashtags)
	}
}

func TestParseOutputToleratesSurroundingProse(t *testing.T) {
	raw := `Sure! Here is your thread:
{"thread": [{"tweet": "First", "order": 1}, {"tweet": "Second", "order": 2}], "hashtags": []}
Hope that helps.`

	payload := ParseOutput(contentModel.TwitterThreadType, raw)
	if payload.IsRaw() {
		t.Fatal("JSON surrounded by prose must still parse")
	}
	if len(payload.TwitterThread.Thread) != 2 {
		t.Errorf("thread = %+v", payload.TwitterThread.Thread)
	}
}

func TestParseOutputFallsBackToRaw(t *testing.T) {
	raw := "Here are some thoughts about your topic, in plain prose."

	payload := ParseOutput(contentModel.LinkedInPostType, raw)
	if !payload.IsRaw() {
		t.Fatal("unparseable output must fall back to raw")
	}
	// The fallback preserves the model output verbatim.
	if payload.Raw.Content != raw {
		t.Errorf("raw content = %q, want original output", payload.Raw.Content)
	}
	if payload.Raw.Type != contentModel.LinkedInPostType {
		t.Errorf("raw type = %s", payload.Raw.Type)
	}
}

func TestParseOutputWrongSchemaFallsBack(t *testing.T) {
	// Valid JSON, but missing the required thread for a twitter_thread.
	raw := `{"content": "just one tweet"}`

	payload := ParseOutput(contentModel.TwitterThreadType, raw)
	if !payload.IsRaw() {
		t.Fatal("schema mismatch must fall back to raw")
	}
}

func TestBuildPromptFillsContext(t *testing.T) {
	prompt := BuildPrompt(contentModel.LinkedInPostType, "SOURCE TEXT HERE", PromptOptions{})
	if !contains(prompt, "SOURCE TEXT HERE") {
		t.Error("prompt must contain the context text")
	}
	if contains(prompt, "{context}") {
		t.Error("placeholder must be replaced")
	}
}

func TestBuildPromptCustomOverride(t *testing.T) {
	opts := PromptOptions{
		CustomPrompts: map[string]string{"linkedin_post": "Custom: {context}"},
	}
	prompt := BuildPrompt(contentModel.LinkedInPostType, "ctx", opts)
	if prompt != "Custom: ctx" {
		t.Errorf("prompt = %q", prompt)
	}
}

func TestBuildPromptAudienceAndTone(t *testing.T) {
	opts := PromptOptions{TargetAudience: "founders", Tone: "casual"}
	prompt := BuildPrompt(contentModel.HashtagsType, "ctx", opts)
	if !contains(prompt, "Target audience: founders") || !contains(prompt, "Tone: casual") {
		t.Errorf("prompt missing hints: %q", prompt)
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
