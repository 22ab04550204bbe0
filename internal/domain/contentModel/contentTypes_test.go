package contentModel

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodePayloadTwitterThread(t *testing.T) {
	raw := `{"thread":[{"tweet":"1/ Go is fun","order":1},{"tweet":"2/ really fun","order":2}],"hashtags":["#golang"]}`

	payload, err := DecodePayload(TwitterThreadType, []byte(raw))
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if payload.TwitterThread == nil || len(payload.TwitterThread.Thread) != 2 {
		t.Fatalf("expected 2 tweets, got %+v", payload.TwitterThread)
	}
	if payload.TwitterThread.Thread[1].Order != 2 {
		t.Errorf("tweet order lost: %+v", payload.TwitterThread.Thread[1])
	}
	if payload.IsRaw() {
		t.Error("parsed payload must not be raw")
	}
}

func TestDecodePayloadRejectsMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name        string
		contentType ContentType
		raw         string
	}{
		{"LinkedIn_No_Content", LinkedInPostType, `{"title":"only a title"}`},
		{"Thread_Empty", TwitterThreadType, `{"thread":[],"hashtags":["#x"]}`},
		{"Carousel_No_Slides", InstagramCarouselType, `{"caption":"hi"}`},
		{"Script_Empty", VideoScriptType, `{"script":[]}`},
		{"Hashtags_Empty", HashtagsType, `{"hashtags":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodePayload(tc.contentType, []byte(tc.raw)); err == nil {
				t.Errorf("expected validation error for %s", tc.raw)
			}
		})
	}
}

func TestDecodePayloadUnknownType(t *testing.T) {
	if _, err := DecodePayload(ContentType("tiktok_dance"), []byte(`{}`)); err == nil {
		t.Error("expected error for unknown content type")
	}
}

func TestMarshalEmitsActiveVariantInline(t *testing.T) {
	payload, err := DecodePayload(LinkedInPostType, []byte(`{"title":"T","content":"C","hashtags":["#go"]}`))
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(out), "LinkedInPost") {
		t.Errorf("union wrapper leaked into JSON: %s", out)
	}
	if !strings.Contains(string(out), `"content":"C"`) {
		t.Errorf("variant fields missing: %s", out)
	}
}

func TestRawPayloadRoundTrip(t *testing.T) {
	payload := RawPayload(NewsletterSectionType, "not json at all")
	if !payload.IsRaw() {
		t.Fatal("RawPayload must be raw")
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded RawContent
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Content != "not json at all" || decoded.Type != NewsletterSectionType {
		t.Errorf("raw wrapper mangled: %+v", decoded)
	}
}
