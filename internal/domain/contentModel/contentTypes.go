package contentModel

import (
	"encoding/json"
	"errors"
	"fmt"
)

type ContentType string

const (
	LinkedInPostType      ContentType = "linkedin_post"
	TwitterThreadType     ContentType = "twitter_thread"
	InstagramCarouselType ContentType = "instagram_carousel"
	NewsletterSectionType ContentType = "newsletter_section"
	VideoScriptType       ContentType = "video_script"
	HashtagsType          ContentType = "hashtags"
)

func ValidContentType(t ContentType) bool {
	switch t {
	case LinkedInPostType, TwitterThreadType, InstagramCarouselType,
		NewsletterSectionType, VideoScriptType, HashtagsType:
		return true
	}
	return false
}

// Result schemas - these JSON shapes are the wire contract downstream
// consumers rely on.

type LinkedInPost struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Hashtags     []string `json:"hashtags"`
	CallToAction string   `json:"call_to_action,omitempty"`
}

type Tweet struct {
	Tweet string `json:"tweet"`
	Order int    `json:"order"`
}

type TwitterThread struct {
	Thread   []Tweet  `json:"thread"`
	Hashtags []string `json:"hashtags"`
}

type CarouselSlide struct {
	Title             string `json:"title"`
	Content           string `json:"content"`
	VisualDescription string `json:"visual_description,omitempty"`
}

type InstagramCarousel struct {
	Slides   []CarouselSlide `json:"slides"`
	Caption  string          `json:"caption"`
	Hashtags []string        `json:"hashtags"`
}

type NewsletterSection struct {
	Subject      string `json:"subject"`
	Content      string `json:"content"`
	CallToAction string `json:"call_to_action,omitempty"`
}

type ScriptCue struct {
	Time   string `json:"time"`
	Text   string `json:"text"`
	Visual string `json:"visual,omitempty"`
}

type VideoScript struct {
	Script        []ScriptCue `json:"script"`
	TotalDuration string      `json:"total_duration,omitempty"`
}

type HashtagSet struct {
	Hashtags   []string `json:"hashtags"`
	Categories []string `json:"categories,omitempty"`
}

// RawContent wraps model output that could not be parsed into the
// type-specific schema.
type RawContent struct {
	Content string      `json:"content"`
	Type    ContentType `json:"type"`
}

// GeneratedPayload is a tagged union keyed by content type. Exactly one
// variant is set; Raw holds the unparsed fallback.
type GeneratedPayload struct {
	Type              ContentType
	LinkedInPost      *LinkedInPost
	TwitterThread     *TwitterThread
	InstagramCarousel *InstagramCarousel
	NewsletterSection *NewsletterSection
	VideoScript       *VideoScript
	Hashtags          *HashtagSet
	Raw               *RawContent
}

func (p GeneratedPayload) IsRaw() bool {
	return p.Raw != nil
}

// MarshalJSON emits the active variant inline, without the union wrapper.
func (p GeneratedPayload) MarshalJSON() ([]byte, error) {
	switch {
	case p.Raw != nil:
		return json.Marshal(p.Raw)
	case p.LinkedInPost != nil:
		return json.Marshal(p.LinkedInPost)
	case p.TwitterThread != nil:
		return json.Marshal(p.TwitterThread)
	case p.InstagramCarousel != nil:
		return json.Marshal(p.InstagramCarousel)
	case p.NewsletterSection != nil:
		return json.Marshal(p.NewsletterSection)
	case p.VideoScript != nil:
		return json.Marshal(p.VideoScript)
	case p.Hashtags != nil:
		return json.Marshal(p.Hashtags)
	}
	return []byte("null"), nil
}

// DecodePayload parses data into the schema for contentType and validates
// the required fields. Callers decide how to handle the error; the
// generator falls back to RawContent.
func DecodePayload(contentType ContentType, data []byte) (GeneratedPayload, error) {
	payload := GeneratedPayload{Type: contentType}

	switch contentType {
	case LinkedInPostType:
		var v LinkedInPost
		if err := json.Unmarshal(data, &v); err != nil {
			return payload, err
		}
		if v.Content == "" {
			return payload, errors.New("linkedin_post: content is required")
		}
		payload.LinkedInPost = &v

	case TwitterThreadType:
		var v TwitterThread
		if err := json.Unmarshal(data, &v); err != nil {
			return payload, err
		}
		if len(v.Thread) == 0 {
			return payload, errors.New("twitter_thread: thread is empty")
		}
		payload.TwitterThread = &v

	case InstagramCarouselType:
		var v InstagramCarousel
		if err := json.Unmarshal(data, &v); err != nil {
			return payload, err
		}
		if len(v.Slides) == 0 {
			return payload, errors.New("instagram_carousel: slides are empty")
		}
		payload.InstagramCarousel = &v

	case NewsletterSectionType:
		var v NewsletterSection
		if err := json.Unmarshal(data, &v); err != nil {
			return payload, err
		}
		if v.Content == "" {
			return payload, errors.New("newsletter_section: content is required")
		}
		payload.NewsletterSection = &v

	case VideoScriptType:
		var v VideoScript
		if err := json.Unmarshal(data, &v); err != nil {
			return payload, err
		}
		if len(v.Script) == 0 {
			return payload, errors.New("video_script: script is empty")
		}
		payload.VideoScript = &v

	case HashtagsType:
		var v HashtagSet
		if err := json.Unmarshal(data, &v); err != nil {
			return payload, err
		}
		if len(v.Hashtags) == 0 {
			return payload, errors.New("hashtags: no hashtags present")
		}
		payload.Hashtags = &v

	default:
		return payload, fmt.Errorf("unknown content type: %s", contentType)
	}

	return payload, nil
}

// RawPayload wraps unparseable model output under {content, type}.
func RawPayload(contentType ContentType, text string) GeneratedPayload {
	return GeneratedPayload{
		Type: contentType,
		Raw:  &RawContent{Content: text, Type: contentType},
	}
}
