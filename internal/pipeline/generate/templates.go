package generate

import (
	"strings"

	"repurposer/internal/domain/contentModel"
)

// SystemPrompt frames every generation call; the per-type template carries
// the schema the model must answer with.
const SystemPrompt = "You are a content repurposing assistant. You turn source material " +
	"into platform-ready content. Always answer with a single JSON object matching " +
	"the requested structure, with no commentary around it."

const fallbackTemplate = "Generate content based on the provided source material.\n\nSource material: {context}"

const linkedinTemplate = `Generate a professional LinkedIn post based on the provided source material.
The post should be engaging, professional, and suitable for a business audience.
Include relevant hashtags and a call-to-action.

Source material: {context}

Return the response in JSON format with the following structure:
{
    "title": "Post title",
    "content": "Main post content",
    "hashtags": ["#tag1", "#tag2"],
    "call_to_action": "Call to action text"
}`

const twitterTemplate = `Generate a Twitter thread (3-5 tweets) based on the provided source material.
Each tweet should be under 280 characters and build upon the previous one.

Source material: {context}

Return the response in JSON format with the following structure:
{
    "thread": [
        {"tweet": "First tweet content", "order": 1},
        {"tweet": "Second tweet content", "order": 2}
    ],
    "hashtags": ["#tag1", "#tag2"]
}`

const instagramTemplate = `Generate an Instagram carousel post (5-7 slides) based on the provided source material.
Each slide should have a title, content, and visual description.

Source material: {context}

Return the response in JSON format with the following structure:
{
    "slides": [
        {
            "title": "Slide title",
            "content": "Slide content",
            "visual_description": "Description of visual elements"
        }
    ],
    "caption": "Main caption for the post",
    "hashtags": ["#tag1", "#tag2"]
}`

const newsletterTemplate = `Generate a newsletter section based on the provided source material.
The content should be informative, engaging, and suitable for email format.

Source material: {context}

Return the response in JSON format with the following structure:
{
    "subject": "Newsletter subject line",
    "content": "Main newsletter content",
    "call_to_action": "Call to action text"
}`

const videoScriptTemplate = `Generate a short video script (30-60 seconds) based on the provided source material.
Include timing cues and visual descriptions.

Source material: {context}

Return the response in JSON format with the following structure:
{
    "script": [
        {
            "time": "0:00-0:10",
            "text": "Narrator text",
            "visual": "Visual description"
        }
    ],
    "total_duration": "60 seconds"
}`

const hashtagsTemplate = `Generate relevant hashtags for the provided source material.
Include a mix of popular and niche hashtags.

Source material: {context}

Return the response in JSON format with the following structure:
{
    "hashtags": ["#tag1", "#tag2", "#tag3"],
    "categories": ["category1", "category2"]
}`

var templates = map[contentModel.ContentType]string{
	contentModel.LinkedInPostType:      linkedinTemplate,
	contentModel.TwitterThreadType:     twitterTemplate,
	contentModel.InstagramCarouselType: instagramTemplate,
	contentModel.NewsletterSectionType: newsletterTemplate,
	contentModel.VideoScriptType:       videoScriptTemplate,
	contentModel.HashtagsType:          hashtagsTemplate,
}

// PromptOptions carries the caller's generation knobs. A custom prompt for
// a content type replaces that type's template wholesale.
type PromptOptions struct {
	CustomPrompts  map[string]string
	TargetAudience string
	Tone           string
}

// BuildPrompt fills the template for contentType with the retrieved
// context and the optional audience/tone hints.
func BuildPrompt(contentType contentModel.ContentType, contextText string, opts PromptOptions) string {
	template, ok := templates[contentType]
	if !ok {
		template = fallbackTemplate
	}
	if custom, ok := opts.CustomPrompts[string(contentType)]; ok && custom != "" {
		template = custom
	}

	prompt := strings.ReplaceAll(template, "{context}", contextText)

	var hints []string
	if opts.TargetAudience != "" {
		hints = append(hints, "Target audience: "+opts.TargetAudience)
	}
	if opts.Tone != "" {
		hints = append(hints, "Tone: "+opts.Tone)
	}
	if len(hints) > 0 {
		prompt = prompt + "\n\n" + strings.Join(hints, "\n")
	}
	return prompt
}
