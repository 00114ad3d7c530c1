// Package prompt builds the instruction text sent to an LLM provider for a
// given topic and content type. Building is a pure function: the same topic
// and type always produce byte-identical output, and the topic is embedded
// verbatim without validation.
package prompt

import (
	"fmt"

	"overviewly/internal/core"
)

const basePrompt = "You are an expert content writer specializing in SEO and AI overview optimization. "

// promptSuffix is appended to every template. All content types share the
// same structural output contract: exactly one JSON object with title and
// content keys. This contract is a request, not a guarantee; the normalizer
// exists because models violate it.
const promptSuffix = `

IMPORTANT:
- Write naturally and conversationally
- Focus on providing value and answering user intent
- Use proper HTML formatting
- Ensure content is original and comprehensive
- NO external links or references
- Return ONLY the JSON object, no additional text`

const faqTemplate = basePrompt + `Create a comprehensive FAQ article about: %s

REQUIREMENTS:
- Create an engaging title that includes the main question or topic
- Structure as FAQ with clear H2 headings for each question
- Each question should be a common search query
- Provide detailed, helpful answers (150-300 words each)
- Include 8-12 frequently asked questions
- Use natural, conversational language
- Include relevant facts, statistics, and examples
- End with a conclusion paragraph

IMPORTANT FORMATTING:
- Use proper HTML: <h2> for questions, <p> for answers
- NO JSON, NO curly braces, NO structured data in the content
- NO comparison tables
- Write naturally like a blog post

OUTPUT FORMAT:
Respond with ONLY a clean JSON object:

{
  "title": "Your SEO-optimized title",
  "content": "<h2>What is [topic]?</h2><p>Detailed answer here...</p><h2>How does [topic] work?</h2><p>Another detailed answer...</p>"
}` + promptSuffix

const howtoTemplate = basePrompt + `Create a detailed How-To guide about: %s

REQUIREMENTS:
- Create a compelling title
- Structure with clear steps using H2 headings
- Include introduction, step-by-step instructions, and conclusion
- Each step should be actionable and detailed
- Include tips, warnings, and best practices
- Use bullet points and numbered lists
- Total length: 1500-2500 words

IMPORTANT FORMATTING:
- Use proper HTML: <h2> for steps, <p> for instructions, <ul>/<ol> for lists
- NO JSON, NO curly braces, NO structured data in the content
- NO comparison tables
- Write naturally like a blog post

OUTPUT FORMAT:
Respond with ONLY a clean JSON object:

{
  "title": "How to [Topic] - Complete Guide",
  "content": "<p>Introduction paragraph...</p><h2>Step 1: First Step</h2><p>Detailed instructions...</p><h2>Step 2: Next Step</h2><p>More instructions...</p>"
}` + promptSuffix

const comparisonTemplate = basePrompt + `Create a detailed comparison article about: %s

REQUIREMENTS:
- Create an engaging comparison title
- Compare at least 3-5 options/alternatives
- Structure with clear sections for each option
- Include pros, cons, features, pricing, and recommendations
- Use comparison tables in HTML format
- Provide unbiased analysis
- End with clear recommendations

IMPORTANT FORMATTING:
- Use proper HTML: <h2> for sections, <p> for descriptions, <table> for comparisons
- NO JSON, NO curly braces, NO structured data in the content
- Write naturally like a blog post

OUTPUT FORMAT:
Respond with ONLY a clean JSON object:

{
  "title": "[Option A] vs [Option B] vs [Option C] - Complete Comparison",
  "content": "<p>Introduction to comparison...</p><h2>What is [Topic]?</h2><p>Explanation...</p><h2>Comparison Table</h2><table>...</table>"
}` + promptSuffix

const listicleTemplate = basePrompt + `Create an engaging listicle article about: %s

REQUIREMENTS:
- Create a click-worthy title with a number
- Structure as a numbered or bulleted list with detailed explanations
- Each list item should be substantial (200-400 words)
- Include 10-15 list items
- Use engaging subheadings for each item
- Include examples, tips, and practical advice

IMPORTANT FORMATTING:
- Use proper HTML: <h2> for list items, <p> for descriptions
- NO JSON, NO curly braces, NO structured data in the content
- NO comparison tables
- Write naturally like a blog post

OUTPUT FORMAT:
Respond with ONLY a clean JSON object:

{
  "title": "[Number] Best [Topic] - Complete Guide",
  "content": "<p>Introduction...</p><h2>1. First Item</h2><p>Detailed explanation...</p><h2>2. Second Item</h2><p>More details...</p>"
}` + promptSuffix

const genericTemplate = basePrompt + `Create an informative article about: %s

REQUIREMENTS:
- SEO-optimized title
- Well-structured content with H2/H3 headings
- Comprehensive coverage of the topic
- Include facts, examples, and practical information

IMPORTANT FORMATTING:
- Use proper HTML: <h2> for sections, <p> for paragraphs
- NO JSON, NO curly braces, NO structured data in the content
- NO comparison tables
- Write naturally like a blog post

OUTPUT FORMAT:
Respond with ONLY a clean JSON object:

{
  "title": "Your SEO Title",
  "content": "<p>Introduction paragraph...</p><h2>First Section</h2><p>Content here...</p><h2>Second Section</h2><p>More content...</p>"
}` + promptSuffix

// Build returns the full instruction prompt for a topic and content type.
func Build(topic string, contentType core.ContentType) string {
	switch contentType {
	case core.ContentTypeFAQ:
		return fmt.Sprintf(faqTemplate, topic)
	case core.ContentTypeHowTo:
		return fmt.Sprintf(howtoTemplate, topic)
	case core.ContentTypeComparison:
		return fmt.Sprintf(comparisonTemplate, topic)
	case core.ContentTypeListicle:
		return fmt.Sprintf(listicleTemplate, topic)
	default:
		return fmt.Sprintf(genericTemplate, topic)
	}
}
