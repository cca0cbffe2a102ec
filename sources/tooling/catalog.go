package tooling

import (
	"sakuracore/sources/platform"
)

const (
	CategoryWriting     = "writing"
	CategoryCode        = "code"
	CategoryBusiness    = "business"
	CategoryStudy       = "study"
	CategoryData        = "data"
	CategorySpecialized = "specialized"
	CategoryImage       = "image"
	CategoryAudio       = "audio"
)

type Tool struct {
	Name     string              `json:"name"`
	Title    string              `json:"title"`
	Category string              `json:"category"`
	Output   platform.OutputType `json:"output"`
	Heavy    bool                `json:"heavy"`
	Pro      bool                `json:"pro"`
}

var tools = []Tool{
	{Name: "article-writer", Title: "Article Writer", Category: CategoryWriting, Output: platform.OutputText},
	{Name: "essay-writer", Title: "Essay Writer", Category: CategoryWriting, Output: platform.OutputText},
	{Name: "blog-writer", Title: "Blog Writer", Category: CategoryWriting, Output: platform.OutputText},
	{Name: "email-writer", Title: "Email Writer", Category: CategoryWriting, Output: platform.OutputText},
	{Name: "social-media-post", Title: "Social Media Post", Category: CategoryWriting, Output: platform.OutputText},
	{Name: "paraphraser", Title: "Paraphraser", Category: CategoryWriting, Output: platform.OutputText},
	{Name: "grammar-checker", Title: "Grammar Checker", Category: CategoryWriting, Output: platform.OutputText},
	{Name: "summarizer", Title: "Summarizer", Category: CategoryWriting, Output: platform.OutputText},
	{Name: "story-writer", Title: "Story Writer", Category: CategoryWriting, Output: platform.OutputText, Heavy: true},

	{Name: "code-generator", Title: "Code Generator", Category: CategoryCode, Output: platform.OutputText},
	{Name: "code-explainer", Title: "Code Explainer", Category: CategoryCode, Output: platform.OutputText},
	{Name: "code-debugger", Title: "Code Debugger", Category: CategoryCode, Output: platform.OutputText},
	{Name: "sql-generator", Title: "SQL Generator", Category: CategoryCode, Output: platform.OutputText},

	{Name: "business-plan", Title: "Business Plan", Category: CategoryBusiness, Output: platform.OutputText, Heavy: true, Pro: true},
	{Name: "marketing-copy", Title: "Marketing Copy", Category: CategoryBusiness, Output: platform.OutputText},
	{Name: "product-description", Title: "Product Description", Category: CategoryBusiness, Output: platform.OutputText},
	{Name: "pitch-deck", Title: "Pitch Deck Outline", Category: CategoryBusiness, Output: platform.OutputText, Pro: true},

	{Name: "study-guide", Title: "Study Guide", Category: CategoryStudy, Output: platform.OutputText},
	{Name: "flashcard-maker", Title: "Flashcard Maker", Category: CategoryStudy, Output: platform.OutputText},
	{Name: "quiz-generator", Title: "Quiz Generator", Category: CategoryStudy, Output: platform.OutputText},
	{Name: "concept-explainer", Title: "Concept Explainer", Category: CategoryStudy, Output: platform.OutputText},

	{Name: "data-analyzer", Title: "Data Analyzer", Category: CategoryData, Output: platform.OutputText, Pro: true},
	{Name: "chart-recommender", Title: "Chart Recommender", Category: CategoryData, Output: platform.OutputText},

	{Name: "resume-builder", Title: "Resume Builder", Category: CategorySpecialized, Output: platform.OutputText},
	{Name: "cover-letter", Title: "Cover Letter", Category: CategorySpecialized, Output: platform.OutputText},
	{Name: "recipe-generator", Title: "Recipe Generator", Category: CategorySpecialized, Output: platform.OutputText},

	{Name: "image-generator", Title: "Image Generator", Category: CategoryImage, Output: platform.OutputImage, Heavy: true, Pro: true},

	{Name: "text-to-speech", Title: "Text to Speech", Category: CategoryAudio, Output: platform.OutputAudio, Heavy: true, Pro: true},
	{Name: "transcription", Title: "Transcription", Category: CategoryAudio, Output: platform.OutputText, Heavy: true, Pro: true},
}

type Catalog struct {
	byName map[string]Tool
}

func NewCatalog() *Catalog {
	byName := make(map[string]Tool, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
	}
	return &Catalog{byName: byName}
}

func (x *Catalog) Get(name string) (Tool, bool) {
	tool, ok := x.byName[name]
	return tool, ok
}

func (x *Catalog) All() []Tool {
	return tools
}
