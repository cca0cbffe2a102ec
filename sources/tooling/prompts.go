package tooling

import "fmt"

// System prompts never reveal which provider sits behind the engine. The
// sanitizer is the backstop, not the primary defense.
var categorySystems = map[string]string{
	CategoryWriting:     "You are a professional writing assistant. Produce polished, well-structured text. Never mention what technology you are built on.",
	CategoryCode:        "You are an expert software engineer. Produce correct, idiomatic code with brief explanations. Never mention what technology you are built on.",
	CategoryBusiness:    "You are a seasoned business consultant. Produce practical, actionable output. Never mention what technology you are built on.",
	CategoryStudy:       "You are a patient tutor. Explain clearly and structure material for learning. Never mention what technology you are built on.",
	CategoryData:        "You are a data analyst. Be precise and base every statement on the data given. Never mention what technology you are built on.",
	CategorySpecialized: "You are a versatile assistant for specialized documents. Follow the requested format exactly. Never mention what technology you are built on.",
}

var toolSystems = map[string]string{
	"essay-writer":    "You are an academic writing assistant. Write well-argued essays with a clear thesis, supporting paragraphs and a conclusion. Never mention what technology you are built on.",
	"grammar-checker": "You are a meticulous editor. Correct grammar, spelling and punctuation while preserving the author's voice. Never mention what technology you are built on.",
	"sql-generator":   "You are a database expert. Generate correct, efficient SQL and note any assumptions about the schema. Never mention what technology you are built on.",
	"business-plan":   "You are a business plan consultant. Produce a structured plan with executive summary, market analysis, operations and financial outline. Never mention what technology you are built on.",
	"flashcard-maker": "You are a study aid generator. Produce flashcards as question/answer pairs, one concept per card. Never mention what technology you are built on.",
}

var toolBuilders = map[string]func(input string) string{
	"article-writer": func(input string) string {
		return fmt.Sprintf("Write an engaging, well-researched article on the following topic:\n\n%s", input)
	},
	"essay-writer": func(input string) string {
		return fmt.Sprintf("Write a well-structured essay on the following topic:\n\n%s", input)
	},
	"paraphraser": func(input string) string {
		return fmt.Sprintf("Paraphrase the following text, keeping the meaning intact:\n\n%s", input)
	},
	"grammar-checker": func(input string) string {
		return fmt.Sprintf("Correct the grammar and spelling in the following text. Return the corrected text followed by a short list of the changes:\n\n%s", input)
	},
	"summarizer": func(input string) string {
		return fmt.Sprintf("Summarize the following text into its key points:\n\n%s", input)
	},
	"code-generator": func(input string) string {
		return fmt.Sprintf("Write code for the following task. Include a brief usage note:\n\n%s", input)
	},
	"code-explainer": func(input string) string {
		return fmt.Sprintf("Explain what the following code does, step by step:\n\n%s", input)
	},
	"code-debugger": func(input string) string {
		return fmt.Sprintf("Find and fix the bugs in the following code. Explain each fix:\n\n%s", input)
	},
	"sql-generator": func(input string) string {
		return fmt.Sprintf("Write a SQL query for the following request:\n\n%s", input)
	},
	"business-plan": func(input string) string {
		return fmt.Sprintf("Create a business plan for the following idea:\n\n%s", input)
	},
	"flashcard-maker": func(input string) string {
		return fmt.Sprintf("Create study flashcards from the following material:\n\n%s", input)
	},
	"quiz-generator": func(input string) string {
		return fmt.Sprintf("Create a quiz with answers from the following material:\n\n%s", input)
	},
	"resume-builder": func(input string) string {
		return fmt.Sprintf("Build a professional resume from the following background:\n\n%s", input)
	},
	"cover-letter": func(input string) string {
		return fmt.Sprintf("Write a tailored cover letter based on the following details:\n\n%s", input)
	},
}

type PromptRegistry struct{}

func NewPromptRegistry() *PromptRegistry {
	return &PromptRegistry{}
}

func (x *PromptRegistry) System(tool Tool) string {
	if system, ok := toolSystems[tool.Name]; ok {
		return system
	}
	if system, ok := categorySystems[tool.Category]; ok {
		return system
	}
	return categorySystems[CategorySpecialized]
}

// Build never fails: unknown tools fall through to a generic task framing.
func (x *PromptRegistry) Build(tool Tool, input string) string {
	if builder, ok := toolBuilders[tool.Name]; ok {
		return builder(input)
	}
	return fmt.Sprintf("Task: %s\n\n%s", tool.Title, input)
}
