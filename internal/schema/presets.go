package schema

// SentimentFields is the layout of review/sentiment datasets: a text
// column followed by its sentiment label.
var SentimentFields = []FieldSchema{
	{Name: "text", Index: 0, Required: true, MinLength: MinTextLength},
	{Name: "sentiment", Index: 1, Required: true, IsLabel: true},
}

// LeetcodeFields is the layout of programming problem datasets.
var LeetcodeFields = []FieldSchema{
	{Name: "title", Index: 0, Required: true},
	{Name: "difficulty", Index: 1, Required: true},
	{Name: "description", Index: 2, Required: true, MinLength: 50},
}

// QAFields is the layout of question/answer datasets.
var QAFields = []FieldSchema{
	{Name: "question", Index: 0, Required: true},
	{Name: "answer", Index: 1, Required: true},
}

// ClassificationFields is the layout of text classification datasets.
var ClassificationFields = []FieldSchema{
	{Name: "text", Index: 0, Required: true},
	{Name: "category", Index: 1, Required: true, IsLabel: true},
}

// CustomFields is the fallback layout for custom datasets without a schema
// file: two optional, unconstrained columns.
var CustomFields = []FieldSchema{
	{Name: "field1", Index: 0},
	{Name: "field2", Index: 1},
}

func init() {
	Register(Preset{Type: TypeSentiment, Label: "Sentiment", Fields: SentimentFields})
	Register(Preset{Type: TypeLeetcode, Label: "Leetcode problems", Fields: LeetcodeFields})
	Register(Preset{Type: TypeQA, Label: "Question answering", Fields: QAFields})
	Register(Preset{Type: TypeClassification, Label: "Classification", Fields: ClassificationFields})
	Register(Preset{Type: TypeCustom, Label: "Custom", Fields: CustomFields})
}
