package core

// render.go serializes validated records.
//
// Each output format and dataset type has one Renderer. The pipeline picks
// a renderer once per run with RendererFor, so no per-record switch on the
// dataset type is needed.

import (
	"io"

	"github.com/JonMunkholm/csvprep/internal/schema"
)

// RecordSeparator terminates every text block.
const RecordSeparator = "---"

// Renderer writes one record as a self-delimited unit.
// fields is padded to at least len(fs).
type Renderer interface {
	Render(w io.Writer, fields []string, fs []schema.FieldSchema) error
}

// RendererFor returns the renderer for an output format and dataset type.
func RendererFor(format Format, t schema.DatasetType) Renderer {
	if format == FormatJSON {
		return JSONRenderer{}
	}
	switch t {
	case schema.TypeSentiment:
		return SentimentRenderer{}
	case schema.TypeLeetcode:
		return LeetcodeRenderer{}
	case schema.TypeQA:
		return QARenderer{}
	case schema.TypeClassification:
		return ClassificationRenderer{}
	default:
		return GenericRenderer{}
	}
}

// JSONRenderer writes one JSON object per line, keyed by schema field name
// in schema order. Values are written verbatim between double quotes:
// embedded quotes, backslashes and control bytes are not escaped, so a line
// is only valid JSON when its values are free of them.
type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, fields []string, fs []schema.FieldSchema) error {
	buf := make([]byte, 0, 128)
	buf = append(buf, '{')
	for i, f := range fs {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '"')
		buf = append(buf, f.Name...)
		buf = append(buf, `":"`...)
		buf = append(buf, fieldAt(fields, i)...)
		buf = append(buf, '"')
	}
	buf = append(buf, "}\n"...)
	_, err := w.Write(buf)
	return err
}

// SentimentRenderer writes Text/Sentiment blocks.
type SentimentRenderer struct{}

func (SentimentRenderer) Render(w io.Writer, fields []string, _ []schema.FieldSchema) error {
	return writeBlock(w, []string{"Text", "Sentiment"}, fields)
}

// LeetcodeRenderer writes Problem/Difficulty/Description blocks.
type LeetcodeRenderer struct{}

func (LeetcodeRenderer) Render(w io.Writer, fields []string, _ []schema.FieldSchema) error {
	return writeBlock(w, []string{"Problem", "Difficulty", "Description"}, fields)
}

// QARenderer writes Question/Answer blocks.
type QARenderer struct{}

func (QARenderer) Render(w io.Writer, fields []string, _ []schema.FieldSchema) error {
	return writeBlock(w, []string{"Question", "Answer"}, fields)
}

// ClassificationRenderer writes Text/Category blocks.
type ClassificationRenderer struct{}

func (ClassificationRenderer) Render(w io.Writer, fields []string, _ []schema.FieldSchema) error {
	return writeBlock(w, []string{"Text", "Category"}, fields)
}

// GenericRenderer labels every value with its schema field name.
type GenericRenderer struct{}

func (GenericRenderer) Render(w io.Writer, fields []string, fs []schema.FieldSchema) error {
	return writeBlock(w, schema.Names(fs), fields)
}

// writeBlock writes "label: value" lines followed by the record separator.
func writeBlock(w io.Writer, labels []string, fields []string) error {
	buf := make([]byte, 0, 128)
	for i, label := range labels {
		buf = append(buf, label...)
		buf = append(buf, ": "...)
		buf = append(buf, fieldAt(fields, i)...)
		buf = append(buf, '\n')
	}
	buf = append(buf, RecordSeparator+"\n"...)
	_, err := w.Write(buf)
	return err
}

func fieldAt(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
