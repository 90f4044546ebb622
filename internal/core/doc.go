// Package core provides the conversion pipeline that turns delimited text
// files into cleaned, validated, de-duplicated records.
//
// This package holds all conversion logic independent of the command line.
// It can be driven by the csvprep CLI, other tools, or tests without
// modification.
//
// # Architecture
//
// A run is built from small stages, each usable on its own:
//
//   - Sniffing: [DetectEncoding] and [DetectDelimiter] inspect the head of
//     the input and rewind it.
//   - Tokenizing: [Tokenize] splits one line into at most [MaxFields] fields,
//     honoring single or double quotes.
//   - Normalizing: [Normalize] cleans one field (null markers, entities,
//     markup, whitespace, punctuation runs).
//   - Validating: [RecordValidator] checks a record against the field
//     schemas from the schema package.
//   - Dedup: [DedupFilter] drops records whose first field was seen before.
//   - Rendering: [Renderer] writes one record as a text block or a JSON line.
//
// [Pipeline] wires the stages together and keeps the counters in [Stats].
//
// # Running a Conversion
//
//	fields, err := schema.FieldsFor(schema.TypeSentiment)
//	if err != nil {
//	    return err
//	}
//	p, err := core.NewPipeline(core.Config{
//	    Type:             schema.TypeSentiment,
//	    Encoding:         core.EncodingAuto,
//	    HasHeader:        true,
//	    RemoveDuplicates: true,
//	    ValidateData:     true,
//	    Fields:           fields,
//	    Format:           core.FormatText,
//	})
//	if err != nil {
//	    return err
//	}
//	stats, err := p.RunFiles(ctx, "reviews.csv", "reviews.txt")
//
// Input is streamed line by line with memory bounded by [MaxLineLength]
// and the dedup table, regardless of file size. Progress is reported every
// [DefaultProgressInterval] records through the logger and an optional
// [ProgressFunc].
//
// # Error Handling
//
// Problems with individual lines never end a run; they are counted in
// [Stats]. Only open, read and write failures or a cancelled context do.
// Technical errors are mapped to user-friendly messages using [MapError]:
//
//   - PIPE001-PIPE002: Run errors (cancelled, nothing written)
//   - FILE001-FILE005: File errors (open, sniff, read, write)
//   - CFG001-CFG005: Configuration errors (settings, schema, type)
package core
