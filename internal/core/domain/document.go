package domain

import "encoding/json"

// Cell is one extracted notebook cell.
type Cell struct {
	// Type is the notebook cell_type (markdown, code, raw).
	Type string `json:"type"`

	// Content is the cell source flattened into one string.
	Content string `json:"content"`
}

// Document is the normalised representation of one file's content.
// It is the terminal artefact of the pipeline.
//
// A Document is either a success (Text and Metadata, plus format-specific
// extras) or a failure carrying only an error message. Failures are built
// with FailedDocument.
type Document struct {
	// ID is a stable identifier derived from the document's origin.
	ID string

	// Text is the extracted text content.
	Text string

	// Metadata always includes "name" and "format".
	Metadata map[string]any

	// StructuredData holds the parsed value for the json format only.
	StructuredData any

	// Cells holds the ordered cells for the notebook format only.
	Cells []Cell

	err string
}

// FailedDocument builds a failure document carrying msg.
func FailedDocument(msg string) Document {
	if msg == "" {
		msg = "unknown error"
	}
	return Document{err: msg}
}

// Err returns the failure message, or "" for successes.
func (d Document) Err() string {
	return d.err
}

// Failed reports whether the document is a failure.
func (d Document) Failed() bool {
	return d.err != ""
}

// Format returns the format recorded in metadata.
func (d Document) Format() Format {
	if d.Metadata == nil {
		return ""
	}
	s, _ := d.Metadata["format"].(string)
	return Format(s)
}

// documentJSON is the wire shape of a successful Document.
type documentJSON struct {
	ID             string         `json:"id,omitempty"`
	Text           string         `json:"text"`
	Metadata       map[string]any `json:"metadata"`
	StructuredData *any           `json:"structured_data,omitempty"`
	Cells          *[]Cell        `json:"cells,omitempty"`
}

// MarshalJSON encodes either the success fields or {"error": ...}.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: d.err})
	}
	out := documentJSON{
		ID:       d.ID,
		Text:     d.Text,
		Metadata: d.Metadata,
	}
	// A json document keeps structured_data even when it parsed to null,
	// and a notebook keeps cells even when it has none.
	if d.StructuredData != nil || d.Format() == FormatJSON {
		out.StructuredData = &d.StructuredData
	}
	if d.Cells != nil || d.Format() == FormatNotebook {
		cells := d.Cells
		if cells == nil {
			cells = []Cell{}
		}
		out.Cells = &cells
	}
	return json.Marshal(out)
}
