// Package metadata describes the data elements consumed and produced by
// agents. Each file handled by the VRE carries a Metadata value recording
// what kind of data it holds, where it lives and which inputs it was
// derived from.
package metadata

// Metadata describes a single data element. The JSON shape matches the
// entries of the VRE input_metadata.json document.
type Metadata struct {
	// Type is the kind of element, normally "file".
	Type string `json:"type,omitempty"`

	// DataType is the nature of the data ("Number", "sequence_dna", ...).
	DataType string `json:"data_type"`

	// FileType is the file format ("plainText", "FASTA", ...).
	FileType string `json:"file_type"`

	// FilePath is the absolute path of the element.
	FilePath string `json:"file_path"`

	// Compressed names the compression scheme, empty for none.
	Compressed string `json:"compressed,omitempty"`

	// Sources are the paths of the data elements this one was derived from.
	Sources []string `json:"sources,omitempty"`

	// Meta carries tool-specific annotations.
	Meta map[string]any `json:"meta_data,omitempty"`
}

// DefaultType is assumed for elements that do not declare a type.
const DefaultType = "file"

// New creates file metadata of the given data and file types.
func New(dataType, fileType string) Metadata {
	return Metadata{
		Type:     DefaultType,
		DataType: dataType,
		FileType: fileType,
	}
}

// NewChild derives metadata for an output located at path from the
// metadata of the inputs it was computed from. Inputs and outputs share
// most metadata: the child inherits the data and file types of the first
// parent and records every parent path as a source.
func NewChild(path string, parents ...Metadata) Metadata {
	child := Metadata{
		Type:     DefaultType,
		FilePath: path,
	}
	if len(parents) == 0 {
		return child
	}
	child.DataType = parents[0].DataType
	child.FileType = parents[0].FileType
	for _, p := range parents {
		if p.FilePath != "" {
			child.Sources = append(child.Sources, p.FilePath)
		}
	}
	return child
}
