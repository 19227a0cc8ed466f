package cache

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// CaptureKey identifies a captured bundle by its request triple.
	CaptureKey(target, mode string, inject bool) string

	// GraphKey identifies a built document by the hashes of its inputs.
	GraphKey(configHash, pageHash string) string

	// LayoutKey identifies a layout computed from a set of documents.
	LayoutKey(docsHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout options that change the output.
type LayoutKeyOpts struct {
	VizType    string  `json:"viz_type"`
	Slot       string  `json:"slot,omitempty"`
	MaxColumns int     `json:"max_columns,omitempty"`
	CellWidth  float64 `json:"cell_width,omitempty"`
	CellHeight float64 `json:"cell_height,omitempty"`
	DiffHash   string  `json:"diff_hash,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
}

// ArtifactKeyOpts holds the render options that change the output.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Engine   string `json:"engine,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CaptureKey implements Keyer.
func (DefaultKeyer) CaptureKey(target, mode string, inject bool) string {
	return hashKey("capture", target, mode, inject)
}

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(configHash, pageHash string) string {
	return hashKey("graph", configHash, pageHash)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(docsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
