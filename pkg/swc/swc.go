package swc

// NodeID identifies one sample point within a reconstruction.
// Valid IDs are positive; NoParent marks the absence of a parent.
type NodeID int

// NoParent is the parent value of a root node.
const NoParent NodeID = -1

// StructType is the SWC structure type of a sample point.
type StructType int

// Standard SWC structure types. Values of 5 and above are
// producer-specific extensions and pass through unvalidated.
const (
	TypeUndefined      StructType = 0
	TypeSoma           StructType = 1
	TypeAxon           StructType = 2
	TypeBasalDendrite  StructType = 3
	TypeApicalDendrite StructType = 4
)

// IsDendrite reports whether the type is a dendritic subtype.
func (t StructType) IsDendrite() bool {
	return t == TypeBasalDendrite || t == TypeApicalDendrite
}

// String returns the conventional name of the structure type.
func (t StructType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeSoma:
		return "soma"
	case TypeAxon:
		return "axon"
	case TypeBasalDendrite:
		return "basal dendrite"
	case TypeApicalDendrite:
		return "apical dendrite"
	default:
		return "custom"
	}
}

// Node is one row of an SWC file.
type Node struct {
	ID     NodeID     `json:"id" bson:"id"`
	Type   StructType `json:"type" bson:"type"`
	X      float64    `json:"x" bson:"x"`
	Y      float64    `json:"y" bson:"y"`
	Z      float64    `json:"z" bson:"z"`
	Radius float64    `json:"radius" bson:"radius"`
	Parent NodeID     `json:"parent" bson:"parent"`
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.Parent == NoParent }

// Options configures decoding and encoding.
type Options struct {
	// Delimiter is the column separator. An empty string or a single
	// space selects whitespace mode, where any run of spaces and tabs
	// separates columns. Any other string is matched literally.
	Delimiter string
}

// whitespaceMode reports whether runs of blanks should be collapsed.
func (o Options) whitespaceMode() bool {
	return o.Delimiter == "" || o.Delimiter == " " || o.Delimiter == "\t"
}

// delimiter returns the separator to use when writing rows.
func (o Options) delimiter() string {
	if o.Delimiter == "" {
		return " "
	}
	return o.Delimiter
}
