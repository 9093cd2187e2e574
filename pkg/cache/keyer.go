package cache

// resultSchema is bumped whenever the serialized result layout changes so
// stale entries are never decoded into the new shape.
const resultSchema = 1

// KeyTypeResult names analysis result entries. It prefixes their keys and is
// the keyType reported to observability cache hooks.
const KeyTypeResult = "result"

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey returns the key for the analysis of the grid text whose
	// content hash is inputHash.
	ResultKey(inputHash string, opts ResultKeyOpts) string
}

// ResultKeyOpts holds the analysis options that change a result. The worker
// count is deliberately absent: results do not depend on it.
type ResultKeyOpts struct {
	MaxSteps int `json:"max_steps"`
}

// DefaultKeyer produces unscoped keys of the form "result:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey(KeyTypeResult, resultSchema, inputHash, opts)
}
