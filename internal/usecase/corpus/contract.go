package corpus

// Formats reports which file names can be ingested.
type Formats interface {
	Supported(name string) bool
}
