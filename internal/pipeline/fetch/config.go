// internal/pipeline/fetch/config.go
package fetch

// Config holds the static part of the fetch stage: which actor to run
// and the filters it runs with.
type Config struct {
	ActorID string
	Filters FilterSpec
}
