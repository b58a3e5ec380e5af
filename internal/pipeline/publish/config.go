// internal/pipeline/publish/config.go
package publish

// Config holds settings for the best-effort git publish stage.
type Config struct {
	RepoPath    string
	RemoteName  string
	Token       string
	AuthorName  string
	AuthorEmail string
}
