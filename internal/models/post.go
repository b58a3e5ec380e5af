// internal/models/post.go
package models

import (
	"encoding/json"
	"strconv"
)

// RawPost is a single provider record, kept opaque so unknown fields
// survive snapshot serialization byte-for-byte in meaning.
type RawPost map[string]interface{}

// Typed accessors over the provider's field names. Missing or
// wrongly-typed fields fall back to zero values.

func (p RawPost) ID() string        { return p.stringField("id") }
func (p RawPost) Text() string      { return p.stringField("tweet_text") }
func (p RawPost) UserHandle() string { return p.stringField("user_handle") }
func (p RawPost) CreatedAt() string { return p.stringField("tweet_created_at") }
func (p RawPost) URL() string       { return p.stringField("tweet_url") }

func (p RawPost) FavoriteCount() int { return p.intField("tweet_favorite_count") }
func (p RawPost) RetweetCount() int  { return p.intField("tweet_retweet_count") }
func (p RawPost) ReplyCount() int    { return p.intField("tweet_reply_count") }

// Observability-only counters and flags, as the provider reports them.

func (p RawPost) LikesCount() int        { return p.intField("likesCount") }
func (p RawPost) PublicRetweetCount() int { return p.intField("retweetCount") }
func (p RawPost) PublicReplyCount() int  { return p.intField("replyCount") }

func (p RawPost) Username() string    { return p.stringField("username") }
func (p RawPost) IsRetweet() bool     { return p.boolField("isRetweet") }
func (p RawPost) IsReply() bool       { return p.boolField("isReply") }
func (p RawPost) IsQuote() bool       { return p.boolField("isQuote") }
func (p RawPost) IsVerified() bool    { return p.boolField("verified") }
func (p RawPost) IsBlueVerified() bool { return p.boolField("blueVerified") }

func (p RawPost) stringField(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func (p RawPost) intField(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func (p RawPost) boolField(key string) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return false
}

// NormalizedPost is the flat analysis-facing view of a post. The JSON
// tags match the persisted analysis document.
type NormalizedPost struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	UserHandle      string `json:"user_handle"`
	CreatedAt       string `json:"created_at"`
	EngagementScore int    `json:"engagement_score"`
	URL             string `json:"url"`
}
