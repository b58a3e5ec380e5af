// internal/pipeline/fetch/models.go
package fetch

import (
	"fmt"
	"time"

	"ideas-pipeline/internal/common/config"
)

const dateLayout = "2006-01-02"

// FilterSpec is the declarative search the actor executes. Since/until
// bound the window and are required; everything else narrows it.
type FilterSpec struct {
	WordsAnd     []string
	WordsOr      []string
	Hashtag      []string
	Since        string
	Until        string
	MaxItems     int
	FromUser     string
	ToUser       string
	Type         string
	Lang         string
	Verified     bool
	BlueVerified bool
	Retweets     bool
	Replies      bool
	Mentions     bool
	Hashtags     bool
	Images       bool
	Videos       bool
	MinLikes     int
	MinReplies   int
	MinRetweets  int
	Geocode      string
	Place        string
	Near         string
	Within       string
}

// FilterSpecFromConfig builds a FilterSpec from static configuration.
// The date window is left empty; ApplyWindow fills it per run.
func FilterSpecFromConfig(fc config.FiltersConfig) FilterSpec {
	return FilterSpec{
		WordsAnd:     fc.WordsAnd,
		WordsOr:      fc.WordsOr,
		Hashtag:      fc.Hashtag,
		MaxItems:     fc.MaxItems,
		FromUser:     fc.FromUser,
		ToUser:       fc.ToUser,
		Type:         fc.Type,
		Lang:         fc.Lang,
		Verified:     fc.Verified,
		BlueVerified: fc.BlueVerified,
		Retweets:     fc.Retweets,
		Replies:      fc.Replies,
		Mentions:     fc.Mentions,
		Hashtags:     fc.Hashtags,
		Images:       fc.Images,
		Videos:       fc.Videos,
		MinLikes:     fc.MinLikes,
		MinReplies:   fc.MinReplies,
		MinRetweets:  fc.MinRetweets,
		Geocode:      fc.Geocode,
		Place:        fc.Place,
		Near:         fc.Near,
		Within:       fc.Within,
	}
}

// ApplyWindow recomputes the search window for a run: two days ago
// through today.
func (f *FilterSpec) ApplyWindow(now time.Time) {
	f.Since = now.AddDate(0, 0, -2).Format(dateLayout)
	f.Until = now.Format(dateLayout)
}

// Validate checks the window invariant: both bounds present, since
// strictly before until.
func (f *FilterSpec) Validate() error {
	if f.Since == "" || f.Until == "" {
		return fmt.Errorf("filter window requires both since and until")
	}
	since, err := time.Parse(dateLayout, f.Since)
	if err != nil {
		return fmt.Errorf("invalid since date %q: %w", f.Since, err)
	}
	until, err := time.Parse(dateLayout, f.Until)
	if err != nil {
		return fmt.Errorf("invalid until date %q: %w", f.Until, err)
	}
	if !since.Before(until) {
		return fmt.Errorf("since %q must be before until %q", f.Since, f.Until)
	}
	return nil
}

// ActorInput renders the filters as the actor's input document. Key names
// are the provider's, not ours.
func (f *FilterSpec) ActorInput() map[string]interface{} {
	return map[string]interface{}{
		"words_and":     nonNil(f.WordsAnd),
		"words_or":      nonNil(f.WordsOr),
		"hashtag":       nonNil(f.Hashtag),
		"since":         f.Since,
		"until":         f.Until,
		"maxItems":      f.MaxItems,
		"from_user":     f.FromUser,
		"to_user":       f.ToUser,
		"type":          f.Type,
		"lang":          f.Lang,
		"verified":      f.Verified,
		"blue_verified": f.BlueVerified,
		"retweets":      f.Retweets,
		"replies":       f.Replies,
		"mentions":      f.Mentions,
		"hashtags":      f.Hashtags,
		"images":        f.Images,
		"videos":        f.Videos,
		"min_likes":     f.MinLikes,
		"min_replies":   f.MinReplies,
		"min_retweets":  f.MinRetweets,
		"geocode":       f.Geocode,
		"place":         f.Place,
		"near":          f.Near,
		"within":        f.Within,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
