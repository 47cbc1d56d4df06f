package buzz

import "threadcaster/internal/models"

// Tier maps a virality threshold to a reply probability. Tiers are
// evaluated highest-first; a post qualifies on views OR likes.
type Tier struct {
	Level       models.BuzzLevel
	MinViews    int
	MinLikes    int
	Probability float64
}

var tiers = []Tier{
	{Level: models.BuzzViral, MinViews: 5000, MinLikes: 20, Probability: 1.0},
	{Level: models.BuzzHot, MinViews: 2000, MinLikes: 10, Probability: 0.8},
	{Level: models.BuzzWarm, MinViews: 1000, MinLikes: 5, Probability: 0.5},
}

var baselineTier = Tier{Level: models.BuzzBaseline, Probability: 0.2}

// Classify returns the buzz tier for an engagement snapshot.
func Classify(e models.Engagement) Tier {
	for _, t := range tiers {
		if e.Views >= t.MinViews || e.Likes >= t.MinLikes {
			return t
		}
	}
	return baselineTier
}
