package selector

import (
	"time"

	"threadcaster/internal/models"
)

// WeightingPolicy turns the base category weights into the effective
// weights for one account. The non-stealth account learns from engagement;
// stealth accounts carry a persona that overrides the base weights.
type WeightingPolicy interface {
	EffectiveWeights(base []models.Category) []models.Category
}

// AdaptivePolicy adjusts weights from the account's engagement history.
type AdaptivePolicy struct {
	Records []models.PostRecord
	Now     time.Time
}

// EffectiveWeights applies the engagement-derived multipliers.
func (p AdaptivePolicy) EffectiveWeights(base []models.Category) []models.Category {
	return Adjust(base, p.Records, p.Now)
}

// OverridePolicy replaces base weights with a persona's fixed ratios.
// Categories the persona does not mention get weight zero, so a persona
// fully determines what its account posts about.
type OverridePolicy struct {
	Persona *models.Persona
}

// EffectiveWeights substitutes the persona weights.
func (p OverridePolicy) EffectiveWeights(base []models.Category) []models.Category {
	out := make([]models.Category, len(base))
	copy(out, base)
	if p.Persona == nil {
		return out
	}
	for i, cat := range out {
		out[i].Weight = p.Persona.CategoryWeights[cat.ID]
	}
	return out
}

// PolicyFor picks the weighting policy for an account.
func PolicyFor(account *models.Account, records []models.PostRecord, now time.Time) WeightingPolicy {
	if account.Stealth && account.Persona != nil {
		return OverridePolicy{Persona: account.Persona}
	}
	return AdaptivePolicy{Records: records, Now: now}
}
