package models

// Persona is a per-account override profile for stealth identities.
// Its category weights replace the learned weights outright, and its
// blocklist is checked on top of the shared validation rules.
type Persona struct {
	CategoryWeights    map[string]int `yaml:"categoryWeights"`
	LengthDistribution []LengthBand   `yaml:"lengthDistribution"`
	ExtraBlocklist     []string       `yaml:"extraBlocklist"`
}

// LengthBand is one entry of a persona's target-length distribution.
type LengthBand struct {
	MaxChars int `yaml:"maxChars"`
	Weight   int `yaml:"weight"`
}

// Account is one platform identity the bot posts as. Exactly one account
// is the non-stealth identity and learns weights from engagement; stealth
// accounts carry a persona that overrides the base weights instead.
type Account struct {
	Name        string   `yaml:"name"`
	UserID      string   `yaml:"userId"`
	AccessToken string   `yaml:"-"`
	Stealth     bool     `yaml:"stealth"`
	Persona     *Persona `yaml:"persona,omitempty"`
}
