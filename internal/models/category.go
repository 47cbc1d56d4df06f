package models

// Category is a weighted topic bucket the selector draws from.
// Weight is a relative probability; it is recomputed every run and
// never persisted across process restarts.
type Category struct {
	ID     string `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	Weight int    `json:"weight" yaml:"weight"`
}

// Well-known category ids. The trend category is exempt from the
// per-category cooldown because every invocation targets a different keyword.
const (
	CategoryKnowhow  = "knowhow"
	CategorySeasonal = "seasonal"
	CategoryArea     = "area"
	CategoryTrend    = "trend"
	CategoryQA       = "qa"
)

// Topic is an ephemeral content seed produced by a topic source.
// Key is the stable dedup identifier (category:sourceId:subIndex); it is
// never persisted except embedded inside a PostRecord.
type Topic struct {
	Key      string
	Category string
	Title    string
	Body     string
	Source   string
}
