//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// MatchMode represents how a keyword rule pattern is evaluated against text
// ENUM(substring,regex,whole_word)
type MatchMode string
