//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Action represents the outcome of a moderation decision
// ENUM(allow,block)
type Action string
