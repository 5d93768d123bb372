//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Role represents the authorization level of a user
// ENUM(none,admin,super_admin)
type Role string
