package post

import (
	"slices"
	"strings"
	"time"

	"pixelminds/internal/pkg/auth/jwt"
)

// The helpers below never modify their input; each returns a new slice.

// VisibleTo hides posts written under the admin role from viewers who are not admins.
// This is a display convenience; it grants or denies nothing on the server.
func VisibleTo(posts []Post, viewer *jwt.Identity) []Post {
	if viewer.IsAdmin() {
		return slices.Clone(posts)
	}
	return filter(posts, func(p Post) bool {
		return p.AuthorRole != AuthorRoleAdmin
	})
}

// SortNewest orders posts by creation time, newest first. Ties keep their input order.
func SortNewest(posts []Post) []Post {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b Post) int {
		return b.CreatedAt.Compare(a.CreatedAt.Time)
	})
	return sorted
}

// Search keeps posts whose title or tags contain term, case-insensitively.
// A blank term keeps everything.
func Search(posts []Post, term string) []Post {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(posts)
	}
	return filter(posts, func(p Post) bool {
		return strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Tags), term)
	})
}

// ByAuthorName keeps posts whose author's full name contains term, case-insensitively.
func ByAuthorName(posts []Post, term string) []Post {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(posts)
	}
	return filter(posts, func(p Post) bool {
		return strings.Contains(strings.ToLower(p.AuthorName), term)
	})
}

// ByMonth keeps posts created in the given calendar month (1-12) of any year.
func ByMonth(posts []Post, month time.Month) []Post {
	return filter(posts, func(p Post) bool {
		return p.CreatedAt.Month() == month
	})
}

// ByAuthor keeps posts written by the user with the given id.
func ByAuthor(posts []Post, authorID int64) []Post {
	return filter(posts, func(p Post) bool {
		return int64(p.AuthorID) == authorID
	})
}

// Truncate shortens text to at most maxLength runes followed by "...".
func Truncate(text string, maxLength int) string {
	runes := []rune(text)
	if maxLength < 0 || len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "..."
}

func filter(posts []Post, keep func(Post) bool) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
