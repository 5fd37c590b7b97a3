/*
Package post defines the blog post record returned by the PixelMinds API and the
list views the client derives from it.

The API serves ids both as JSON numbers and as numeric strings and timestamps in more
than one layout; the decoding here normalizes both and rejects records missing a
required field, so a malformed response fails at the boundary with a typed error.
*/
package post

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTitle is used when a post is submitted without a title.
const DefaultTitle = "Untitled Blog"

// AuthorRoleAdmin marks posts written under the admin role.
const AuthorRoleAdmin = "admin"

// ErrContentRequired is returned by Draft.Normalize for a post without content.
var ErrContentRequired = errors.New("post must have content")

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ID is a numeric identifier that accepts JSON numbers and numeric strings.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*id = 0
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", data)
	}
	*id = ID(n)
	return nil
}

// Timestamp is a time that accepts RFC 3339 and MySQL-style datetime strings.
type Timestamp struct {
	time.Time
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		if string(data) == "null" {
			ts.Time = time.Time{}
			return nil
		}
		return fmt.Errorf("invalid timestamp %s", data)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		ts.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339))
}

// Post is a blog post as listed by the API.
type Post struct {
	ID         ID        `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       string    `json:"tags"`
	AuthorID   ID        `json:"author_id"`
	AuthorRole string    `json:"author_role"`
	AuthorName string    `json:"user_fullname"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  Timestamp `json:"created_at"`
}

// Validate checks the fields every listed post must carry.
func (p Post) Validate() error {
	switch {
	case p.ID <= 0:
		return errors.New("post id is missing")
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("post %d: title is missing", p.ID)
	case p.AuthorID <= 0:
		return fmt.Errorf("post %d: author_id is missing", p.ID)
	case p.CreatedAt.IsZero():
		return fmt.Errorf("post %d: created_at is missing", p.ID)
	}
	return nil
}

// Draft is the editable part of a post sent on create and update.
type Draft struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Tags     string `json:"tags"`
	AuthorID int64  `json:"author_id"`
}

// Normalize applies the submission rules: an empty title becomes DefaultTitle,
// empty content is rejected and tags are rewritten as a ", " separated list.
func (d Draft) Normalize() (Draft, error) {
	if strings.TrimSpace(d.Content) == "" {
		return Draft{}, ErrContentRequired
	}
	if strings.TrimSpace(d.Title) == "" {
		d.Title = DefaultTitle
	}
	d.Tags = NormalizeTags(d.Tags)
	return d, nil
}

var tagSeparators = regexp.MustCompile(`[,\s]+`)

// NormalizeTags splits raw on commas and whitespace and joins the non-empty tags with ", ".
func NormalizeTags(raw string) string {
	var tags []string
	for _, tag := range tagSeparators.Split(raw, -1) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return strings.Join(tags, ", ")
}
