// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

// Package review implements user reviews on catalogued titles and the
// comment threads attached to them.
//
// Each user may review a title at most once; the score feeds the title's
// aggregate rating. Comments hang off a single review.
package review

import "time"

// Review is a user's scored opinion on a title.
//
// Author is the review author's current username, resolved at read time
// so renames are reflected immediately.
type Review struct {
	ID        int64     `json:"id"`
	TitleID   int64     `json:"title_id"`
	AuthorID  string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a reply in a review's discussion thread.
type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"review_id"`
	AuthorID  string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Field identifiers used in validation errors.
const (
	FieldText  = "text"
	FieldScore = "score"
)
