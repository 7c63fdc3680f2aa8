// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the persisted entities of the blogging platform
// and their pure derived display values.
package models

import (
	"strings"
	"time"
)

// wordsPerMinute is the average reading speed used for the reading-time estimate.
const wordsPerMinute = 200

// Post represents a blog post. Categories holds the post's resolved
// category associations; it is populated by store read methods and never
// written directly.
type Post struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Slug       string     `json:"slug"`
	Published  bool       `json:"published"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Categories []Category `json:"categories"`
}

// WordCount returns the number of whitespace-delimited tokens in the
// post content. A blank content counts as zero words.
func (p Post) WordCount() int {
	return len(strings.Fields(p.Content))
}

// ReadingTime estimates reading time in whole minutes, rounding up,
// assuming 200 words per minute. Empty content reads in zero minutes.
func (p Post) ReadingTime() int {
	words := p.WordCount()
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// IsDraft reports whether the post is not yet published.
func (p Post) IsDraft() bool {
	return !p.Published
}
