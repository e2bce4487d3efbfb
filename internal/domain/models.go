// Package domain defines the persistence models and value types of the
// exit-page backend: the page draft that flows through the wizard, the
// availability record of the remote generator, and the GORM-mapped tables
// for key-value storage, comments and reactions.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// KVEntry is a single string value stored under (scope, key). Scopes partition
// the table by session so that every client sees its own namespace.
//
// Fields:
//   - Scope: owning session (or a fixed service scope).
//   - Key: application key, e.g. "exitPageData".
//   - Value: opaque string payload (usually JSON).
//   - UpdatedAt: last write time, managed by GORM.
type KVEntry struct {
	Scope     string    `gorm:"type:varchar(128);primaryKey"`
	Key       string    `gorm:"type:varchar(255);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"index"`
}

// TableName returns the database table name for KVEntry.
func (KVEntry) TableName() string { return "kv_entries" }

// Comment is a guest-book entry left on a published exit page.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - PageID: session id of the page owner (indexed).
//   - SessionID: session that wrote the comment; used for delete ownership.
//   - Author: display name (defaults to "Anonymous").
//   - Body: sanitized comment text.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Comment struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	PageID    string         `json:"page_id"    gorm:"type:varchar(128);not null;index:idx_page_comments,priority:1"`
	SessionID string         `json:"-"          gorm:"type:varchar(128);not null"`
	Author    string         `json:"author"     gorm:"type:varchar(120);not null;default:'Anonymous'"`
	Body      string         `json:"body"       gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_page_comments,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// Reaction is a single emoji-style reaction on a page. A visitor can react
// once per page (enforced by unique index).
type Reaction struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	PageID    string    `json:"page_id"    gorm:"type:varchar(128);not null;index;uniqueIndex:ux_reaction_page_user"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(128);not null;uniqueIndex:ux_reaction_page_user"`
	Kind      string    `json:"kind"       gorm:"type:varchar(16);not null;check:kind IN ('heart','laugh','cry','angry','clap','salute')"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Reaction.
func (Reaction) TableName() string { return "reactions" }

// ReactionKinds lists the accepted Reaction.Kind values.
var ReactionKinds = []string{"heart", "laugh", "cry", "angry", "clap", "salute"}

// ValidReactionKind reports whether k is one of ReactionKinds.
func ValidReactionKind(k string) bool {
	for _, v := range ReactionKinds {
		if v == k {
			return true
		}
	}
	return false
}
