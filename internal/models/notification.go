package models

import (
	"encoding/json"
	"time"
)

// Notification type discriminators.
const (
	TypePolicy = "policy"
	TypeClaim  = "claim"
	TypeNews   = "news"
)

// Priority levels carried on the base notification record.
const (
	PriorityLow    = 0
	PriorityMedium = 1
	PriorityHigh   = 2
)

// Notification is the base record shared by every subtype (PostgreSQL).
// Exactly one of Policy/Claim/News is populated, matching Type.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Sender    string    `json:"sender" gorm:"index;size:50"`
	Recipient string    `json:"recipient" gorm:"index;size:50"`
	Type      string    `json:"type" gorm:"size:10;index"` // policy, claim, news
	Priority  int       `json:"priority" gorm:"default:0"` // 0=low, 1=medium, 2=high
	IsActive  bool      `json:"is_active" gorm:"default:true;index"`
	IsFlagged bool      `json:"is_flagged" gorm:"default:false"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	IsDraft   bool      `json:"is_draft" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	Policy *PolicyNotif `json:"policy_notif,omitempty" gorm:"foreignKey:NotifID"`
	Claim  *ClaimNotif  `json:"claim_notif,omitempty" gorm:"foreignKey:NotifID"`
	News   *NewsNotif   `json:"news_notif,omitempty" gorm:"foreignKey:NotifID"`
}

// PolicyNotif is the policy update payload. It keeps its own is_read and
// is_archived columns from the original Mallard schema even though the base
// record also tracks is_read.
type PolicyNotif struct {
	NotifID    uint   `json:"notif_id" gorm:"primaryKey"`
	PolicyID   string `json:"policy_id" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
	Body       string `json:"body"`
	IsRead     bool   `json:"is_read" gorm:"default:false"`
	IsArchived bool   `json:"is_archived" gorm:"default:false"`
}

func (PolicyNotif) TableName() string { return "policy_notifs" }

// ClaimNotif is the claim task payload. PolicyHolder and Claimant reference
// existing usernames.
type ClaimNotif struct {
	NotifID      uint   `json:"notif_id" gorm:"primaryKey"`
	PolicyHolder string `json:"policy_holder" validate:"required"`
	Claimant     string `json:"claimant" validate:"required"`
	Type         string `json:"type" validate:"required"` // claim category, free text
	DueDate      string `json:"due_date" gorm:"type:date" validate:"required"`
	Business     string `json:"business"`
	Description  string `json:"description"`
	IsCompleted  bool   `json:"is_completed" gorm:"default:false"`
}

func (ClaimNotif) TableName() string { return "claim_notifs" }

// NewsNotif is the news bulletin payload.
type NewsNotif struct {
	NotifID   uint   `json:"notif_id" gorm:"primaryKey"`
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body"`
	Type      string `json:"type" validate:"required"` // news category, free text
	CreatedOn string `json:"created_on" gorm:"type:date"`
	ExpiresOn string `json:"expires_on" gorm:"type:date"`
}

func (NewsNotif) TableName() string { return "news_notifs" }

// ValidType reports whether t is a known notification discriminator.
func ValidType(t string) bool {
	return t == TypePolicy || t == TypeClaim || t == TypeNews
}

// ValidPriority reports whether p is within the low/medium/high range.
func ValidPriority(p int) bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// CreateNotificationRequest is the compose payload. Data carries the
// subtype-specific fields and is decoded once the discriminator is known.
type CreateNotificationRequest struct {
	Type      string          `json:"type"`
	Recipient string          `json:"recipient"`
	Data      json.RawMessage `json:"data"`
	Priority  *int            `json:"priority"`
	IsFlagged *bool           `json:"is_flagged"`
	IsDraft   *bool           `json:"is_draft"`
}

// EditNotificationRequest is the edit payload for PATCH requests.
type EditNotificationRequest struct {
	Type  string                 `json:"type"`
	Edits map[string]interface{} `json:"edits"`
}

// subtypeEditableFields lists, per discriminator, the subtype columns an edit
// request may touch. Anything else in the edits object is silently dropped.
var subtypeEditableFields = map[string][]string{
	TypePolicy: {"policy_id", "subject", "body", "is_read", "is_archived"},
	TypeClaim:  {"policy_holder", "claimant", "type", "due_date", "business", "description", "is_completed"},
	TypeNews:   {"title", "body", "type", "created_on", "expires_on"},
}

// baseEditableFields are the base-record flags an edit request may touch
// regardless of subtype.
var baseEditableFields = []string{"is_flagged", "is_draft", "priority"}

// SplitEdits partitions an edits object into base-record updates and
// subtype-table updates for the given discriminator. Unknown fields are
// ignored, not rejected.
func SplitEdits(notifType string, edits map[string]interface{}) (base map[string]interface{}, subtype map[string]interface{}) {
	base = make(map[string]interface{})
	subtype = make(map[string]interface{})

	for _, key := range baseEditableFields {
		if v, ok := edits[key]; ok {
			base[key] = v
		}
	}
	for _, key := range subtypeEditableFields[notifType] {
		if v, ok := edits[key]; ok {
			subtype[key] = v
		}
	}
	return base, subtype
}
