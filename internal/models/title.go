package models

import (
	"time"
)

// Tone strategies accepted by the title agent workflow.
const (
	ToneCuriosityGap = "curiosity_gap"
	ToneBoldClaim    = "bold_claim"
	ToneHowTo        = "how_to"
	ToneListicle     = "listicle"
	ToneEmotional    = "emotional"
)

// Tones lists all supported tone strategies.
var Tones = []string{ToneCuriosityGap, ToneBoldClaim, ToneHowTo, ToneListicle, ToneEmotional}

// VariationCounts lists the variation counts the agent workflow accepts.
var VariationCounts = []int{3, 5, 10}

// DefaultVariationCount is used when the request does not specify one.
const DefaultVariationCount = 5

// GenerationRequest represents the user-supplied fields for one title generation attempt
type GenerationRequest struct {
	Topic          string `json:"topic" binding:"required" example:"Why most productivity advice fails"`
	KeyPoints      string `json:"key_points,omitempty" example:"time blocking, energy management"`
	TargetAudience string `json:"target_audience,omitempty" example:"early-career software engineers"`
	MainTakeaway   string `json:"main_takeaway,omitempty" example:"systems beat willpower"`
	VariationCount int    `json:"variation_count,omitempty" example:"5"`
	Tone           string `json:"tone,omitempty" example:"curiosity_gap"`
}

// TitleCandidate is one generated title plus optional supporting metadata.
// Candidates are created only by the normalizer and never mutated afterwards.
type TitleCandidate struct {
	YoutubeTitle  string `json:"youtube_title"`
	ThumbnailText string `json:"thumbnail_text,omitempty"`
	CtrRationale  string `json:"ctr_rationale,omitempty"`
	Rank          *int   `json:"rank,omitempty"`
}

// OutcomeKind tags which variant of a GenerationOutcome is live.
type OutcomeKind string

const (
	// OutcomeTitles means the agent response yielded a canonical title list.
	OutcomeTitles OutcomeKind = "titles"
	// OutcomeOpaque means the agent responded successfully but no title list
	// could be extracted; RawText carries the body for display.
	OutcomeOpaque OutcomeKind = "opaque"
	// OutcomeFailure means the call itself failed (transport or non-2xx).
	OutcomeFailure OutcomeKind = "failure"
)

// ErrorInfo carries the user-visible details of a failed attempt
type ErrorInfo struct {
	StatusCode int    `json:"status_code,omitempty" example:"500"`
	Message    string `json:"message" example:"internal error"`
}

// GenerationOutcome is the terminal, display-ready result of one generation
// attempt. Exactly one variant is populated; a new attempt replaces the
// outcome wholesale, never merges.
type GenerationOutcome struct {
	Kind    OutcomeKind      `json:"kind"`
	Titles  []TitleCandidate `json:"titles,omitempty"`
	RawText string           `json:"raw_text,omitempty"`
	Error   *ErrorInfo       `json:"error,omitempty"`
}

// SessionState is the lifecycle state of a user's generation session
type SessionState string

const (
	SessionIdle    SessionState = "idle"
	SessionLoading SessionState = "loading"
	SessionSuccess SessionState = "success"
	SessionFailure SessionState = "failure"
)

// GenerationSession is the per-user lifecycle snapshot the presentation
// layer renders from.
type GenerationSession struct {
	State     SessionState       `json:"state" example:"success"`
	RequestID string             `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Request   *GenerationRequest `json:"request,omitempty"`
	Outcome   *GenerationOutcome `json:"outcome,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}
