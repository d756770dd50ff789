package models

import "time"

// Mode selects which keyword sets and known-selector table a resolution uses.
type Mode string

const (
	ModeAccept         Mode = "accept"
	ModeReject         Mode = "reject"
	ModeEssentialsOnly Mode = "essentials_only"
)

// Method records which strategy resolved the consent action.
type Method string

const (
	MethodKnownSelector Method = "known_selector"
	MethodHeuristic     Method = "heuristic"
	MethodMultiStep     Method = "multi_step"
	MethodNone          Method = "none"
)

// ConsentOutcome is the contract returned by the consent engine.
type ConsentOutcome struct {
	Resolved bool   `json:"resolved"`
	Method   Method `json:"method"`
}

// Branch labels the path the policy controller took for a visit. A true
// reject and a forced accept fallback must stay distinguishable downstream.
type Branch string

const (
	BranchResolved            Branch = "resolved"
	BranchSubscribeGated      Branch = "subscribe_gated"
	BranchFallbackEssentials  Branch = "fallback_essentials_only"
	BranchFallbackAcceptAll   Branch = "fallback_accept_all"
	BranchAutoAcceptSite      Branch = "auto_accept_site"
	BranchNoActionableControl Branch = "no_actionable_control"
)

// VisitResult is persisted per domain for downstream labeling.
type VisitResult struct {
	Domain     string         `json:"domain"`
	Mode       Mode           `json:"mode"`
	Outcome    ConsentOutcome `json:"outcome"`
	Branch     Branch         `json:"branch"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Error      string         `json:"error,omitempty"`
}

// CookieWrite is one client-side document.cookie assignment captured by the
// instrumentation hook.
type CookieWrite struct {
	Value string  `json:"value"`
	Time  float64 `json:"time"`
}

// CookieWriteLog is the on-disk shape of <domain>_cookie_writes.json.
type CookieWriteLog struct {
	Domain string        `json:"domain"`
	Writes []CookieWrite `json:"writes"`
}
