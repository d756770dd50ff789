package consent

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"consent-crawler/internal/models"
)

// KeywordSets carries the vocabularies for one resolution attempt. Action is
// required. Settings and Save enable the multi-step reject flow; without
// both, a failed reject search ends the attempt.
type KeywordSets struct {
	Action   *KeywordSet
	Settings *KeywordSet
	Save     *KeywordSet
}

// Resolver turns a requested consent action into a concrete UI interaction.
// It is stateless between calls; one resolution attempt touches one page
// sequentially, so no locking is needed.
type Resolver struct {
	logger *zap.Logger

	// SettleDelay is the pause after a multi-step click while the dialog
	// renders. Tests shorten it.
	SettleDelay time.Duration
}

// NewResolver returns a Resolver logging through logger.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger, SettleDelay: DialogSettleDelay}
}

// Resolve runs the strategy ladder for mode: known vendor selectors, then
// cross-frame heuristic search, then (reject only) the multi-step dialog
// flow. It never returns an error; total failure is an unresolved outcome.
func (r *Resolver) Resolve(page Page, mode models.Mode, sets KeywordSets) models.ConsentOutcome {
	if sets.Action == nil {
		r.logger.Warn("no action keyword set supplied", zap.String("mode", string(mode)))
		return models.ConsentOutcome{Resolved: false, Method: models.MethodNone}
	}

	r.logger.Info("resolving consent action",
		zap.String("mode", string(mode)),
		zap.String("url", page.URL()))

	if r.tryKnownSelectors(page, mode) {
		return models.ConsentOutcome{Resolved: true, Method: models.MethodKnownSelector}
	}

	if r.tryHeuristicSearch(page, sets.Action) {
		return models.ConsentOutcome{Resolved: true, Method: models.MethodHeuristic}
	}

	if mode == models.ModeReject && sets.Settings != nil && sets.Save != nil {
		if r.tryMultiStep(page, sets) {
			return models.ConsentOutcome{Resolved: true, Method: models.MethodMultiStep}
		}
	}

	r.logger.Warn("no consent control resolved", zap.String("url", page.URL()))
	return models.ConsentOutcome{Resolved: false, Method: models.MethodNone}
}

// tryKnownSelectors probes the vendor selector table for mode and clicks the
// first visible hit. A selector that times out, is absent, or refuses the
// click just moves the probe along.
func (r *Resolver) tryKnownSelectors(page Page, mode models.Mode) bool {
	for _, selector := range KnownSelectors(mode) {
		el := page.BySelector(selector)
		if el == nil || !el.Visible(KnownSelectorTimeout) {
			continue
		}

		text, _ := el.Text(TextTimeout)
		if err := el.Click(ClickTimeout); err != nil {
			r.logger.Debug("known selector click failed",
				zap.String("selector", selector), zap.Error(err))
			continue
		}

		r.logger.Info("clicked known vendor selector",
			zap.String("selector", selector),
			zap.String("text", strings.TrimSpace(text)))
		return true
	}
	return false
}

// tryHeuristicSearch surveys the main document and every nested frame,
// ranks the merged candidates, and clicks the best one. Ranking is a stable
// sort: score descending, encounter order (main document before frames,
// frames in DOM order) breaking ties.
func (r *Resolver) tryHeuristicSearch(page Page, set *KeywordSet) bool {
	var candidates []Candidate
	for _, ctx := range contexts(page) {
		candidates = append(candidates, SurveyCandidates(ctx, set)...)
	}

	if len(candidates) == 0 {
		r.logger.Debug("heuristic search found no candidates", zap.String("url", page.URL()))
		return false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	best := candidates[0]
	r.logger.Info("clicking best heuristic candidate",
		zap.Float64("score", best.Score),
		zap.String("text", best.Text),
		zap.Int("candidates", len(candidates)))

	if err := best.Handle.Click(BestCandidateClickTimeout); err != nil {
		r.logger.Warn("best candidate click failed",
			zap.String("text", best.Text), zap.Error(err))
		return false
	}
	return true
}

// tryMultiStep opens the settings dialog, selects the reject option inside
// it, and saves. A located-but-unclickable control fails the flow at that
// step; earlier steps are not retried. A missing save control still counts
// as success: many CMPs apply the choice without an explicit save step, and
// "auto-applies" is not distinguishable from "save button undetected" here.
func (r *Resolver) tryMultiStep(page Page, sets KeywordSets) bool {
	settings := r.locateByKeyword(page, sets.Settings)
	if settings == nil {
		r.logger.Debug("multi-step: no settings control found")
		return false
	}
	if err := settings.Click(ClickTimeout); err != nil {
		r.logger.Debug("multi-step: settings click failed", zap.Error(err))
		return false
	}
	r.settle()

	reject := r.locateTwoTier(page, sets.Action)
	if reject == nil {
		r.logger.Debug("multi-step: no reject control in dialog")
		return false
	}
	if err := reject.Click(ClickTimeout); err != nil {
		r.logger.Debug("multi-step: reject click failed", zap.Error(err))
		return false
	}
	r.settle()

	if save := r.locateTwoTier(page, sets.Save); save != nil {
		if err := save.Click(ClickTimeout); err != nil {
			r.logger.Debug("multi-step: save click failed", zap.Error(err))
			return false
		}
		r.logger.Info("multi-step reject flow completed with save")
	} else {
		r.logger.Info("multi-step reject flow completed, no save control found")
	}
	return true
}

// locateByKeyword finds a control matching set in the main document, then
// frames: accessible-name lookup first, survey scan as fallback.
func (r *Resolver) locateByKeyword(page Page, set *KeywordSet) Element {
	for _, ctx := range contexts(page) {
		if el := ctx.ByRole("button", set.Pattern()); el != nil && el.Visible(VisibilityTimeout) {
			return el
		}

		candidates := SurveyCandidates(ctx, set)
		if len(candidates) > 0 {
			sort.SliceStable(candidates, func(i, j int) bool {
				return candidates[i].Score > candidates[j].Score
			})
			return candidates[0].Handle
		}
	}
	return nil
}

// snapshotEntry is one control from the bulk text/visibility snapshot.
type snapshotEntry struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
}

// snapshotScript captures text and visibility of every interactive control
// in a single evaluation, avoiding one round trip per element.
const snapshotScript = `() => Array.from(document.querySelectorAll(
	"button, a[role='button'], div[role='button'], input[type='submit'], input[type='button']"
)).map((el, index) => ({
	index,
	text: (el.innerText || el.value || "").trim(),
	visible: !!(el.offsetWidth || el.offsetHeight || el.getClientRects().length),
}))`

// locateTwoTier looks a control up inside the now-open dialog. Tier one is
// an accessible-role-name lookup, only trusted when the matched text scores
// high confidence, so an unrelated accessible match is never acted on. Tier
// two is the bulk snapshot: score the captured texts, then re-resolve the
// winner's index against a fresh live query. The DOM may have changed
// between snapshot and re-query, so the resolved handle's text is
// re-validated before it is returned.
func (r *Resolver) locateTwoTier(page Page, set *KeywordSet) Element {
	for _, ctx := range contexts(page) {
		if el := ctx.ByRole("button", set.Pattern()); el != nil && el.Visible(VisibilityTimeout) {
			if text, err := el.Text(TextTimeout); err == nil && Score(text, set) >= HighConfidence {
				return el
			}
		}

		if el := r.locateFromSnapshot(ctx, set); el != nil {
			return el
		}
	}
	return nil
}

func (r *Resolver) locateFromSnapshot(ctx DocumentContext, set *KeywordSet) Element {
	raw, err := ctx.Evaluate(snapshotScript)
	if err != nil {
		return nil
	}

	entries, err := decodeSnapshot(raw)
	if err != nil {
		r.logger.Debug("snapshot decode failed", zap.Error(err))
		return nil
	}

	var ranked []snapshotEntry
	for _, e := range entries {
		if !e.Visible || !ValidButtonText(e.Text) {
			continue
		}
		if Score(e.Text, set) > ScoreNone {
			ranked = append(ranked, e)
		}
	}
	if len(ranked) == 0 {
		return nil
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i].Text, set) > Score(ranked[j].Text, set)
	})

	best := ranked[0]
	fresh, err := ctx.QueryAll(InteractiveControls)
	if err != nil || best.Index >= len(fresh) {
		return nil
	}

	el := fresh[best.Index]
	text, err := el.Text(TextTimeout)
	if err != nil || Score(strings.TrimSpace(text), set) == ScoreNone {
		// The DOM shifted under the snapshot; the index is best-effort.
		return nil
	}
	return el
}

// decodeSnapshot converts the evaluated script result through JSON into
// typed entries.
func decodeSnapshot(raw any) ([]snapshotEntry, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var entries []snapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Resolver) settle() {
	if r.SettleDelay > 0 {
		time.Sleep(r.SettleDelay)
	}
}
