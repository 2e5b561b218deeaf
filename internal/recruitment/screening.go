package recruitment

import (
	"fmt"
	"maps"
	"time"

	"github.com/mitchellh/mapstructure"
)

// ScreeningPatch carries a partial video screening update. Nil fields are left
// untouched when the patch is merged; Scores, when set, replaces the whole map.
type ScreeningPatch struct {
	Submitted      *bool          `mapstructure:"submitted"`
	VideoURL       *string        `mapstructure:"videoUrl"`
	Duration       *string        `mapstructure:"duration"`
	Transcript     *string        `mapstructure:"transcript"`
	Scores         map[string]int `mapstructure:"scores"`
	Recommendation *string        `mapstructure:"recommendation"`
	Decision       *Decision      `mapstructure:"decision"`
	ReviewedBy     *string        `mapstructure:"reviewedBy"`
	ReviewedAt     *time.Time     `mapstructure:"reviewedAt"`
}

// ScreeningPatchFromMap decodes a loosely typed payload (typically a JSON body)
// into a patch. Unknown keys are rejected.
func ScreeningPatchFromMap(payload map[string]any) (ScreeningPatch, error) {
	var patch ScreeningPatch

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &patch,
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return patch, fmt.Errorf("create screening decoder: %w", err)
	}

	if err := decoder.Decode(payload); err != nil {
		return patch, fmt.Errorf("decode screening patch: %w", err)
	}

	if patch.Decision != nil && *patch.Decision != "" && !patch.Decision.IsValid() {
		return patch, fmt.Errorf("unknown screening decision %q", *patch.Decision)
	}

	return patch, nil
}

// ReviewPatch builds the patch recorded when a recruiter takes a decision on a screening.
func ReviewPatch(decision Decision, reviewer string, at time.Time) ScreeningPatch {
	return ScreeningPatch{
		Decision:   &decision,
		ReviewedBy: &reviewer,
		ReviewedAt: &at,
	}
}

func (p ScreeningPatch) applyTo(existing *VideoScreening) *VideoScreening {
	merged := existing.clone()
	if merged == nil {
		merged = &VideoScreening{}
	}

	if p.Submitted != nil {
		merged.Submitted = *p.Submitted
	}
	if p.VideoURL != nil {
		merged.VideoURL = *p.VideoURL
	}
	if p.Duration != nil {
		merged.Duration = *p.Duration
	}
	if p.Transcript != nil {
		merged.Transcript = *p.Transcript
	}
	if p.Scores != nil {
		merged.Scores = maps.Clone(p.Scores)
	}
	if p.Recommendation != nil {
		merged.Recommendation = *p.Recommendation
	}
	if p.Decision != nil {
		merged.Decision = *p.Decision
	}
	if p.ReviewedBy != nil {
		merged.ReviewedBy = *p.ReviewedBy
	}
	if p.ReviewedAt != nil {
		at := *p.ReviewedAt
		merged.ReviewedAt = &at
	}

	return merged
}

// ScreeningFilter selects candidates on the video screening board.
type ScreeningFilter string

const (
	ScreeningAll      ScreeningFilter = "all"
	ScreeningPending  ScreeningFilter = "pending"
	ScreeningReviewed ScreeningFilter = "reviewed"
)

func (f ScreeningFilter) match(v *VideoScreening) bool {
	if v == nil || !v.Submitted {
		return false
	}

	switch f {
	case ScreeningPending:
		return !v.Reviewed()
	case ScreeningReviewed:
		return v.Reviewed()
	default:
		return true
	}
}
