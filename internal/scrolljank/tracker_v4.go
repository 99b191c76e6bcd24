package scrolljank

import "time"

// reportV4 runs the V4 detector on a frame already accepted by V1. It reads
// t.prevPresentationTs before the caller advances it.
func (t *Tracker) reportV4(f PresentedFrame, firstInputTs TimeTicks, vsync time.Duration) {
	if !t.cfg.V4Enabled {
		return
	}
	if t.perScrollV4 == nil {
		t.perScrollV4 = &scrollV4{}
	}

	result := V4Result{
		AbsTotalRawDeltaPixels:       f.AbsTotalRawDeltaPixels,
		MaxAbsInertialRawDeltaPixels: f.MaxAbsInertialRawDeltaPixels,
	}

	janky := false
	vsyncsSincePrevious := 0
	if prev := t.prevFrameV4; prev != nil {
		result.RunningDeliveryCutoff = prev.RunningDeliveryCutoff

		vsyncsSincePrevious = max(vsyncsIn(f.PresentationTs.Sub(t.prevPresentationTs), vsync), 1)
		result.VsyncsSincePreviousFrame = vsyncsSincePrevious

		if vsyncsSincePrevious > 1 {
			missed := t.missedVsyncsPerReasonV4(prev, vsyncsSincePrevious, firstInputTs, f, vsync, &result)
			janky = missed.Any()
			if janky {
				t.updateDelayedCountersV4(missed)
				tracef("DelayedFrameV4 presentation=%v vsyncs_since_previous=%d missed_per_reason=%v",
					f.PresentationTs, vsyncsSincePrevious, missed)
			}
			result.MissedVsyncsPerReason = missed
		}
	}

	t.windowV4.PresentedFrames++
	t.perScrollV4.PresentedFrames++
	if t.windowV4.PresentedFrames == HistogramEmitFrequency {
		t.emitPerWindowV4AndReset()
	}

	// How quickly input made it to the screen in this frame.
	current := f.PresentationTs.Sub(f.LastInputGenerationTs)
	result.CurrentDeliveryCutoff = current

	// A janky frame, like the first frame of a scroll, forgets past
	// performance and starts from the current frame.
	running := current
	if t.prevFrameV4 != nil && !janky {
		discounted := t.prevFrameV4.RunningDeliveryCutoff +
			scaleDuration(vsync, float64(vsyncsSincePrevious)*t.cfg.DiscountFactor)
		running = min(discounted, current)
	}

	t.prevFrameV4 = &previousFrameV4{
		HasInertialInput:       f.HasInertialInput,
		AbsTotalRawDeltaPixels: f.AbsTotalRawDeltaPixels,
		RunningDeliveryCutoff:  running,
	}

	f.EarliestEvent.SetScrollJankV4(result)
}

// missedVsyncsPerReasonV4 decides, for a frame presented more than one vsync
// after prev, how many vsyncs each rule considers missed.
func (t *Tracker) missedVsyncsPerReasonV4(
	prev *previousFrameV4,
	vsyncsSincePrevious int,
	firstInputTs TimeTicks,
	f PresentedFrame,
	vsync time.Duration,
	result *V4Result,
) JankReasonArray {
	var missed JankReasonArray
	cfg := t.cfg

	// Running consistency. The previous cutoff is relaxed for every vsync
	// skipped since the previous frame and tightened by the stability
	// correction; this is what an empty vsync would have been judged
	// against.
	adjusted := prev.RunningDeliveryCutoff +
		scaleDuration(vsync, float64(vsyncsSincePrevious-1)*cfg.DiscountFactor) -
		scaleDuration(vsync, cfg.StabilityCorrection)
	result.AdjustedDeliveryCutoff = adjusted

	// Dividing by (1 - discount) undoes the relaxation for each earlier
	// vsync the first input could have made.
	firstInputToPresentation := f.PresentationTs.Sub(firstInputTs)
	perVsync := scaleDuration(vsync, 1-cfg.DiscountFactor)
	if perVsync > 0 {
		ratio := float64((firstInputToPresentation-adjusted)/time.Microsecond) / float64(perVsync/time.Microsecond)
		if n := int(ratio); n > 0 {
			missed[MissedVsyncDueToDeceleratingInputFrameDelivery] = n
		}
	}

	// Fast scroll and fling continuity.
	curIsFastFling := float64(f.MaxAbsInertialRawDeltaPixels) >= cfg.FlingContinuityThreshold
	curIsFastScroll := float64(f.AbsTotalRawDeltaPixels) >= cfg.FastScrollContinuityThreshold
	prevIsFastScroll := float64(prev.AbsTotalRawDeltaPixels) >= cfg.FastScrollContinuityThreshold
	switch {
	case curIsFastFling:
		if prev.HasInertialInput {
			missed[MissedVsyncDuringFling] = vsyncsSincePrevious - 1
		} else if prevIsFastScroll {
			missed[MissedVsyncAtStartOfFling] = vsyncsSincePrevious - 1
		}
	case prevIsFastScroll && curIsFastScroll:
		missed[MissedVsyncDuringFastScroll] = vsyncsSincePrevious - 1
	}

	return missed
}

// updateDelayedCountersV4 counts one delayed frame that missed the largest
// per-reason vsync count.
func (t *Tracker) updateDelayedCountersV4(missed JankReasonArray) {
	worst := 0
	for i, n := range missed {
		if n == 0 {
			continue
		}
		worst = max(worst, n)
		t.windowV4.DelayedFramesPerReason[i]++
	}
	if worst == 0 {
		return
	}
	t.windowV4.DelayedFrames++
	t.perScrollV4.DelayedFrames++
	t.windowV4.MissedVsyncs += worst
	t.windowV4.MaxConsecutiveMissedVsyncs = max(t.windowV4.MaxConsecutiveMissedVsyncs, worst)
}
