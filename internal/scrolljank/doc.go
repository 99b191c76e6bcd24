// Package scrolljank classifies presented scroll frames as janky or not.
//
// A Tracker consumes one call per presented frame carrying the input
// generation and presentation timestamps of that frame. It runs two
// detectors side by side:
//
//   - V1 counts a frame as janky when its presentation missed one or more
//     vsyncs while input was available. It compares each frame against the
//     previous presented frame regardless of scroll boundaries.
//   - V4 keeps a decaying running estimate of how quickly input has been
//     delivered within the current scroll, and attributes each missed vsync
//     to one of the JankReason causes (decelerating delivery, fast scroll
//     continuity, fling start, fling continuity).
//
// Results are aggregated into fixed windows of 64 presented frames and into
// per-scroll totals, and published through a metrics.Sink. The tracker is
// not safe for concurrent use; callers serialise frame reports.
package scrolljank
