// Package srs implements the review-interval scheduler. It maps a memory
// state plus a pass/fail grade to an updated memory state with a new due
// date, using the difficulty/stability memory-strength model.
package srs

import (
	"math"
	"time"

	"github.com/example/lingobot/pkg/models"
)

// Default weights of the memory-strength model (FSRS v6 defaults).
var defaultWeights = [21]float64{
	0.212, 1.2931, 2.3065, 8.2956, // w[0..3]  initial stability per rating
	6.4133, 0.8334, 3.0194, 0.001, // w[4..7]  difficulty params
	1.8722, 0.1666, 0.796, 1.4835, // w[8..11] recall stability params
	0.0614, 0.2629, 1.6483, 0.6014, // w[12..15] forget stability params
	1.8729, 0.5425, 0.0912, 0.0658, // w[16..19] easy/short-term params
	0.1542, // w[20] decay exponent
}

// Engine schedules reviews. Construct with New; the zero value is not usable.
type Engine struct {
	w                [21]float64
	decay            float64 // -w[20]
	factor           float64 // 0.9^(1/decay) - 1
	desiredRetention float64
	maximumInterval  int           // days
	relearnStep      time.Duration // same-day retry window after a lapse
}

// Config configures an Engine. Zero values produce sensible defaults.
type Config struct {
	DesiredRetention float64       // zero → 0.9
	MaximumInterval  int           // days; zero → 365
	RelearnStep      time.Duration // zero → 10 minutes
}

// New creates an Engine from the given config.
func New(cfg Config) *Engine {
	dr := cfg.DesiredRetention
	if dr == 0 {
		dr = 0.9
	}
	maxIvl := cfg.MaximumInterval
	if maxIvl == 0 {
		maxIvl = 365
	}
	step := cfg.RelearnStep
	if step == 0 {
		step = 10 * time.Minute
	}
	decay := -defaultWeights[20]
	return &Engine{
		w:                defaultWeights,
		decay:            decay,
		factor:           math.Pow(0.9, 1.0/decay) - 1.0,
		desiredRetention: dr,
		maximumInterval:  maxIvl,
		relearnStep:      step,
	}
}

// Schedule applies a grade to the memory state at the given time and
// returns the updated state. The input is not mutated.
//
// A card that has never been graded gets its difficulty and stability
// initialized from the grade alone. Subsequent grades derive the new
// parameters from the elapsed time since the last review. Repetitions
// always advances; lapses advances only on the lowest grade.
func (e *Engine) Schedule(m models.MemoryModel, grade models.Grade, now time.Time) models.MemoryModel {
	out := m
	if !m.Reviewed() {
		out.Stability = e.initStability(grade)
		out.Difficulty = e.initDifficulty(grade)
		out.Repetitions = 1
		if grade == models.Again {
			out.Lapses = m.Lapses + 1
		}
		t := now
		out.FirstReview = &t
		out.LastReview = &t
		out.NextReview = now.Add(e.interval(out.Stability, grade))
		return out
	}

	elapsedDays := now.Sub(*m.LastReview).Hours() / 24.0
	if elapsedDays < 1 {
		// Same-day review.
		out.Stability = e.shortTermStability(m.Stability, grade)
	} else {
		r := e.retrievability(elapsedDays, m.Stability)
		out.Stability = e.nextStability(m.Difficulty, m.Stability, r, grade)
	}
	out.Difficulty = e.nextDifficulty(m.Difficulty, grade)

	out.Repetitions = m.Repetitions + 1
	if grade == models.Again {
		out.Lapses = m.Lapses + 1
	}
	t := now
	out.LastReview = &t
	if out.FirstReview == nil {
		out.FirstReview = &t
	}
	out.NextReview = now.Add(e.interval(out.Stability, grade))
	return out
}

// Rollback restores a previous scheduling snapshot, used when a grading
// decision is disputed after the fact. Lapses are decremented but never
// go below zero; repetitions are left untouched.
func (e *Engine) Rollback(m models.MemoryModel, prior models.MemorySnapshot) models.MemoryModel {
	out := m
	out.Difficulty = clampD(prior.Difficulty)
	out.Stability = clampS(prior.Stability)
	out.NextReview = prior.NextReview
	if out.Lapses > 0 {
		out.Lapses = m.Lapses - 1
	}
	return out
}

// Retrievability returns the probability of recall at the given time,
// or 0 for a card that has never been reviewed.
func (e *Engine) Retrievability(m models.MemoryModel, now time.Time) float64 {
	if m.LastReview == nil || m.Stability <= 0 {
		return 0
	}
	elapsed := now.Sub(*m.LastReview).Hours() / 24.0
	return e.retrievability(elapsed, m.Stability)
}

// interval converts stability into the next review delay. A failed grade
// gets the short relearning step so the card comes back the same day.
func (e *Engine) interval(stability float64, grade models.Grade) time.Duration {
	if grade == models.Again {
		return e.relearnStep
	}
	days := e.nextIntervalDays(stability)
	return time.Duration(days) * 24 * time.Hour
}

// retrievability computes R(t, S) = (1 + FACTOR * t / S) ^ DECAY.
func (e *Engine) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+e.factor*elapsedDays/stability, e.decay)
}

// initStability returns the initial stability for the first grade.
func (e *Engine) initStability(grade models.Grade) float64 {
	return clampS(e.w[grade-1])
}

// initDifficulty returns the initial difficulty for the first grade,
// clamped to [1, 10].
func (e *Engine) initDifficulty(grade models.Grade) float64 {
	return clampD(e.rawInitDifficulty(float64(grade)))
}

func (e *Engine) rawInitDifficulty(rating float64) float64 {
	return e.w[4] - math.Exp(e.w[5]*(rating-1)) + 1
}

// nextIntervalDays computes the review interval in days for the desired
// retention, clamped to [1, maximumInterval].
func (e *Engine) nextIntervalDays(stability float64) int {
	ivl := stability / e.factor * (math.Pow(e.desiredRetention, 1.0/e.decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > e.maximumInterval {
		days = e.maximumInterval
	}
	return days
}

// shortTermStability computes the stability after a same-day review.
func (e *Engine) shortTermStability(stability float64, grade models.Grade) float64 {
	sInc := math.Exp(e.w[17]*(float64(grade)-3+e.w[18])) * math.Pow(stability, -e.w[19])
	if grade == models.Good {
		sInc = math.Max(sInc, 1.0)
	}
	return clampS(stability * sInc)
}

// nextDifficulty computes the updated difficulty after a review: linear
// damping toward the grade, then mean reversion toward the easiest
// initial difficulty, clamped to [1, 10].
func (e *Engine) nextDifficulty(difficulty float64, grade models.Grade) float64 {
	deltaD := -e.w[6] * (float64(grade) - 3)
	dPrime := difficulty + (10-difficulty)*deltaD/9
	d0 := e.rawInitDifficulty(4) // mean reversion target, unclamped
	return clampD(e.w[7]*d0 + (1-e.w[7])*dPrime)
}

// nextStability dispatches on whether the card was recalled or forgotten.
func (e *Engine) nextStability(d, s, r float64, grade models.Grade) float64 {
	if grade == models.Again {
		return clampS(e.forgetStability(d, s, r))
	}
	return clampS(e.recallStability(d, s, r))
}

// recallStability computes stability after a successful recall.
func (e *Engine) recallStability(d, s, r float64) float64 {
	return s * (1 + math.Exp(e.w[8])*
		(11-d)*
		math.Pow(s, -e.w[9])*
		(math.Exp((1-r)*e.w[10])-1))
}

// forgetStability computes stability after forgetting, bounded above by
// the short-term stability so a lapse never increases retention.
func (e *Engine) forgetStability(d, s, r float64) float64 {
	long := e.w[11] *
		math.Pow(d, -e.w[12]) *
		(math.Pow(s+1, e.w[13]) - 1) *
		math.Exp((1-r)*e.w[14])
	short := s / math.Exp(e.w[17]*e.w[18])
	return math.Min(long, short)
}

// clampS clamps stability to a minimum of 0.001.
func clampS(s float64) float64 {
	return math.Max(s, 0.001)
}

// clampD clamps difficulty to [1, 10].
func clampD(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}
