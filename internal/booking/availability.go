package booking

import (
	"context"
	"sort"
	"time"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// availableBuckets computes the bookable hour buckets for an expert on a
// date: the expert's weekly template for that weekday, minus any bucket
// already holding a pending or confirmed appointment.
func (e *Engine) availableBuckets(ctx context.Context, salonID string, expert models.Expert, date string) ([]int, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, err
	}

	cctx, cancel := e.callCtx(ctx)
	template, err := e.dir.GetExpertAvailability(cctx, salonID, expert.ExpertID)
	cancel()
	if err != nil {
		return nil, err
	}

	candidates := template[int(day.Weekday())]
	buckets := make([]int, 0, len(candidates))
	for _, b := range candidates {
		if b < 0 || b >= models.BucketCount {
			continue
		}
		cctx, cancel := e.callCtx(ctx)
		_, err := e.dir.FindConflictingAppointment(cctx, expert.ExpertID, date, b)
		cancel()
		switch {
		case isNotFound(err):
			buckets = append(buckets, b)
		case err != nil:
			return nil, err
		default:
			// Bucket is taken.
		}
	}
	sort.Ints(buckets)
	return buckets, nil
}

// excludeCartHeld drops buckets an earlier cart item already claims for the
// same expert and date. Cart items are not persisted yet, so the conflict
// lookup cannot see them; without this a recipient adding more services
// could book the same slot twice in one conversation.
func excludeCartHeld(buckets []int, cart []CartItem, expertID, date string) []int {
	held := make(map[int]struct{})
	for _, item := range cart {
		if item.Expert.ExpertID == expertID && item.Date == date {
			held[item.TimeBucket] = struct{}{}
		}
	}
	if len(held) == 0 {
		return buckets
	}
	out := buckets[:0]
	for _, b := range buckets {
		if _, taken := held[b]; !taken {
			out = append(out, b)
		}
	}
	return out
}
