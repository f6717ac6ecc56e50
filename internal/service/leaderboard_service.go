package service

import (
	"context"
	"sort"
	"time"

	"pulse/internal/models"
	"pulse/internal/observability"
	"pulse/internal/repository"
	"pulse/internal/scoring"
)

// LeaderboardEntry is one row of the karma ranking.
type LeaderboardEntry struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Karma    int    `json:"karma"`
}

// LeaderboardService computes the time-windowed karma ranking. It is a pure
// read-side aggregation: every call recomputes from the like events inside
// the trailing window, with no cache or materialized view, so a response is
// never staler than its own window snapshot.
type LeaderboardService struct {
	likeRepo repository.LikeRepository
	userRepo repository.UserRepository
	cfg      scoring.Config
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	cfg scoring.Config,
) *LeaderboardService {
	return &LeaderboardService{
		likeRepo: likeRepo,
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Leaderboard returns up to cfg.LeaderboardSize users ranked by karma earned
// from likes created at or after now minus the window. Post likes are worth
// cfg.PostLikePoints to the post's author, comment likes
// cfg.CommentLikePoints to the comment's author; attribution joins live
// ownership at query time. Only users with karma > 0 appear.
//
// Ties are broken by ascending user id. The source data gives no inherent
// order for equal karma, so a deterministic secondary key keeps responses
// stable across calls.
func (s *LeaderboardService) Leaderboard(ctx context.Context, now time.Time) ([]LeaderboardEntry, error) {
	defer observability.ObserveLeaderboard(time.Now())

	since := now.Add(-s.cfg.Window())
	karma := make(map[uint]int)

	postLikes, err := s.likeRepo.ListSince(ctx, models.TargetPost, since)
	if err != nil {
		return nil, err
	}
	for _, l := range postLikes {
		karma[l.AuthorID] += s.cfg.PostLikePoints
	}

	commentLikes, err := s.likeRepo.ListSince(ctx, models.TargetComment, since)
	if err != nil {
		return nil, err
	}
	for _, l := range commentLikes {
		karma[l.AuthorID] += s.cfg.CommentLikePoints
	}

	ranked := make([]LeaderboardEntry, 0, len(karma))
	for userID, points := range karma {
		if points <= 0 {
			continue
		}
		ranked = append(ranked, LeaderboardEntry{UserID: userID, Karma: points})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Karma != ranked[j].Karma {
			return ranked[i].Karma > ranked[j].Karma
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	if len(ranked) > s.cfg.LeaderboardSize {
		ranked = ranked[:s.cfg.LeaderboardSize]
	}

	if err := s.fillUsernames(ctx, ranked); err != nil {
		return nil, err
	}
	return ranked, nil
}

func (s *LeaderboardService) fillUsernames(ctx context.Context, entries []LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	for i := range entries {
		entries[i].Username = names[entries[i].UserID]
	}
	return nil
}
