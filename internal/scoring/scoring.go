// Package scoring holds the karma scoring parameters for the leaderboard.
package scoring

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines how like events translate into karma and how the
// leaderboard window is bounded.
type Config struct {
	PostLikePoints    int `yaml:"post_like_points"`
	CommentLikePoints int `yaml:"comment_like_points"`
	WindowHours       int `yaml:"window_hours"`
	LeaderboardSize   int `yaml:"leaderboard_size"`
}

// Default returns the stock scoring: 5 points per post like, 1 per comment
// like, over a trailing 24-hour window, top 5 users.
func Default() Config {
	return Config{
		PostLikePoints:    5,
		CommentLikePoints: 1,
		WindowHours:       24,
		LeaderboardSize:   5,
	}
}

// Load reads a scoring file, falling back to defaults for zero-valued
// fields. An empty path returns Default() untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scoring file: %w", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return cfg, fmt.Errorf("parse scoring file: %w", err)
	}

	if loaded.PostLikePoints != 0 {
		cfg.PostLikePoints = loaded.PostLikePoints
	}
	if loaded.CommentLikePoints != 0 {
		cfg.CommentLikePoints = loaded.CommentLikePoints
	}
	if loaded.WindowHours != 0 {
		cfg.WindowHours = loaded.WindowHours
	}
	if loaded.LeaderboardSize != 0 {
		cfg.LeaderboardSize = loaded.LeaderboardSize
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate rejects configurations that would make the leaderboard meaningless.
func (c Config) Validate() error {
	if c.WindowHours <= 0 {
		return fmt.Errorf("window_hours must be positive, got %d", c.WindowHours)
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("leaderboard_size must be positive, got %d", c.LeaderboardSize)
	}
	if c.PostLikePoints < 0 || c.CommentLikePoints < 0 {
		return fmt.Errorf("like points must not be negative")
	}
	return nil
}

// Window returns the trailing window duration.
func (c Config) Window() time.Duration {
	return time.Duration(c.WindowHours) * time.Hour
}
