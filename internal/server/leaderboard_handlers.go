// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard handles GET /api/leaderboard. Rankings are recomputed from
// the trailing window on every request.
func (s *Server) GetLeaderboard(c *fiber.Ctx) error {
	entries, err := s.leaderboardService.Leaderboard(c.Context(), time.Now().UTC())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"leaderboard": entries})
}
