package coach

import (
	"time"

	"FitCoach_V0.1/internal/domain"
	"FitCoach_V0.1/internal/utility"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const profileReadWait = 30 * time.Second

// Plan progress message types.
const (
	EventStatus = "status"
	EventPlan   = "plan"
	EventError  = "error"
)

type planEvent struct {
	Type   string              `json:"type"`
	Status string              `json:"status,omitempty"`
	Plan   *domain.FitnessPlan `json:"plan,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// PlanSocketHandler reads one profile, reports that generation started,
// sends the plan and closes.
func (h *Handler) PlanSocketHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := zerolog.Ctx(ctx)

	conn, err := utility.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return nil
	}
	conn.SetReadLimit(utility.WSReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(profileReadWait))

	fail := func(msg string) error {
		if err := utility.SendEvent(conn, planEvent{Type: EventError, Error: msg}); err != nil {
			logger.Debug().Err(err).Msg("Failed to send WS error event")
		}
		utility.CloseWith(conn, websocket.ClosePolicyViolation, msg)
		return nil
	}

	var profile domain.UserProfile
	if err := conn.ReadJSON(&profile); err != nil {
		logger.Warn().Err(err).Msg("Invalid profile on plan socket")
		return fail("Invalid request body")
	}
	profile = profile.Sanitized()
	if err := profile.Validate(); err != nil {
		return fail(err.Error())
	}

	if err := utility.SendEvent(conn, planEvent{Type: EventStatus, Status: "generating"}); err != nil {
		logger.Info().Err(err).Msg("Plan socket closed by client")
		conn.Close()
		return nil
	}

	plan := h.svc.Plans.GeneratePlan(ctx, profile)
	if err := utility.SendEvent(conn, planEvent{Type: EventPlan, Plan: &plan}); err != nil {
		logger.Info().Err(err).Msg("Plan socket closed before delivery")
		conn.Close()
		return nil
	}

	utility.CloseWith(conn, websocket.CloseNormalClosure, "done")
	return nil
}
