package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/harvesthorizon/harvest-horizon/internal/board"
	"github.com/harvesthorizon/harvest-horizon/internal/climate"
	"github.com/harvesthorizon/harvest-horizon/internal/engine"
	"github.com/harvesthorizon/harvest-horizon/internal/game"
	"github.com/harvesthorizon/harvest-horizon/internal/scenario"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc *game.Service, provider *climate.Provider) {
	v1 := app.Group("/api/v1")

	v1.Get("/scenarios", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"scenarios": svc.Catalog().All(),
		})
	})

	v1.Get("/climate", func(c *fiber.Ctx) error {
		var req climateQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		set := provider.Fetch(c.Context(), climate.Location{Lat: req.Lat, Lon: req.Lon}, req.Days)
		summary, err := engine.Analyze(set)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to analyze climate data")
		}

		return c.JSON(fiber.Map{
			"location":        set.Location,
			"windowDays":      set.WindowDays,
			"source":          set.Source,
			"summary":         summary,
			"recommendations": engine.Recommend(summary),
		})
	})

	v1.Post("/games", func(c *fiber.Ctx) error {
		var req startGameRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		mode := game.ModeSolo
		if req.Mode != "" {
			mode = game.Mode(req.Mode)
		}

		sess, err := svc.Start(c.Context(), req.Scenario, mode)
		if err != nil {
			if errors.Is(err, scenario.ErrUnknownScenario) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to start game")
		}

		return c.Status(fiber.StatusCreated).JSON(sess)
	})

	v1.Get("/games/:id", func(c *fiber.Ctx) error {
		sess, err := svc.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "game not found")
		}
		return c.JSON(sess)
	})

	v1.Post("/games/:id/harvest", func(c *fiber.Ctx) error {
		var req harvestRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		sess, err := svc.Harvest(c.Params("id"), engine.Decision{
			Irrigation: *req.Irrigation,
			Fertilizer: *req.Fertilizer,
		})
		if err != nil {
			return mapSessionError(err)
		}
		return c.JSON(sess)
	})

	v1.Post("/games/:id/retry", func(c *fiber.Ctx) error {
		sess, err := svc.Retry(c.Params("id"))
		if err != nil {
			return mapSessionError(err)
		}
		return c.JSON(sess)
	})

	v1.Delete("/games/:id", func(c *fiber.Ctx) error {
		if err := svc.Abandon(c.Params("id")); err != nil {
			return mapSessionError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/games/:id/board", func(c *fiber.Ctx) error {
		sess, err := svc.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "game not found")
		}

		dash := board.Dashboard{
			Scenario: sess.Scenario,
			Summary:  sess.Summary,
			Outcome:  sess.Outcome,
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return dash.Render(c.Response().BodyWriter())
	})
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, "game not found")
	case errors.Is(err, game.ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

// climateQuery holds query parameters for the raw conditions endpoint.
type climateQuery struct {
	Lat  float64 `validate:"gte=-90,lte=90"`
	Lon  float64 `validate:"gte=-180,lte=180"`
	Days int     `validate:"gte=1,lte=366"`
}

func (q *climateQuery) bind(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return errors.New("lat query parameter is required and must be a number")
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return errors.New("lon query parameter is required and must be a number")
	}

	days := climate.DefaultWindowDays
	if ds := c.Query("days"); ds != "" {
		days, err = strconv.Atoi(ds)
		if err != nil {
			return errors.New("days query parameter must be an integer")
		}
	}

	q.Lat = lat
	q.Lon = lon
	q.Days = days
	return validate.Struct(q)
}

// startGameRequest is the body for creating a game.
type startGameRequest struct {
	Scenario string `json:"scenario" validate:"required"`
	Mode     string `json:"mode" validate:"omitempty,oneof=solo board"`
}

// harvestRequest carries the player's decision. Pointers distinguish a
// missing field from a legitimate zero.
type harvestRequest struct {
	Irrigation *int `json:"irrigation" validate:"required,gte=0,lte=100"`
	Fertilizer *int `json:"fertilizer" validate:"required,gte=0,lte=100"`
}
