package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/voltbridge/ev-charging-marketplace/internal/domain"
	"github.com/voltbridge/ev-charging-marketplace/internal/service"
)

// Register mounts the marketplace API: the seven mutating commands and the
// eight read operations. Caller identity is taken from the request as-is;
// authentication lives in front of this service.
func Register(app *fiber.App, svcs *service.Services) {
	app.Get("/denom", func(c *fiber.Ctx) error {
		denom, err := svcs.Queries.Denom(c.Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"denom": denom})
	})

	app.Post("/offers", func(c *fiber.Ctx) error {
		var req struct {
			Owner     string  `json:"owner"`
			ChargerID string  `json:"charger_id"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Tariff    uint64  `json:"tariff"`
			Name      string  `json:"name"`
			PlugType  string  `json:"plug_type"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "malformed request body")
		}
		id, err := svcs.Offers.Publish(c.Context(), service.PublishParams{
			Owner:     req.Owner,
			ChargerID: req.ChargerID,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Tariff:    req.Tariff,
			Name:      req.Name,
			PlugType:  domain.ParsePlugType(req.PlugType),
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	app.Get("/offers", func(c *fiber.Ctx) error {
		if owner := c.Query("owner"); owner != "" {
			items, err := svcs.Queries.OffersByOwner(c.Context(), owner)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(items)
		}
		items, err := svcs.Queries.ListOffers(c.Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(items)
	})

	app.Get("/offers/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "invalid offer id")
		}
		offer, err := svcs.Queries.GetOffer(c.Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(offer)
	})

	app.Delete("/offers/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "invalid offer id")
		}
		if err := svcs.Offers.Remove(c.Context(), c.Query("requester"), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/transfers", func(c *fiber.Ctx) error {
		var req struct {
			Driver           string       `json:"driver"`
			OfferID          uint64       `json:"energy_transfer_offer_id"`
			EnergyToTransfer uint64       `json:"energy_to_transfer"`
			Funds            domain.Funds `json:"funds"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "malformed request body")
		}
		id, err := svcs.Transfers.Start(c.Context(), req.Driver, req.OfferID, req.EnergyToTransfer, req.Funds)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	app.Get("/transfers", func(c *fiber.Ctx) error {
		switch {
		case c.Query("driver") != "":
			status, err := domain.ParseTransferStatus(c.Query("status"))
			if err != nil {
				return badRequest(c, err.Error())
			}
			items, err := svcs.Queries.TransfersByDriverAndStatus(c.Context(), c.Query("driver"), status)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(items)
		case c.Query("owner") != "":
			items, err := svcs.Queries.TransfersByOwner(c.Context(), c.Query("owner"))
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(items)
		}
		items, err := svcs.Queries.ListTransfers(c.Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(items)
	})

	app.Get("/transfers/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "invalid transfer id")
		}
		transfer, err := svcs.Queries.GetTransfer(c.Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(transfer)
	})

	app.Post("/transfers/:id/started", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "invalid transfer id")
		}
		if err := svcs.Transfers.MarkStarted(c.Context(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/transfers/:id/complete", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "invalid transfer id")
		}
		var req struct {
			UsedServiceUnits uint64 `json:"used_service_units"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "malformed request body")
		}
		if err := svcs.Transfers.Complete(c.Context(), id, req.UsedServiceUnits); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/transfers/:id/cancel", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "invalid transfer id")
		}
		if err := svcs.Transfers.Cancel(c.Context(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Delete("/transfers/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return badRequest(c, "invalid transfer id")
		}
		if err := svcs.Transfers.Remove(c.Context(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func parseID(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		unauthErr     *domain.UnauthorizedError
		chargerErr    *domain.ChargerStatusError
		transferErr   *domain.TransferStatusError
		fundsErr      *domain.FundsMismatchError
	)
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidDriver),
		errors.Is(err, domain.ErrZeroEnergy),
		errors.As(err, &validationErr):
		status = fiber.StatusBadRequest
	case errors.As(err, &fundsErr):
		status = fiber.StatusPaymentRequired
	case errors.As(err, &unauthErr):
		status = fiber.StatusForbidden
	case errors.As(err, &notFoundErr):
		status = fiber.StatusNotFound
	case errors.As(err, &chargerErr), errors.As(err, &transferErr):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
