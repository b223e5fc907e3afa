package handlers

import (
	"errors"
	"math"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/logging"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/models"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/repo"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/service"
)

type SweetHandler struct {
	Svc *service.CatalogService
}

// Price and Quantity are pointers so an absent field is distinguishable
// from a legitimate zero.
type CreateSweetRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

func (r CreateSweetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("Name is required."),
			validation.Length(1, 100).Error("Name must be at most 100 characters long."),
		),
		validation.Field(&r.Category,
			validation.Required.Error("Category is required."),
		),
		validation.Field(&r.Price,
			validation.NotNil.Error("Price is required."),
			validation.By(validPrice),
		),
		validation.Field(&r.Quantity,
			validation.NotNil.Error("Quantity is required."),
			validation.Min(0).Error("Quantity must not be negative."),
		),
	)
}

func validPrice(value any) error {
	var p float64
	switch v := value.(type) {
	case *float64:
		if v == nil {
			return nil
		}
		p = *v
	case float64:
		p = v
	default:
		return nil
	}
	if p <= 0 {
		return errors.New("Price must be a positive number.")
	}
	if math.Abs(p*100-math.Round(p*100)) > 1e-9 {
		return errors.New("Price must be a number with up to 2 decimal places.")
	}
	return nil
}

func (h *SweetHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	sweets, err := h.Svc.ListAll(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":  sweets,
		"count": len(sweets),
	})
}

func (h *SweetHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sweet.create")

	var req CreateSweetRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("create_error", "status", 400, "reason", "validation failed")
		return validationFailed(c, err)
	}

	sweet := &models.Sweet{
		Name:     req.Name,
		Category: req.Category,
		Price:    *req.Price,
		Quantity: uint(*req.Quantity),
	}
	created, err := h.Svc.Create(ctx, sweet)
	if err != nil {
		if errors.Is(err, repo.ErrSweetNameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "Creation failed: Sweet name already in use.")
		}
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *SweetHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query parameter q is required.")
	}

	total, sweets, err := h.Svc.SearchByName(ctx, query)
	if err != nil {
		if errors.Is(err, service.ErrSearchUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Search is not available.")
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"data":  sweets,
	})
}
