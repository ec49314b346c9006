package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
	ucBooking "github.com/BruksfildServices01/studio-scheduler/internal/usecase/booking"
)

type BookingHandler struct {
	cancel     *ucBooking.CancelBooking
	listByDate *ucBooking.ListBookingsByDate
}

func NewBookingHandler(
	cancel *ucBooking.CancelBooking,
	listByDate *ucBooking.ListBookingsByDate,
) *BookingHandler {
	return &BookingHandler{
		cancel:     cancel,
		listByDate: listByDate,
	}
}

// ListByDate returns the bookings of one studio day (?date=YYYY-MM-DD,
// default today in UTC).
func (h *BookingHandler) ListByDate(c *gin.Context) {
	date := timezone.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	views, err := h.listByDate.Execute(c.Request.Context(), middleware.StudioID(c), date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, views)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.cancel.Execute(
		c.Request.Context(),
		middleware.StudioID(c),
		middleware.UserID(c),
		bookingID,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, b)
}
